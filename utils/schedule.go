package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/controlapag/controlapag-api/models"
)

// ServiceScheduleInput is the simplified frequency payload clients send when
// creating or updating an enrollment. It gets expanded into concrete
// ServiceSchedule rows.
type ServiceScheduleInput struct {
	Frequency  models.ScheduleFrequency `json:"frequency" validate:"required"`
	DaysOfWeek []int                    `json:"days_of_week,omitempty"`
	DayOfMonth *int                     `json:"day_of_month,omitempty"`
	StartTime  string                   `json:"start_time"`
	EndTime    string                   `json:"end_time"`
}

// ExpandServiceSchedules turns the simplified input into persistable rows.
// WEEKLY produces one row per selected day and rejects an empty selection
// before anything is written.
func ExpandServiceSchedules(enrollmentID uuid.UUID, in ServiceScheduleInput) ([]models.ServiceSchedule, error) {
	if err := validateTimeWindow(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	switch in.Frequency {
	case models.FrequencyWeekly:
		if len(in.DaysOfWeek) == 0 {
			return nil, fmt.Errorf("days_of_week is required for WEEKLY frequency")
		}
		schedules := make([]models.ServiceSchedule, 0, len(in.DaysOfWeek))
		for _, day := range in.DaysOfWeek {
			if day < 0 || day > 6 {
				return nil, fmt.Errorf("invalid day of week: %d", day)
			}
			d := day
			schedules = append(schedules, models.ServiceSchedule{
				EnrollmentID: enrollmentID,
				Frequency:    models.FrequencyWeekly,
				DayOfWeek:    &d,
				StartTime:    in.StartTime,
				EndTime:      in.EndTime,
			})
		}
		return schedules, nil

	case models.FrequencyMonthly:
		if in.DayOfMonth == nil {
			return nil, fmt.Errorf("day_of_month is required for MONTHLY frequency")
		}
		if *in.DayOfMonth < 1 || *in.DayOfMonth > 31 {
			return nil, fmt.Errorf("invalid day of month: %d", *in.DayOfMonth)
		}
		return []models.ServiceSchedule{{
			EnrollmentID: enrollmentID,
			Frequency:    models.FrequencyMonthly,
			DayOfMonth:   in.DayOfMonth,
			StartTime:    in.StartTime,
			EndTime:      in.EndTime,
		}}, nil

	case models.FrequencyDaily:
		return []models.ServiceSchedule{{
			EnrollmentID: enrollmentID,
			Frequency:    models.FrequencyDaily,
			StartTime:    in.StartTime,
			EndTime:      in.EndTime,
		}}, nil

	case models.FrequencyCustomDays:
		// Accepted but not expanded yet; the custom-days payload is still
		// undefined on the product side.
		log.Printf("Warning: CUSTOM_DAYS frequency produced no schedule rows for enrollment %s", enrollmentID)
		return []models.ServiceSchedule{}, nil

	default:
		return nil, fmt.Errorf("unsupported schedule frequency: %s", in.Frequency)
	}
}

func validateTimeWindow(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	if _, err := time.Parse("15:04", start); err != nil {
		return fmt.Errorf("invalid start_time %q, expected HH:MM", start)
	}
	if _, err := time.Parse("15:04", end); err != nil {
		return fmt.Errorf("invalid end_time %q, expected HH:MM", end)
	}
	return nil
}

// NextChargeDate computes the due date following `from` for a recurring
// schedule. Monthly and yearly dates land on ChargeDay (1-28) so the day
// always exists in the target month.
func NextChargeDate(cs *models.ChargeSchedule, from time.Time) time.Time {
	interval := models.IntervalMonthly
	if cs.RecurrenceInterval != nil {
		interval = *cs.RecurrenceInterval
	}

	switch interval {
	case models.IntervalDaily:
		return from.AddDate(0, 0, 1)
	case models.IntervalWeekly:
		return from.AddDate(0, 0, 7)
	case models.IntervalYearly:
		next := from.AddDate(1, 0, 0)
		return clampToChargeDay(next, cs.ChargeDay)
	default: // monthly
		next := time.Date(from.Year(), from.Month()+1, 1, 0, 0, 0, 0, from.Location())
		return clampToChargeDay(next, cs.ChargeDay)
	}
}

func clampToChargeDay(t time.Time, chargeDay int) time.Time {
	if chargeDay < 1 || chargeDay > 28 {
		return t
	}
	return time.Date(t.Year(), t.Month(), chargeDay, 0, 0, 0, 0, t.Location())
}
