package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleFrequency string

const (
	FrequencyDaily      ScheduleFrequency = "DAILY"
	FrequencyWeekly     ScheduleFrequency = "WEEKLY"
	FrequencyMonthly    ScheduleFrequency = "MONTHLY"
	FrequencyCustomDays ScheduleFrequency = "CUSTOM_DAYS"
)

// ServiceSchedule describes when the contracted service itself occurs. WEEKLY
// enrollments get one row per selected day of week.
type ServiceSchedule struct {
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	EnrollmentID uuid.UUID         `json:"enrollment_id" gorm:"type:uuid;index"`
	Frequency    ScheduleFrequency `json:"frequency" gorm:"type:varchar(15)"`
	DayOfWeek    *int              `json:"day_of_week,omitempty"`  // 0=Sunday .. 6=Saturday
	DayOfMonth   *int              `json:"day_of_month,omitempty"` // 1-31
	StartTime    string            `json:"start_time"`             // "HH:MM" 24h
	EndTime      string            `json:"end_time"`               // "HH:MM" 24h
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (ss *ServiceSchedule) BeforeCreate(tx *gorm.DB) error {
	if ss.ID == uuid.Nil {
		ss.ID = uuid.New()
	}
	return nil
}
