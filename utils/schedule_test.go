package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controlapag/controlapag-api/models"
)

func TestExpandServiceSchedulesWeekly(t *testing.T) {
	enrollmentID := uuid.New()
	rows, err := ExpandServiceSchedules(enrollmentID, ServiceScheduleInput{
		Frequency:  models.FrequencyWeekly,
		DaysOfWeek: []int{1, 3},
		StartTime:  "09:00",
		EndTime:    "10:00",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, *rows[0].DayOfWeek)
	assert.Equal(t, 3, *rows[1].DayOfWeek)
	for _, row := range rows {
		assert.Equal(t, enrollmentID, row.EnrollmentID)
		assert.Equal(t, models.FrequencyWeekly, row.Frequency)
		assert.Equal(t, "09:00", row.StartTime)
	}
}

func TestExpandServiceSchedulesWeeklyRejectsEmptyDays(t *testing.T) {
	_, err := ExpandServiceSchedules(uuid.New(), ServiceScheduleInput{
		Frequency: models.FrequencyWeekly,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "days_of_week")
}

func TestExpandServiceSchedulesWeeklyRejectsBadDay(t *testing.T) {
	_, err := ExpandServiceSchedules(uuid.New(), ServiceScheduleInput{
		Frequency:  models.FrequencyWeekly,
		DaysOfWeek: []int{7},
	})
	assert.Error(t, err)
}

func TestExpandServiceSchedulesMonthly(t *testing.T) {
	day := 15
	rows, err := ExpandServiceSchedules(uuid.New(), ServiceScheduleInput{
		Frequency:  models.FrequencyMonthly,
		DayOfMonth: &day,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 15, *rows[0].DayOfMonth)

	_, err = ExpandServiceSchedules(uuid.New(), ServiceScheduleInput{
		Frequency: models.FrequencyMonthly,
	})
	assert.Error(t, err, "day_of_month is mandatory for monthly")
}

func TestExpandServiceSchedulesDaily(t *testing.T) {
	rows, err := ExpandServiceSchedules(uuid.New(), ServiceScheduleInput{
		Frequency: models.FrequencyDaily,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExpandServiceSchedulesCustomDaysProducesNoRows(t *testing.T) {
	rows, err := ExpandServiceSchedules(uuid.New(), ServiceScheduleInput{
		Frequency: models.FrequencyCustomDays,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExpandServiceSchedulesUnknownFrequency(t *testing.T) {
	_, err := ExpandServiceSchedules(uuid.New(), ServiceScheduleInput{
		Frequency: "FORTNIGHTLY",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORTNIGHTLY")
}

func TestExpandServiceSchedulesValidatesTimeWindow(t *testing.T) {
	_, err := ExpandServiceSchedules(uuid.New(), ServiceScheduleInput{
		Frequency: models.FrequencyDaily,
		StartTime: "9am",
		EndTime:   "10:00",
	})
	assert.Error(t, err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func recurringSchedule(interval models.RecurrenceInterval, chargeDay int) *models.ChargeSchedule {
	return &models.ChargeSchedule{
		BillingModel:       models.BillingModelRecurring,
		RecurrenceInterval: &interval,
		ChargeDay:          chargeDay,
	}
}

func TestNextChargeDateMonthly(t *testing.T) {
	cs := recurringSchedule(models.IntervalMonthly, 10)
	assert.Equal(t, date(2026, time.February, 10), NextChargeDate(cs, date(2026, time.January, 10)))

	// Rolls through year boundary
	assert.Equal(t, date(2027, time.January, 10), NextChargeDate(cs, date(2026, time.December, 10)))
}

func TestNextChargeDateMonthlyClampsToChargeDay(t *testing.T) {
	cs := recurringSchedule(models.IntervalMonthly, 28)
	// From the end of January the next date is Feb 28, never a nonexistent day
	assert.Equal(t, date(2026, time.February, 28), NextChargeDate(cs, date(2026, time.January, 31)))
}

func TestNextChargeDateDailyAndWeekly(t *testing.T) {
	daily := recurringSchedule(models.IntervalDaily, 0)
	assert.Equal(t, date(2026, time.March, 2), NextChargeDate(daily, date(2026, time.March, 1)))

	weekly := recurringSchedule(models.IntervalWeekly, 0)
	assert.Equal(t, date(2026, time.March, 8), NextChargeDate(weekly, date(2026, time.March, 1)))
}

func TestNextChargeDateYearly(t *testing.T) {
	cs := recurringSchedule(models.IntervalYearly, 5)
	assert.Equal(t, date(2027, time.June, 5), NextChargeDate(cs, date(2026, time.June, 5)))
}

func TestNextChargeDateDefaultsToMonthly(t *testing.T) {
	cs := &models.ChargeSchedule{BillingModel: models.BillingModelRecurring, ChargeDay: 1}
	assert.Equal(t, date(2026, time.May, 1), NextChargeDate(cs, date(2026, time.April, 1)))
}
