package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/controlapag/controlapag-api/models"
)

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

func TestNextOccurrenceAfter(t *testing.T) {
	cs := recurringSchedule(models.IntervalDaily, 0)
	next := nextOccurrenceAfter(cs, date(2026, time.March, 10), nil)
	assert.Equal(t, date(2026, time.March, 11), next)
}

func TestNextOccurrenceAfterPostponementKeepsCadence(t *testing.T) {
	// A daily charge for Mar 10 postponed to Mar 20: the following occurrence
	// is still Mar 11, not Mar 21.
	original := date(2026, time.March, 10)
	moved := date(2026, time.March, 20)
	postponements := []models.ChargeException{{
		Action:             models.ExceptionPostpone,
		OriginalChargeDate: original,
		NewDueDate:         &moved,
	}}

	daily := recurringSchedule(models.IntervalDaily, 0)
	assert.Equal(t, date(2026, time.March, 11), nextOccurrenceAfter(daily, moved, postponements))

	weekly := recurringSchedule(models.IntervalWeekly, 0)
	assert.Equal(t, date(2026, time.March, 17), nextOccurrenceAfter(weekly, moved, postponements))
}

func TestNextOccurrenceAfterIgnoresUnrelatedPostponement(t *testing.T) {
	other := date(2026, time.January, 5)
	moved := date(2026, time.January, 15)
	postponements := []models.ChargeException{{
		Action:             models.ExceptionPostpone,
		OriginalChargeDate: other,
		NewDueDate:         &moved,
	}}

	cs := recurringSchedule(models.IntervalDaily, 0)
	next := nextOccurrenceAfter(cs, date(2026, time.March, 10), postponements)
	assert.Equal(t, date(2026, time.March, 11), next)
}
