package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func interval(i RecurrenceInterval) *RecurrenceInterval { return &i }

func TestChargeScheduleValidate(t *testing.T) {
	due := time.Now()

	cases := []struct {
		name    string
		cs      ChargeSchedule
		wantErr bool
	}{
		{"recurring monthly", ChargeSchedule{BillingModel: BillingModelRecurring, RecurrenceInterval: interval(IntervalMonthly), ChargeDay: 10}, false},
		{"recurring without interval", ChargeSchedule{BillingModel: BillingModelRecurring}, true},
		{"one time with due date", ChargeSchedule{BillingModel: BillingModelOneTime, DueDate: &due}, false},
		{"one time without due date", ChargeSchedule{BillingModel: BillingModelOneTime}, true},
		{"charge day past 28", ChargeSchedule{BillingModel: BillingModelRecurring, RecurrenceInterval: interval(IntervalMonthly), ChargeDay: 29}, true},
		{"negative charge day", ChargeSchedule{BillingModel: BillingModelRecurring, RecurrenceInterval: interval(IntervalMonthly), ChargeDay: -1}, true},
		{"unknown billing model", ChargeSchedule{BillingModel: "SPORADIC"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cs.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChargeExceptionValidate(t *testing.T) {
	due := time.Now()
	amount := decimal.RequireFromString("50.00")

	assert.NoError(t, (&ChargeException{Action: ExceptionSkip}).Validate())
	assert.NoError(t, (&ChargeException{Action: ExceptionPostpone, NewDueDate: &due}).Validate())
	assert.Error(t, (&ChargeException{Action: ExceptionPostpone}).Validate())
	assert.NoError(t, (&ChargeException{Action: ExceptionModifyAmount, NewAmount: &amount}).Validate())
	assert.Error(t, (&ChargeException{Action: ExceptionModifyAmount}).Validate())
	assert.Error(t, (&ChargeException{Action: "EXTEND"}).Validate())
}
