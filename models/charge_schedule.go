package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingModel string

const (
	BillingModelRecurring BillingModel = "RECURRING"
	BillingModelOneTime   BillingModel = "ONE_TIME"
)

type RecurrenceInterval string

const (
	IntervalDaily   RecurrenceInterval = "DAILY"
	IntervalWeekly  RecurrenceInterval = "WEEKLY"
	IntervalMonthly RecurrenceInterval = "MONTHLY"
	IntervalYearly  RecurrenceInterval = "YEARLY"
)

// ChargeSchedule describes how billing recurs for an Enrollment. Exactly one
// per enrollment.
type ChargeSchedule struct {
	ID                 uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	EnrollmentID       uuid.UUID           `json:"enrollment_id" gorm:"type:uuid;uniqueIndex"`
	BillingModel       BillingModel        `json:"billing_model" gorm:"type:varchar(10)"`
	RecurrenceInterval *RecurrenceInterval `json:"recurrence_interval,omitempty" gorm:"type:varchar(10)"`
	ChargeDay          int                 `json:"charge_day"` // 1-28
	DueDate            *time.Time          `json:"due_date,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func (cs *ChargeSchedule) BeforeCreate(tx *gorm.DB) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	return nil
}

// Validate enforces the billing-model invariants: RECURRING needs an interval,
// ONE_TIME needs a due date.
func (cs *ChargeSchedule) Validate() error {
	switch cs.BillingModel {
	case BillingModelRecurring:
		if cs.RecurrenceInterval == nil || *cs.RecurrenceInterval == "" {
			return fmt.Errorf("recurrence_interval is required for RECURRING billing")
		}
	case BillingModelOneTime:
		if cs.DueDate == nil {
			return fmt.Errorf("due_date is required for ONE_TIME billing")
		}
	default:
		return fmt.Errorf("invalid billing model: %s", cs.BillingModel)
	}
	if cs.ChargeDay < 0 || cs.ChargeDay > 28 {
		return fmt.Errorf("charge_day must be between 1 and 28")
	}
	return nil
}
