package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExceptionAction string

const (
	ExceptionSkip         ExceptionAction = "SKIP"
	ExceptionPostpone     ExceptionAction = "POSTPONE"
	ExceptionModifyAmount ExceptionAction = "MODIFY_AMOUNT"
)

// ChargeException is a one-off override for a specific scheduled charge
// occurrence.
type ChargeException struct {
	ID                 uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	EnrollmentID       uuid.UUID        `json:"enrollment_id" gorm:"type:uuid;index"`
	OriginalChargeDate time.Time        `json:"original_charge_date"`
	Action             ExceptionAction  `json:"action" gorm:"type:varchar(15)"`
	NewDueDate         *time.Time       `json:"new_due_date,omitempty"`
	NewAmount          *decimal.Decimal `json:"new_amount,omitempty" gorm:"type:decimal(10,2)"`
	Reason             string           `json:"reason"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (ce *ChargeException) BeforeCreate(tx *gorm.DB) error {
	if ce.ID == uuid.Nil {
		ce.ID = uuid.New()
	}
	return nil
}

func (ce *ChargeException) Validate() error {
	switch ce.Action {
	case ExceptionSkip:
	case ExceptionPostpone:
		if ce.NewDueDate == nil {
			return fmt.Errorf("POSTPONE requires new_due_date")
		}
	case ExceptionModifyAmount:
		if ce.NewAmount == nil {
			return fmt.Errorf("MODIFY_AMOUNT requires new_amount")
		}
	default:
		return fmt.Errorf("invalid exception action: %s", ce.Action)
	}
	return nil
}
