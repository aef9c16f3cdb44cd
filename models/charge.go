package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChargeStatus string

const (
	ChargePending           ChargeStatus = "PENDING"
	ChargePaid              ChargeStatus = "PAID"
	ChargeCanceled          ChargeStatus = "CANCELED"
	ChargeRefunded          ChargeStatus = "REFUNDED"
	ChargePartiallyRefunded ChargeStatus = "PARTIALLY_REFUNDED"
	ChargeInDispute         ChargeStatus = "IN_DISPUTE"
)

// Charge is one billable instance tied to an Enrollment. Status transitions
// are driven by gateway webhook events or the manual pay/fail operations.
type Charge struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	EnrollmentID     uuid.UUID       `json:"enrollment_id" gorm:"type:uuid;index"`
	Enrollment       *Enrollment     `json:"enrollment,omitempty" gorm:"foreignKey:EnrollmentID"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(10,2)"`
	DueDate          time.Time       `json:"due_date"`
	Status           ChargeStatus    `json:"status" gorm:"type:varchar(20)"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	RefundedAmount   decimal.Decimal `json:"refunded_amount" gorm:"type:decimal(10,2)"`
	PaymentGatewayID string          `json:"payment_gateway_id,omitempty"` // external payment-intent id
	PaymentLink      string          `json:"payment_link,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (ch *Charge) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	if ch.Status == "" {
		ch.Status = ChargePending
	}
	if ch.Amount.Cmp(decimal.NewFromFloat(0.01)) < 0 {
		return fmt.Errorf("charge amount must be at least 0.01")
	}
	return nil
}

// MarkPaid transitions a pending charge to PAID.
func (ch *Charge) MarkPaid(gatewayID string) error {
	if ch.Status != ChargePending {
		return fmt.Errorf("invalid transition from %s to %s", ch.Status, ChargePaid)
	}
	now := time.Now()
	ch.Status = ChargePaid
	ch.PaidAt = &now
	if gatewayID != "" {
		ch.PaymentGatewayID = gatewayID
	}
	return nil
}

// MarkFailed cancels a pending charge. It is a no-op on any other status so a
// late failure notification can never cancel an already-paid charge. The
// return value reports whether the charge was actually canceled.
func (ch *Charge) MarkFailed() bool {
	if ch.Status != ChargePending {
		return false
	}
	ch.Status = ChargeCanceled
	return true
}

// ApplyRefund accumulates a refund event into the charge. The charge becomes
// REFUNDED once the cumulative refunded amount covers the full amount,
// PARTIALLY_REFUNDED otherwise.
func (ch *Charge) ApplyRefund(amount decimal.Decimal) error {
	if ch.Status != ChargePaid && ch.Status != ChargePartiallyRefunded {
		return fmt.Errorf("cannot refund charge in status %s", ch.Status)
	}
	if amount.Cmp(decimal.Zero) <= 0 {
		return fmt.Errorf("refund amount must be positive")
	}
	ch.RefundedAmount = ch.RefundedAmount.Add(amount)
	if ch.RefundedAmount.Cmp(ch.Amount) >= 0 {
		ch.Status = ChargeRefunded
	} else {
		ch.Status = ChargePartiallyRefunded
	}
	return nil
}

// MarkDisputed flags the charge for manual reconciliation. Disputes are set
// unconditionally, whatever the prior status.
func (ch *Charge) MarkDisputed() {
	ch.Status = ChargeInDispute
}
