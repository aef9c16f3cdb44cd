package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentInactive  EnrollmentStatus = "INACTIVE"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentPaused    EnrollmentStatus = "PAUSED"
)

type BillingType string

const (
	BillingUnique      BillingType = "UNIQUE"
	BillingInstallment BillingType = "INSTALLMENT"
	BillingRecurring   BillingType = "RECURRING"
)

// Enrollment binds a Client to a Service with pricing, lifecycle status and
// its billing/service schedules. It is created transactionally together with
// its ChargeSchedule and ServiceSchedule rows.
type Enrollment struct {
	ID               uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	ServiceID        uuid.UUID         `json:"service_id" gorm:"type:uuid"`
	Service          *Service          `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	ClientID         uuid.UUID         `json:"client_id" gorm:"type:uuid"`
	Client           *Client           `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Price            decimal.Decimal   `json:"price" gorm:"type:decimal(10,2)"`
	StartDate        time.Time         `json:"start_date"`
	EndDate          *time.Time        `json:"end_date,omitempty"`
	Status           EnrollmentStatus  `json:"status" gorm:"type:varchar(15)"`
	BillingType      *BillingType      `json:"billing_type,omitempty" gorm:"type:varchar(15)"`
	PauseStartDate   *time.Time        `json:"pause_start_date,omitempty"`
	PauseEndDate     *time.Time        `json:"pause_end_date,omitempty"`
	ChargeSchedule   *ChargeSchedule   `json:"charge_schedule,omitempty" gorm:"foreignKey:EnrollmentID"`
	ServiceSchedules []ServiceSchedule `json:"service_schedules,omitempty" gorm:"foreignKey:EnrollmentID"`
	Charges          []Charge          `json:"charges,omitempty" gorm:"foreignKey:EnrollmentID"`
	ChargeExceptions []ChargeException `json:"charge_exceptions,omitempty" gorm:"foreignKey:EnrollmentID"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = EnrollmentActive
	}
	return nil
}
