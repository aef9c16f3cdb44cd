package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderStatus string

const (
	ProviderActive              ProviderStatus = "ACTIVE"
	ProviderInactive            ProviderStatus = "INACTIVE"
	ProviderPendingVerification ProviderStatus = "PENDING_VERIFICATION"
	ProviderPendingPayment      ProviderStatus = "PENDING_PAYMENT"
)

// Provider is the service-selling business profile owned by a User. Status is
// driven by subscription and connected-account webhooks.
type Provider struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID      `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	User              *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Title             string         `json:"title"`
	Bio               string         `json:"bio"`
	BusinessPhone     string         `json:"business_phone"`
	Address           string         `json:"address"`
	Status            ProviderStatus `json:"status" gorm:"type:varchar(25)"`
	PaymentCustomerID string         `json:"payment_customer_id,omitempty"`
	SubscriptionID    string         `json:"subscription_id,omitempty"`
	ProviderPaymentID string         `json:"provider_payment_id,omitempty"` // connected-account id
	Services          []Service      `json:"services,omitempty" gorm:"foreignKey:ProviderID"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProviderPendingPayment
	}
	return nil
}
