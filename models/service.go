package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodPix    PaymentMethod = "PIX"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodBoleto PaymentMethod = "BOLETO"
	PaymentMethodCash   PaymentMethod = "CASH"
)

type Service struct {
	ID                    uuid.UUID                    `json:"id" gorm:"type:uuid;primaryKey"`
	ProviderID            uuid.UUID                    `json:"provider_id" gorm:"type:uuid"`
	Provider              *Provider                    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Name                  string                       `json:"name"`
	Description           string                       `json:"description"`
	DefaultPrice          decimal.Decimal              `json:"default_price" gorm:"type:decimal(10,2)"`
	IsActive              bool                         `json:"is_active" gorm:"default:true"`
	IsRecurrent           bool                         `json:"is_recurrent"`
	Address               string                       `json:"address"`
	AllowedPaymentMethods datatypes.JSONSlice[string]  `json:"allowed_payment_methods"`
	Enrollments           []Enrollment                 `json:"enrollments,omitempty" gorm:"foreignKey:ServiceID"`
	CreatedAt             time.Time                    `json:"created_at"`
	UpdatedAt             time.Time                    `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
