package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID                uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID    `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	User              *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Phone             string       `json:"phone"`
	Address           string       `json:"address"`
	PaymentCustomerID string       `json:"payment_customer_id,omitempty"`
	Enrollments       []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:ClientID"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func (cl *Client) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	return nil
}
