package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organization struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:uuid"`
	Owner     *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Members   []User    `json:"members,omitempty" gorm:"foreignKey:OrganizationID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
