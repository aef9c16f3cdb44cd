package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleClient      Role = "CLIENT"
	RoleIndividual  Role = "INDIVIDUAL"
	RoleMaster      Role = "MASTER"
	RoleSubProvider Role = "SUB_PROVIDER"

	// RoleProvider predates the INDIVIDUAL/MASTER/SUB_PROVIDER split and is
	// still present on older accounts.
	RoleProvider Role = "PROVIDER"
)

type User struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Username       string        `json:"username"`
	Email          string        `json:"email" gorm:"unique"`
	Password       string        `json:"password,omitempty"`
	Role           Role          `json:"role" gorm:"type:varchar(20)"`
	OrganizationID *uuid.UUID    `json:"organization_id,omitempty" gorm:"type:uuid"`
	Organization   *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	ImageURL       string        `json:"image_url,omitempty"`
	Provider       *Provider     `json:"provider,omitempty" gorm:"foreignKey:UserID"`
	Client         *Client       `json:"client,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleClient
	}
	return nil
}

// IsProviderRole reports whether the role can own services. The legacy
// PROVIDER role is treated as part of the new provider role set.
func (r Role) IsProviderRole() bool {
	switch r {
	case RoleProvider, RoleIndividual, RoleMaster, RoleSubProvider:
		return true
	}
	return false
}
