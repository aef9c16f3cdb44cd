package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/events"
	"github.com/controlapag/controlapag-api/models"
	"github.com/controlapag/controlapag-api/utils"
)

type CreateOrganizationInput struct {
	Name string `json:"name" validate:"required"`
}

// CreateOrganization creates an organization owned by the caller. A user can
// own at most one organization; ownership promotes the account to MASTER.
func CreateOrganization(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	input := new(CreateOrganizationInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var existing models.Organization
	if db.DB.Where("owner_id = ?", userID).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already own an organization",
		})
	}

	org := models.Organization{
		Name:    input.Name,
		OwnerID: userID,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"role":            models.RoleMaster,
				"organization_id": org.ID,
			}).Error
	})
	if err != nil {
		log.Printf("Error creating organization: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create organization",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(org)
}

// GetOrganization returns an organization and its owner.
func GetOrganization(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid organization id",
		})
	}

	var org models.Organization
	if err := db.DB.Preload("Owner").First(&org, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Organization not found",
		})
	}
	if org.Owner != nil {
		org.Owner.Password = ""
	}
	return c.JSON(org)
}

// GetOrganizationMembers lists all users associated with the organization.
func GetOrganizationMembers(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid organization id",
		})
	}

	var members []models.User
	if err := db.DB.Where("organization_id = ?", id).Find(&members).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch members",
		})
	}
	for i := range members {
		members[i].Password = ""
	}
	return c.JSON(members)
}

type InviteSubProviderInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

var (
	errAlreadyInOrganization = errors.New("User is already part of this organization")
	errMemberOfOtherOrg      = errors.New("User already belongs to another organization")
)

// checkInviteeMembership rejects invitees that already belong to an
// organization; moving an account between organizations is not supported.
func checkInviteeMembership(invitee *models.User, orgID uuid.UUID) error {
	if invitee.OrganizationID == nil {
		return nil
	}
	if *invitee.OrganizationID == orgID {
		return errAlreadyInOrganization
	}
	return errMemberOfOtherOrg
}

// InviteSubProvider adds a sub-provider to the caller's organization. An
// invitee already in an organization is rejected; an unaffiliated existing
// account is linked and gains a provider profile if it lacks one, a new
// account is created with a temporary password. The invite code goes out by
// email through the event stream.
func InviteSubProvider(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	orgID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid organization id",
		})
	}

	var org models.Organization
	if err := db.DB.First(&org, "id = ?", orgID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Organization not found",
		})
	}
	if org.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the organization owner can invite sub-providers",
		})
	}

	input := new(InviteSubProviderInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	inviteCode := utils.GenerateInviteCode()

	var invitee models.User
	found := db.DB.Where("email = ?", input.Email).First(&invitee).RowsAffected > 0
	if found {
		switch err := checkInviteeMembership(&invitee, org.ID); err {
		case nil:
		case errAlreadyInOrganization:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		invitee.OrganizationID = &org.ID
		invitee.Role = models.RoleSubProvider
		err := db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&invitee).Error; err != nil {
				return err
			}
			var provider models.Provider
			if tx.Where("user_id = ?", invitee.ID).First(&provider).RowsAffected > 0 {
				return nil
			}
			return tx.Create(&models.Provider{
				UserID: invitee.ID,
				Title:  invitee.Username,
				Status: models.ProviderPendingVerification,
			}).Error
		})
		if err != nil {
			log.Printf("Error linking sub-provider: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to link user to organization",
			})
		}
	} else {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(utils.GenerateTempPassword()), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to hash password",
			})
		}
		invitee = models.User{
			Username:       input.Username,
			Email:          input.Email,
			Password:       string(hashedPassword),
			Role:           models.RoleSubProvider,
			OrganizationID: &org.ID,
		}
		err = db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&invitee).Error; err != nil {
				return err
			}
			return tx.Create(&models.Provider{
				UserID: invitee.ID,
				Title:  input.Username,
				Status: models.ProviderPendingVerification,
			}).Error
		})
		if err != nil {
			log.Printf("Error creating sub-provider: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create sub-provider",
			})
		}
	}

	events.Emit(events.Event{
		Type: events.SubProviderInvited,
		Payload: events.ChargeEvent{
			ClientName:  invitee.Username,
			ClientEmail: invitee.Email,
			Reason:      inviteCode,
		},
	})

	invitee.Password = ""
	return c.Status(fiber.StatusCreated).JSON(invitee)
}
