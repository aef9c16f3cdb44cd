package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/models"
)

type ChargeExceptionInput struct {
	EnrollmentID       string                 `json:"enrollment_id" validate:"required,uuid4"`
	OriginalChargeDate string                 `json:"original_charge_date" validate:"required"`
	Action             models.ExceptionAction `json:"action" validate:"required"`
	NewDueDate         *string                `json:"new_due_date,omitempty"`
	NewAmount          *string                `json:"new_amount,omitempty"`
	Reason             string                 `json:"reason"`
}

// CreateChargeException records a one-off override for a scheduled charge
// occurrence.
func CreateChargeException(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	input := new(ChargeExceptionInput)
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

	enrollment, err := enrollmentForProvider(provider.ID, uuid.MustParse(input.EnrollmentID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	originalDate, err := time.Parse("2006-01-02", input.OriginalChargeDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid original_charge_date, expected YYYY-MM-DD",
		})
	}

	exception := models.ChargeException{
		EnrollmentID:       enrollment.ID,
		OriginalChargeDate: originalDate,
		Action:             input.Action,
		Reason:             input.Reason,
	}
	if input.NewDueDate != nil {
		newDue, err := time.Parse("2006-01-02", *input.NewDueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid new_due_date, expected YYYY-MM-DD",
			})
		}
		exception.NewDueDate = &newDue
	}
	if input.NewAmount != nil {
		newAmount, err := decimal.NewFromString(*input.NewAmount)
		if err != nil || newAmount.Cmp(decimal.NewFromFloat(0.01)) < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid new_amount",
			})
		}
		exception.NewAmount = &newAmount
	}

	if err := exception.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := db.DB.Create(&exception).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create charge exception",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(exception)
}

// GetChargeExceptions lists the exceptions of an enrollment.
func GetChargeExceptions(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	enrollmentID, err := uuid.Parse(c.Query("enrollment_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "enrollment_id query parameter is required",
		})
	}

	if _, err := enrollmentForProvider(provider.ID, enrollmentID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	var exceptions []models.ChargeException
	if err := db.DB.Where("enrollment_id = ?", enrollmentID).
		Order("original_charge_date ASC").
		Find(&exceptions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch charge exceptions",
		})
	}
	return c.JSON(exceptions)
}

// DeleteChargeException removes an override before it takes effect.
func DeleteChargeException(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exception id",
		})
	}

	var exception models.ChargeException
	if err := db.DB.First(&exception, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Charge exception not found",
		})
	}

	if _, err := enrollmentForProvider(provider.ID, exception.EnrollmentID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Charge exception not found",
		})
	}

	db.DB.Delete(&exception)
	return c.SendStatus(fiber.StatusNoContent)
}
