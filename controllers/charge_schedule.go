package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/models"
)

// GetChargeSchedule returns the charge schedule of one of the caller's
// enrollments.
func GetChargeSchedule(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	enrollmentID, err := uuid.Parse(c.Params("enrollmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment id",
		})
	}

	enrollment, err := enrollmentForProvider(provider.ID, enrollmentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}
	if enrollment.ChargeSchedule == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Charge schedule not found",
		})
	}
	return c.JSON(enrollment.ChargeSchedule)
}

// UpdateChargeSchedule updates the 1:1 charge schedule in place.
func UpdateChargeSchedule(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	enrollmentID, err := uuid.Parse(c.Params("enrollmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment id",
		})
	}

	enrollment, err := enrollmentForProvider(provider.ID, enrollmentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}
	if enrollment.ChargeSchedule == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Charge schedule not found",
		})
	}

	input := new(ChargeScheduleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	schedule, err := input.toModel(enrollment.ID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	schedule.ID = enrollment.ChargeSchedule.ID
	schedule.CreatedAt = enrollment.ChargeSchedule.CreatedAt

	if err := db.DB.Save(schedule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update charge schedule",
		})
	}
	return c.JSON(schedule)
}

// GetServiceSchedules lists the service-schedule rows of an enrollment.
func GetServiceSchedules(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	enrollmentID, err := uuid.Parse(c.Params("enrollmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment id",
		})
	}

	if _, err := enrollmentForProvider(provider.ID, enrollmentID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	var schedules []models.ServiceSchedule
	if err := db.DB.Where("enrollment_id = ?", enrollmentID).Find(&schedules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch service schedules",
		})
	}
	return c.JSON(schedules)
}
