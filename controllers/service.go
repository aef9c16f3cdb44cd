package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/models"
)

// GetAllServices returns all active services
func GetAllServices(c *fiber.Ctx) error {
	var services []models.Service
	if err := db.DB.Preload("Provider").
		Where("is_active = ?", true).
		Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(services)
}

func GetService(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid service id",
		})
	}
	var service models.Service
	if err := db.DB.Preload("Provider").First(&service, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}
	return c.JSON(service)
}

type ServiceInput struct {
	Name                  string   `json:"name" validate:"required"`
	Description           string   `json:"description"`
	DefaultPrice          string   `json:"default_price" validate:"required"`
	IsRecurrent           bool     `json:"is_recurrent"`
	Address               string   `json:"address"`
	AllowedPaymentMethods []string `json:"allowed_payment_methods"`
}

// CreateService creates a new service owned by the caller's provider profile.
func CreateService(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	input := new(ServiceInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	price, err := decimal.NewFromString(input.DefaultPrice)
	if err != nil || price.Cmp(decimal.Zero) < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid default_price",
		})
	}

	service := models.Service{
		ProviderID:            provider.ID,
		Name:                  input.Name,
		Description:           input.Description,
		DefaultPrice:          price,
		IsActive:              true,
		IsRecurrent:           input.IsRecurrent,
		Address:               input.Address,
		AllowedPaymentMethods: datatypes.NewJSONSlice(input.AllowedPaymentMethods),
	}
	if err := db.DB.Create(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create service",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// UpdateService updates a service owned by the caller.
func UpdateService(c *fiber.Ctx) error {
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
			"error": "Invalid service id",
		})
	}

	var service models.Service
	if db.DB.Where("id = ? AND provider_id = ?", id, provider.ID).First(&service).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	type UpdateInput struct {
		Name                  string   `json:"name"`
		Description           string   `json:"description"`
		DefaultPrice          string   `json:"default_price"`
		IsActive              *bool    `json:"is_active"`
		IsRecurrent           *bool    `json:"is_recurrent"`
		Address               string   `json:"address"`
		AllowedPaymentMethods []string `json:"allowed_payment_methods"`
	}
	input := new(UpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if input.Name != "" {
		service.Name = input.Name
	}
	if input.Description != "" {
		service.Description = input.Description
	}
	if input.DefaultPrice != "" {
		price, err := decimal.NewFromString(input.DefaultPrice)
		if err != nil || price.Cmp(decimal.Zero) < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid default_price",
			})
		}
		service.DefaultPrice = price
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if input.IsRecurrent != nil {
		service.IsRecurrent = *input.IsRecurrent
	}
	if input.Address != "" {
		service.Address = input.Address
	}
	if input.AllowedPaymentMethods != nil {
		service.AllowedPaymentMethods = datatypes.NewJSONSlice(input.AllowedPaymentMethods)
	}

	if err := db.DB.Save(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update service",
		})
	}
	return c.JSON(service)
}

// DeleteService deactivates a service owned by the caller.
func DeleteService(c *fiber.Ctx) error {
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
			"error": "Invalid service id",
		})
	}

	var service models.Service
	if db.DB.Where("id = ? AND provider_id = ?", id, provider.ID).First(&service).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}
	db.DB.Delete(&service)
	return c.SendStatus(fiber.StatusNoContent)
}
