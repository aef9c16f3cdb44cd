package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/models"
)

// providerForUser resolves the provider profile of the authenticated user.
func providerForUser(userID uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	if err := db.DB.First(&provider, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// GetAllProviders returns all active service providers
func GetAllProviders(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var providers []models.Provider
	if err := db.DB.Preload("User").
		Where("status = ?", models.ProviderActive).
		Limit(limit).
		Offset(offset).
		Find(&providers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch providers",
		})
	}

	var count int64
	db.DB.Model(&models.Provider{}).Where("status = ?", models.ProviderActive).Count(&count)

	return c.JSON(fiber.Map{
		"providers": providers,
		"total":     count,
		"page":      page,
		"limit":     limit,
	})
}

// GetMyProvider returns the caller's provider profile.
func GetMyProvider(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}
	return c.JSON(provider)
}

// UpdateMyProvider merges profile fields into the caller's provider profile.
func UpdateMyProvider(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	type UpdateInput struct {
		Title         string `json:"title"`
		Bio           string `json:"bio"`
		BusinessPhone string `json:"business_phone"`
		Address       string `json:"address"`
	}
	input := new(UpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Title != "" {
		provider.Title = input.Title
	}
	if input.Bio != "" {
		provider.Bio = input.Bio
	}
	if input.BusinessPhone != "" {
		provider.BusinessPhone = input.BusinessPhone
	}
	if input.Address != "" {
		provider.Address = input.Address
	}

	if err := db.DB.Save(provider).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update provider",
		})
	}
	return c.JSON(provider)
}
