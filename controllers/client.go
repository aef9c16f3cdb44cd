package controllers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/models"
	"github.com/controlapag/controlapag-api/utils"
)

// GetMyClient returns the caller's client profile.
func GetMyClient(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	var client models.Client
	if err := db.DB.Preload("Enrollments").First(&client, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client profile not found",
		})
	}
	return c.JSON(client)
}

// UpdateMyClient merges contact fields into the caller's client profile.
func UpdateMyClient(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	var client models.Client
	if err := db.DB.First(&client, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client profile not found",
		})
	}

	type UpdateInput struct {
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	input := new(UpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Phone != "" {
		client.Phone = input.Phone
	}
	if input.Address != "" {
		client.Address = input.Address
	}
	if err := db.DB.Save(&client).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update client",
		})
	}
	return c.JSON(client)
}

// GetProviderClients lists clients enrolled in the caller's services.
func GetProviderClients(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var clients []models.Client
	if err := db.DB.Preload("User").
		Joins("JOIN enrollments ON enrollments.client_id = clients.id").
		Joins("JOIN services ON services.id = enrollments.service_id").
		Where("services.provider_id = ?", provider.ID).
		Distinct("clients.*").
		Limit(limit).
		Offset(offset).
		Find(&clients).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch clients",
		})
	}

	return c.JSON(clients)
}

type CreateClientInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// CreateClientByProvider registers a client on behalf of a provider. The user
// and client profile are created in one transaction.
func CreateClientByProvider(c *fiber.Ctx) error {
	input := new(CreateClientInput)
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

	var existingUser models.User
	if db.DB.Where("email = ?", input.Email).First(&existingUser).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User with this email already exists",
		})
	}

	tempPassword := utils.GenerateTempPassword()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     models.RoleClient,
	}
	client := models.Client{
		Phone:   input.Phone,
		Address: input.Address,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		client.UserID = user.ID
		return tx.Create(&client).Error
	})
	if err != nil {
		log.Printf("Error creating client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create client",
		})
	}

	user.Password = ""
	user.Client = &client
	return c.Status(fiber.StatusCreated).JSON(user)
}
