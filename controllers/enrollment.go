package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/models"
	"github.com/controlapag/controlapag-api/utils"
)

type ChargeScheduleInput struct {
	BillingModel       models.BillingModel         `json:"billing_model" validate:"required"`
	RecurrenceInterval *models.RecurrenceInterval  `json:"recurrence_interval,omitempty"`
	ChargeDay          int                         `json:"charge_day"`
	DueDate            *string                     `json:"due_date,omitempty"` // "2006-01-02"
}

type CreateEnrollmentInput struct {
	ServiceID       string                     `json:"service_id" validate:"required,uuid4"`
	ClientID        string                     `json:"client_id" validate:"required,uuid4"`
	Price           string                     `json:"price"`
	StartDate       string                     `json:"start_date" validate:"required"`
	EndDate         *string                    `json:"end_date,omitempty"`
	BillingType     *models.BillingType        `json:"billing_type,omitempty"`
	ChargeSchedule  ChargeScheduleInput        `json:"charge_schedule" validate:"required"`
	ServiceSchedule utils.ServiceScheduleInput `json:"service_schedule" validate:"required"`
}

func (in *ChargeScheduleInput) toModel(enrollmentID uuid.UUID) (*models.ChargeSchedule, error) {
	cs := &models.ChargeSchedule{
		EnrollmentID:       enrollmentID,
		BillingModel:       in.BillingModel,
		RecurrenceInterval: in.RecurrenceInterval,
		ChargeDay:          in.ChargeDay,
	}
	if in.DueDate != nil {
		due, err := time.Parse("2006-01-02", *in.DueDate)
		if err != nil {
			return nil, err
		}
		cs.DueDate = &due
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return cs, nil
}

// CreateEnrollment binds a client to one of the caller's services along with
// its charge schedule and expanded service-schedule rows. The whole aggregate
// is written in a single transaction, so a failure on any dependent row rolls
// everything back.
func CreateEnrollment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	input := new(CreateEnrollmentInput)
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

	serviceID := uuid.MustParse(input.ServiceID)
	clientID := uuid.MustParse(input.ClientID)

	var service models.Service
	if db.DB.Where("id = ? AND provider_id = ?", serviceID, provider.ID).First(&service).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	var client models.Client
	if db.DB.First(&client, "id = ?", clientID).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client not found",
		})
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start_date, expected YYYY-MM-DD",
		})
	}

	price := service.DefaultPrice
	if input.Price != "" {
		price, err = decimal.NewFromString(input.Price)
		if err != nil || price.Cmp(decimal.Zero) <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid price",
			})
		}
	}

	enrollment := models.Enrollment{
		ID:          uuid.New(),
		ServiceID:   service.ID,
		ClientID:    client.ID,
		Price:       price,
		StartDate:   startDate,
		Status:      models.EnrollmentActive,
		BillingType: input.BillingType,
	}
	if input.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *input.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid end_date, expected YYYY-MM-DD",
			})
		}
		enrollment.EndDate = &endDate
	}

	chargeSchedule, err := input.ChargeSchedule.toModel(enrollment.ID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Expansion is validated before anything touches the database.
	schedules, err := utils.ExpandServiceSchedules(enrollment.ID, input.ServiceSchedule)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
		if err := tx.Create(chargeSchedule).Error; err != nil {
			return err
		}
		if len(schedules) > 0 {
			if err := tx.Create(&schedules).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error creating enrollment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create associated schedules",
		})
	}

	var created models.Enrollment
	if err := db.DB.Preload("Service").Preload("Client").
		Preload("ChargeSchedule").Preload("ServiceSchedules").
		First(&created, "id = ?", enrollment.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load created enrollment",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// enrollmentForProvider resolves an enrollment owned by the caller's provider.
func enrollmentForProvider(providerID uuid.UUID, enrollmentID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := db.DB.Preload("Service").Preload("Client.User").
		Preload("ChargeSchedule").Preload("ServiceSchedules").
		Joins("JOIN services ON services.id = enrollments.service_id").
		Where("enrollments.id = ? AND services.provider_id = ?", enrollmentID, providerID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetEnrollments lists the caller's enrollments: by owned services for
// providers, by client profile otherwise.
func GetEnrollments(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)
	role := c.Locals("role").(models.Role)

	var enrollments []models.Enrollment
	query := db.DB.Preload("Service").Preload("Client.User").
		Preload("ChargeSchedule").Preload("ServiceSchedules")

	if role.IsProviderRole() {
		provider, err := providerForUser(userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Provider profile not found",
			})
		}
		query = query.
			Joins("JOIN services ON services.id = enrollments.service_id").
			Where("services.provider_id = ?", provider.ID)
	} else {
		var client models.Client
		if err := db.DB.First(&client, "user_id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Client profile not found",
			})
		}
		query = query.Where("enrollments.client_id = ?", client.ID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("enrollments.status = ?", status)
	}

	if err := query.Find(&enrollments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch enrollments",
		})
	}
	return c.JSON(enrollments)
}

// GetEnrollment returns one enrollment owned by the caller's provider.
func GetEnrollment(c *fiber.Ctx) error {
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
			"error": "Invalid enrollment id",
		})
	}

	enrollment, err := enrollmentForProvider(provider.ID, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}
	return c.JSON(enrollment)
}

type UpdateEnrollmentInput struct {
	Price           string                      `json:"price"`
	EndDate         *string                     `json:"end_date,omitempty"`
	Status          *models.EnrollmentStatus    `json:"status,omitempty"`
	BillingType     *models.BillingType         `json:"billing_type,omitempty"`
	ChargeSchedule  *ChargeScheduleInput        `json:"charge_schedule,omitempty"`
	ServiceSchedule *utils.ServiceScheduleInput `json:"service_schedule,omitempty"`
}

// UpdateEnrollment merges top-level fields, updates the charge schedule in
// place when a new payload is supplied, and replaces all service-schedule rows
// when a new simplified descriptor is supplied. The replacement runs inside
// the same transaction, so a failed re-expansion can never leave an enrollment
// without schedules.
func UpdateEnrollment(c *fiber.Ctx) error {
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
			"error": "Invalid enrollment id",
		})
	}

	enrollment, err := enrollmentForProvider(provider.ID, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	input := new(UpdateEnrollmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Price != "" {
		price, err := decimal.NewFromString(input.Price)
		if err != nil || price.Cmp(decimal.Zero) <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid price",
			})
		}
		enrollment.Price = price
	}
	if input.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *input.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid end_date, expected YYYY-MM-DD",
			})
		}
		enrollment.EndDate = &endDate
	}
	if input.Status != nil {
		enrollment.Status = *input.Status
	}
	if input.BillingType != nil {
		enrollment.BillingType = input.BillingType
	}

	var newChargeSchedule *models.ChargeSchedule
	if input.ChargeSchedule != nil {
		newChargeSchedule, err = input.ChargeSchedule.toModel(enrollment.ID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	var newSchedules []models.ServiceSchedule
	replaceSchedules := false
	if input.ServiceSchedule != nil {
		replaceSchedules = true
		newSchedules, err = utils.ExpandServiceSchedules(enrollment.ID, *input.ServiceSchedule)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(enrollment).Error; err != nil {
			return err
		}
		if newChargeSchedule != nil {
			if enrollment.ChargeSchedule != nil {
				newChargeSchedule.ID = enrollment.ChargeSchedule.ID
				newChargeSchedule.CreatedAt = enrollment.ChargeSchedule.CreatedAt
			}
			if err := tx.Save(newChargeSchedule).Error; err != nil {
				return err
			}
		}
		if replaceSchedules {
			if err := tx.Where("enrollment_id = ?", enrollment.ID).
				Delete(&models.ServiceSchedule{}).Error; err != nil {
				return err
			}
			if len(newSchedules) > 0 {
				if err := tx.Create(&newSchedules).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error updating enrollment %s: %v", enrollment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update enrollment",
		})
	}

	updated, err := enrollmentForProvider(provider.ID, enrollment.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load updated enrollment",
		})
	}
	return c.JSON(updated)
}

// PauseEnrollment sets a pause window on an active enrollment.
func PauseEnrollment(c *fiber.Ctx) error {
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
			"error": "Invalid enrollment id",
		})
	}

	enrollment, err := enrollmentForProvider(provider.ID, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}
	if enrollment.Status != models.EnrollmentActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only active enrollments can be paused",
		})
	}

	type PauseInput struct {
		PauseStartDate string  `json:"pause_start_date" validate:"required"`
		PauseEndDate   *string `json:"pause_end_date,omitempty"`
	}
	input := new(PauseInput)
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

	start, err := time.Parse("2006-01-02", input.PauseStartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid pause_start_date, expected YYYY-MM-DD",
		})
	}
	enrollment.PauseStartDate = &start
	if input.PauseEndDate != nil {
		end, err := time.Parse("2006-01-02", *input.PauseEndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid pause_end_date, expected YYYY-MM-DD",
			})
		}
		enrollment.PauseEndDate = &end
	}
	enrollment.Status = models.EnrollmentPaused

	if err := db.DB.Save(enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to pause enrollment",
		})
	}
	return c.JSON(enrollment)
}

// CancelEnrollment cancels an enrollment.
func CancelEnrollment(c *fiber.Ctx) error {
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
			"error": "Invalid enrollment id",
		})
	}

	enrollment, err := enrollmentForProvider(provider.ID, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}
	if enrollment.Status == models.EnrollmentCancelled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Enrollment is already cancelled",
		})
	}

	now := time.Now()
	enrollment.Status = models.EnrollmentCancelled
	enrollment.EndDate = &now

	if err := db.DB.Save(enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel enrollment",
		})
	}
	return c.JSON(enrollment)
}
