package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/controlapag/controlapag-api/config"
	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/events"
	"github.com/controlapag/controlapag-api/gateway"
	"github.com/controlapag/controlapag-api/models"
)

// platformFeePercent is the platform's cut on split payments.
const platformFeePercent = 5

// GetCharges lists charges visible to the caller.
func GetCharges(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)
	role := c.Locals("role").(models.Role)

	var charges []models.Charge
	query := db.DB.Preload("Enrollment.Service").Preload("Enrollment.Client.User")

	if role.IsProviderRole() {
		provider, err := providerForUser(userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Provider profile not found",
			})
		}
		query = query.
			Joins("JOIN enrollments ON enrollments.id = charges.enrollment_id").
			Joins("JOIN services ON services.id = enrollments.service_id").
			Where("services.provider_id = ?", provider.ID)
	} else {
		var client models.Client
		if err := db.DB.First(&client, "user_id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Client profile not found",
			})
		}
		query = query.
			Joins("JOIN enrollments ON enrollments.id = charges.enrollment_id").
			Where("enrollments.client_id = ?", client.ID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("charges.status = ?", status)
	}

	if err := query.Order("charges.due_date DESC").Find(&charges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch charges",
		})
	}
	return c.JSON(charges)
}

// chargeForProvider resolves a charge whose enrollment belongs to the caller.
func chargeForProvider(providerID, chargeID uuid.UUID) (*models.Charge, error) {
	var charge models.Charge
	err := db.DB.Preload("Enrollment.Service").Preload("Enrollment.Client.User").
		Joins("JOIN enrollments ON enrollments.id = charges.enrollment_id").
		Joins("JOIN services ON services.id = enrollments.service_id").
		Where("charges.id = ? AND services.provider_id = ?", chargeID, providerID).
		First(&charge).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

type CreateChargeInput struct {
	EnrollmentID string `json:"enrollment_id" validate:"required,uuid4"`
	Amount       string `json:"amount" validate:"required"`
	DueDate      string `json:"due_date" validate:"required"`
}

// CreateCharge creates a one-off charge against an enrollment.
func CreateCharge(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	input := new(CreateChargeInput)
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

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil || amount.Cmp(decimal.NewFromFloat(0.01)) < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Amount must be at least 0.01",
		})
	}

	dueDate, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid due_date, expected YYYY-MM-DD",
		})
	}

	charge := models.Charge{
		EnrollmentID: enrollment.ID,
		Amount:       amount,
		DueDate:      dueDate,
		Status:       models.ChargePending,
	}
	if err := db.DB.Create(&charge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create charge",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(charge)
}

// MarkChargePaid manually settles a pending charge (cash payments).
func MarkChargePaid(c *fiber.Ctx) error {
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
			"error": "Invalid charge id",
		})
	}

	charge, err := chargeForProvider(provider.ID, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Charge not found",
		})
	}

	if err := charge.MarkPaid(""); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := db.DB.Save(charge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update charge",
		})
	}

	events.Emit(chargePaymentEvent(events.PaymentReceived, charge))
	return c.JSON(charge)
}

// MarkChargeFailed cancels a pending charge. It does nothing when the charge
// is no longer pending, so a paid charge can never be canceled this way.
func MarkChargeFailed(c *fiber.Ctx) error {
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
			"error": "Invalid charge id",
		})
	}

	charge, err := chargeForProvider(provider.ID, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Charge not found",
		})
	}

	if charge.MarkFailed() {
		if err := db.DB.Save(charge).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update charge",
			})
		}
	}
	return c.JSON(charge)
}

type RefundInput struct {
	Amount string `json:"amount"` // empty means a full refund
}

// RefundCharge refunds a paid charge. Gateway-settled charges are refunded at
// the gateway; the status change lands through the refund webhook. Manually
// settled charges are refunded locally.
func RefundCharge(c *fiber.Ctx) error {
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
			"error": "Invalid charge id",
		})
	}

	charge, err := chargeForProvider(provider.ID, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Charge not found",
		})
	}
	if charge.Status != models.ChargePaid && charge.Status != models.ChargePartiallyRefunded {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only paid charges can be refunded",
		})
	}

	input := new(RefundInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	amount := charge.Amount.Sub(charge.RefundedAmount)
	if input.Amount != "" {
		amount, err = decimal.NewFromString(input.Amount)
		if err != nil || amount.Cmp(decimal.Zero) <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid refund amount",
			})
		}
	}

	if charge.PaymentGatewayID != "" {
		cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
		if _, err := Gateway.RefundCharge(charge.PaymentGatewayID, cents); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to refund at payment provider",
			})
		}
		// The refunded status lands via the charge.refunded webhook.
		return c.Status(fiber.StatusAccepted).JSON(charge)
	}

	if err := charge.ApplyRefund(amount); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := db.DB.Save(charge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update charge",
		})
	}

	events.Emit(chargePaymentEvent(events.ChargeRefunded, charge))
	return c.JSON(charge)
}

// GenerateChargeCheckout creates a gateway checkout link for a pending charge,
// splitting revenue to the provider's connected account when present.
func GenerateChargeCheckout(c *fiber.Ctx) error {
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
			"error": "Invalid charge id",
		})
	}

	charge, err := chargeForProvider(provider.ID, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Charge not found",
		})
	}
	if charge.Status != models.ChargePending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Checkout is only available for pending charges",
		})
	}

	cents := charge.Amount.Mul(decimal.NewFromInt(100)).IntPart()
	params := gateway.CheckoutParams{
		Mode:        gateway.ModePayment,
		AmountCents: cents,
		Currency:    "brl",
		Description: charge.Enrollment.Service.Name,
		SuccessURL:  config.Cfg.AppBaseURL + "/payment/success",
		CancelURL:   config.Cfg.AppBaseURL + "/payment/cancel",
		Metadata:    map[string]string{"charge_id": charge.ID.String()},
	}
	if charge.Enrollment.Client != nil {
		params.CustomerID = charge.Enrollment.Client.PaymentCustomerID
	}
	if provider.ProviderPaymentID != "" {
		params.ConnectedAccountID = provider.ProviderPaymentID
		params.ApplicationFeeCents = cents * platformFeePercent / 100
	}

	sess, err := Gateway.GenerateCheckout(params)
	if err != nil {
		log.Printf("Checkout generation failed for charge %s: %v", charge.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate checkout",
		})
	}

	charge.PaymentLink = sess.URL
	if err := db.DB.Save(charge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save payment link",
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": sess.URL,
		"session_id":   sess.ID,
	})
}

// chargePaymentEvent builds the notification payload for a charge, tolerating
// missing preloads.
func chargePaymentEvent(t events.Type, charge *models.Charge) events.Event {
	p := events.ChargeEvent{
		ChargeID:     charge.ID.String(),
		EnrollmentID: charge.EnrollmentID.String(),
		Amount:       charge.Amount.StringFixed(2),
	}
	if t == events.ChargeRefunded {
		p.Amount = charge.RefundedAmount.StringFixed(2)
	}
	if charge.Enrollment != nil {
		if charge.Enrollment.Service != nil {
			p.ServiceName = charge.Enrollment.Service.Name
		}
		if charge.Enrollment.Client != nil && charge.Enrollment.Client.User != nil {
			p.ClientName = charge.Enrollment.Client.User.Username
			p.ClientEmail = charge.Enrollment.Client.User.Email
			p.ClientPhone = charge.Enrollment.Client.Phone
		}
	}
	return events.Event{Type: t, Payload: p}
}

// GetUpcomingCharges returns due-soon pending charges for reminders and the
// provider dashboard.
func GetUpcomingCharges(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	days := c.QueryInt("days", 7)
	until := time.Now().AddDate(0, 0, days)

	var charges []models.Charge
	if err := db.DB.Preload("Enrollment.Service").Preload("Enrollment.Client.User").
		Joins("JOIN enrollments ON enrollments.id = charges.enrollment_id").
		Joins("JOIN services ON services.id = enrollments.service_id").
		Where("services.provider_id = ? AND charges.status = ? AND charges.due_date <= ?",
			provider.ID, models.ChargePending, until).
		Order("charges.due_date ASC").
		Find(&charges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch charges",
		})
	}
	return c.JSON(charges)
}
