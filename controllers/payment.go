package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/controlapag/controlapag-api/config"
	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/gateway"
	"github.com/controlapag/controlapag-api/models"
)

// CreateProviderSubscription generates a subscription checkout for the
// platform plan. The provider is activated by the subscription webhook once
// payment clears.
func CreateProviderSubscription(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	sess, err := Gateway.GenerateCheckout(gateway.CheckoutParams{
		Mode:       gateway.ModeSubscription,
		CustomerID: provider.PaymentCustomerID,
		PriceID:    config.Cfg.StripeProviderPriceID,
		SuccessURL: config.Cfg.AppBaseURL + "/subscription/success",
		CancelURL:  config.Cfg.AppBaseURL + "/subscription/cancel",
		Metadata:   map[string]string{"provider_id": provider.ID.String()},
	})
	if err != nil {
		log.Printf("Subscription checkout failed for provider %s: %v", provider.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate subscription checkout",
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": sess.URL,
		"session_id":   sess.ID,
	})
}

// GetProviderBalance returns the connected-account balance.
func GetProviderBalance(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}
	if provider.ProviderPaymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provider has no connected payment account",
		})
	}

	bal, err := Gateway.GetBalance(provider.ProviderPaymentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch balance",
		})
	}
	return c.JSON(bal)
}

// ListProviderPayouts returns the connected-account payout history.
func ListProviderPayouts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}
	if provider.ProviderPaymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provider has no connected payment account",
		})
	}

	limit := c.QueryInt("limit", 20)
	payouts, err := Gateway.ListPayouts(provider.ProviderPaymentID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payouts",
		})
	}
	return c.JSON(payouts)
}

// providerBySubscription locates a provider by gateway identifiers.
func providerBySubscription(subscriptionID, customerID string) (*models.Provider, error) {
	var provider models.Provider
	query := db.DB
	if subscriptionID != "" {
		query = query.Where("subscription_id = ?", subscriptionID)
		if customerID != "" {
			query = query.Or("payment_customer_id = ?", customerID)
		}
	} else {
		query = query.Where("payment_customer_id = ?", customerID)
	}
	if err := query.First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}
