package controllers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v76"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/events"
	"github.com/controlapag/controlapag-api/models"
	"github.com/controlapag/controlapag-api/redis"
)

// StripeWebhook handles platform events: checkout, payment-intent,
// refund, dispute and subscription notifications. The payload is only trusted
// after signature verification; a bad signature rejects the request without
// touching any row.
func StripeWebhook(c *fiber.Ctx) error {
	event, err := Gateway.VerifyWebhook(c.Body(), c.Get("Stripe-Signature"), false)
	if err != nil {
		log.Printf("Webhook signature rejected: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	if !firstDelivery(event.ID) {
		return c.SendStatus(fiber.StatusOK)
	}

	switch event.Type {
	case "checkout.session.completed":
		err = handleCheckoutCompleted(event.Data)
	case "payment_intent.succeeded":
		err = handlePaymentSucceeded(event.Data)
	case "payment_intent.payment_failed":
		err = handlePaymentFailed(event.Data)
	case "charge.refunded":
		err = handleChargeRefunded(event.Data)
	case "charge.dispute.created":
		err = handleDisputeCreated(event.Data)
	case "customer.subscription.updated":
		err = handleSubscriptionUpdated(event.Data)
	case "customer.subscription.deleted":
		err = handleSubscriptionDeleted(event.Data)
	default:
		log.Printf("Unhandled webhook event type: %s", event.Type)
	}
	if err != nil {
		log.Printf("Webhook %s (%s) failed: %v", event.ID, event.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process event",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// StripeConnectWebhook handles connected-account events, verified against the
// separate connect signing secret.
func StripeConnectWebhook(c *fiber.Ctx) error {
	event, err := Gateway.VerifyWebhook(c.Body(), c.Get("Stripe-Signature"), true)
	if err != nil {
		log.Printf("Connect webhook signature rejected: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	if !firstDelivery(event.ID) {
		return c.SendStatus(fiber.StatusOK)
	}

	switch event.Type {
	case "account.updated":
		err = handleAccountUpdated(event.Data)
	default:
		log.Printf("Unhandled connect webhook event type: %s", event.Type)
	}
	if err != nil {
		log.Printf("Connect webhook %s (%s) failed: %v", event.ID, event.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process event",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// firstDelivery reports whether this event id has not been seen before.
// Redis being down must not block payment processing, so errors fall through
// as first deliveries.
func firstDelivery(eventID string) bool {
	first, err := redis.MarkEventProcessed(eventID)
	if err != nil {
		log.Printf("Event dedupe check failed for %s: %v", eventID, err)
		return true
	}
	if !first {
		log.Printf("Skipping duplicate webhook event %s", eventID)
	}
	return first
}

func chargeByGatewayID(gatewayID string) (*models.Charge, error) {
	var charge models.Charge
	err := db.DB.Preload("Enrollment.Service").Preload("Enrollment.Client.User").
		First(&charge, "payment_gateway_id = ?", gatewayID).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func chargeByID(id string) (*models.Charge, error) {
	var charge models.Charge
	err := db.DB.Preload("Enrollment.Service").Preload("Enrollment.Client.User").
		First(&charge, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func handleCheckoutCompleted(data []byte) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return err
	}

	if chargeID, ok := sess.Metadata["charge_id"]; ok {
		charge, err := chargeByID(chargeID)
		if err != nil {
			return err
		}
		gatewayID := ""
		if sess.PaymentIntent != nil {
			gatewayID = sess.PaymentIntent.ID
		}
		if err := charge.MarkPaid(gatewayID); err != nil {
			// Late or duplicate completion for a settled charge.
			log.Printf("Checkout completed for charge %s: %v", charge.ID, err)
			return nil
		}
		if err := db.DB.Save(charge).Error; err != nil {
			return err
		}
		events.Emit(chargePaymentEvent(events.PaymentReceived, charge))
		return nil
	}

	if providerID, ok := sess.Metadata["provider_id"]; ok {
		var provider models.Provider
		if err := db.DB.First(&provider, "id = ?", providerID).Error; err != nil {
			return err
		}
		if sess.Subscription != nil {
			provider.SubscriptionID = sess.Subscription.ID
		}
		provider.Status = models.ProviderActive
		return db.DB.Save(&provider).Error
	}

	log.Printf("Checkout session %s carried no known metadata", sess.ID)
	return nil
}

func handlePaymentSucceeded(data []byte) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(data, &pi); err != nil {
		return err
	}

	charge, err := chargeByGatewayID(pi.ID)
	if err != nil {
		// Checkout-completed already settles most charges; an unknown intent
		// is not an error worth retrying.
		log.Printf("No charge found for payment intent %s", pi.ID)
		return nil
	}
	if err := charge.MarkPaid(pi.ID); err != nil {
		return nil
	}
	if err := db.DB.Save(charge).Error; err != nil {
		return err
	}
	events.Emit(chargePaymentEvent(events.PaymentReceived, charge))
	return nil
}

func handlePaymentFailed(data []byte) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(data, &pi); err != nil {
		return err
	}

	charge, err := chargeByGatewayID(pi.ID)
	if err != nil {
		log.Printf("No charge found for failed payment intent %s", pi.ID)
		return nil
	}
	if !charge.MarkFailed() {
		return nil
	}
	if err := db.DB.Save(charge).Error; err != nil {
		return err
	}
	events.Emit(chargePaymentEvent(events.ChargeFailed, charge))
	return nil
}

func handleChargeRefunded(data []byte) error {
	var stripeCharge stripe.Charge
	if err := json.Unmarshal(data, &stripeCharge); err != nil {
		return err
	}
	if stripeCharge.PaymentIntent == nil {
		return nil
	}

	charge, err := chargeByGatewayID(stripeCharge.PaymentIntent.ID)
	if err != nil {
		log.Printf("No charge found for refunded payment intent %s", stripeCharge.PaymentIntent.ID)
		return nil
	}

	// Stripe reports the cumulative refunded amount; the event's own share is
	// the difference against what we accumulated so far.
	cumulative := decimal.NewFromInt(stripeCharge.AmountRefunded).Div(decimal.NewFromInt(100))
	delta := cumulative.Sub(charge.RefundedAmount)
	if delta.Cmp(decimal.Zero) <= 0 {
		return nil
	}
	if err := charge.ApplyRefund(delta); err != nil {
		log.Printf("Refund rejected for charge %s: %v", charge.ID, err)
		return nil
	}
	if err := db.DB.Save(charge).Error; err != nil {
		return err
	}
	events.Emit(chargePaymentEvent(events.ChargeRefunded, charge))
	return nil
}

func handleDisputeCreated(data []byte) error {
	var dispute stripe.Dispute
	if err := json.Unmarshal(data, &dispute); err != nil {
		return err
	}
	if dispute.PaymentIntent == nil {
		return nil
	}

	charge, err := chargeByGatewayID(dispute.PaymentIntent.ID)
	if err != nil {
		log.Printf("No charge found for disputed payment intent %s", dispute.PaymentIntent.ID)
		return nil
	}

	charge.MarkDisputed()
	if err := db.DB.Save(charge).Error; err != nil {
		return err
	}

	event := chargePaymentEvent(events.DisputeCreated, charge)
	if charge.Enrollment != nil && charge.Enrollment.Service != nil {
		var provider models.Provider
		if err := db.DB.Preload("User").
			First(&provider, "id = ?", charge.Enrollment.Service.ProviderID).Error; err == nil && provider.User != nil {
			event.Payload.ProviderMail = provider.User.Email
		}
	}
	events.Emit(event)
	return nil
}

func handleSubscriptionUpdated(data []byte) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return err
	}

	customerID := ""
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}
	provider, err := providerBySubscription(sub.ID, customerID)
	if err != nil {
		log.Printf("No provider found for subscription %s", sub.ID)
		return nil
	}

	provider.SubscriptionID = sub.ID
	switch sub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		provider.Status = models.ProviderActive
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid:
		provider.Status = models.ProviderInactive
	default:
		provider.Status = models.ProviderPendingPayment
	}
	return db.DB.Save(provider).Error
}

func handleSubscriptionDeleted(data []byte) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return err
	}

	provider, err := providerBySubscription(sub.ID, "")
	if err != nil {
		log.Printf("No provider found for deleted subscription %s", sub.ID)
		return nil
	}
	provider.Status = models.ProviderInactive
	return db.DB.Save(provider).Error
}

func handleAccountUpdated(data []byte) error {
	var account stripe.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return err
	}

	var provider models.Provider
	if err := db.DB.First(&provider, "provider_payment_id = ?", account.ID).Error; err != nil {
		log.Printf("No provider found for connected account %s", account.ID)
		return nil
	}

	if account.ChargesEnabled {
		provider.Status = models.ProviderActive
	} else {
		provider.Status = models.ProviderPendingVerification
	}
	return db.DB.Save(&provider).Error
}
