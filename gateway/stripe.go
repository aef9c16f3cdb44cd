package gateway

import (
	"fmt"
	"log"
	"time"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/balance"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/payout"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/controlapag/controlapag-api/config"
)

// StripeGateway implements PaymentGateway on top of the Stripe API.
type StripeGateway struct {
	webhookSecret        string
	connectWebhookSecret string
}

func NewStripeGateway(cfg *config.Config) *StripeGateway {
	stripe.Key = cfg.StripeSecretKey
	return &StripeGateway{
		webhookSecret:        cfg.StripeWebhookSecret,
		connectWebhookSecret: cfg.StripeConnectWebhookSecret,
	}
}

func (g *StripeGateway) CreateCustomer(email, name string) (string, error) {
	cust, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	})
	if err != nil {
		log.Printf("Stripe customer creation failed for %s: %v", email, err)
		return "", fmt.Errorf("payment provider error")
	}
	return cust.ID, nil
}

func (g *StripeGateway) GenerateCheckout(p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	switch p.Mode {
	case ModeSubscription:
		params.Mode = stripe.String(string(stripe.CheckoutSessionModeSubscription))
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(p.PriceID),
			Quantity: stripe.Int64(1),
		}}
	default:
		params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.Currency),
				UnitAmount: stripe.Int64(p.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(p.Description),
				},
			},
			Quantity: stripe.Int64(1),
		}}
		if p.ConnectedAccountID != "" {
			params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
				ApplicationFeeAmount: stripe.Int64(p.ApplicationFeeCents),
				TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
					Destination: stripe.String(p.ConnectedAccountID),
				},
			}
		}
	}

	sess, err := session.New(params)
	if err != nil {
		log.Printf("Stripe checkout creation failed: %v", err)
		return nil, fmt.Errorf("payment provider error")
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string, connect bool) (*WebhookEvent, error) {
	secret := g.webhookSecret
	if connect {
		secret = g.connectWebhookSecret
	}
	event, err := webhook.ConstructEvent(payload, signature, secret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &WebhookEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Account: event.Account,
		Data:    event.Data.Raw,
	}, nil
}

func (g *StripeGateway) RefundCharge(paymentIntentID string, amountCents int64) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	if amountCents > 0 {
		params.Amount = stripe.Int64(amountCents)
	}
	ref, err := refund.New(params)
	if err != nil {
		log.Printf("Stripe refund failed for %s: %v", paymentIntentID, err)
		return "", fmt.Errorf("payment provider error")
	}
	return ref.ID, nil
}

func (g *StripeGateway) GetBalance(connectedAccountID string) (*Balance, error) {
	params := &stripe.BalanceParams{}
	if connectedAccountID != "" {
		params.SetStripeAccount(connectedAccountID)
	}
	bal, err := balance.Get(params)
	if err != nil {
		log.Printf("Stripe balance fetch failed: %v", err)
		return nil, fmt.Errorf("payment provider error")
	}
	out := &Balance{}
	for _, a := range bal.Available {
		out.AvailableCents += a.Amount
		out.Currency = string(a.Currency)
	}
	for _, p := range bal.Pending {
		out.PendingCents += p.Amount
	}
	return out, nil
}

func (g *StripeGateway) ListPayouts(connectedAccountID string, limit int) ([]Payout, error) {
	params := &stripe.PayoutListParams{}
	if limit > 0 {
		params.Limit = stripe.Int64(int64(limit))
	}
	if connectedAccountID != "" {
		params.SetStripeAccount(connectedAccountID)
	}

	payouts := []Payout{}
	it := payout.List(params)
	for it.Next() {
		p := it.Payout()
		payouts = append(payouts, Payout{
			ID:          p.ID,
			AmountCents: p.Amount,
			Currency:    string(p.Currency),
			Status:      string(p.Status),
			ArrivalDate: time.Unix(p.ArrivalDate, 0),
		})
	}
	if err := it.Err(); err != nil {
		log.Printf("Stripe payout list failed: %v", err)
		return nil, fmt.Errorf("payment provider error")
	}
	return payouts, nil
}
