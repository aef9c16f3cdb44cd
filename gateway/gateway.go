package gateway

import "time"

type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
)

// CheckoutParams describes one checkout session request. AmountCents is used
// in payment mode, PriceID in subscription mode. When ConnectedAccountID is
// set the payment is split: the application fee stays on the platform and the
// rest is transferred to the connected account.
type CheckoutParams struct {
	Mode                CheckoutMode
	CustomerID          string
	AmountCents         int64
	Currency            string
	Description         string
	PriceID             string
	ConnectedAccountID  string
	ApplicationFeeCents int64
	SuccessURL          string
	CancelURL           string
	Metadata            map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type Balance struct {
	AvailableCents int64  `json:"available_cents"`
	PendingCents   int64  `json:"pending_cents"`
	Currency       string `json:"currency"`
}

type Payout struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	ArrivalDate time.Time `json:"arrival_date"`
}

// WebhookEvent is a verified inbound gateway event. Data is the raw event
// object payload for the caller to decode.
type WebhookEvent struct {
	ID      string
	Type    string
	Account string
	Data    []byte
}

// PaymentGateway is the capability set this system expects from a payment
// processor.
type PaymentGateway interface {
	CreateCustomer(email, name string) (string, error)
	GenerateCheckout(p CheckoutParams) (*CheckoutSession, error)
	// VerifyWebhook checks the payload signature before anything is trusted.
	// Connect-account deliveries are signed with a separate secret.
	VerifyWebhook(payload []byte, signature string, connect bool) (*WebhookEvent, error)
	RefundCharge(paymentIntentID string, amountCents int64) (string, error)
	GetBalance(connectedAccountID string) (*Balance, error)
	ListPayouts(connectedAccountID string, limit int) ([]Payout, error)
}
