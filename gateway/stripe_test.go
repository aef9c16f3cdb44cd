package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signPayload builds a Stripe-Signature header value for a payload, the same
// scheme Stripe uses: HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookAcceptsValidSignature(t *testing.T) {
	g := &StripeGateway{
		webhookSecret:        "whsec_platform",
		connectWebhookSecret: "whsec_connect",
	}
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)

	event, err := g.VerifyWebhook(payload, signPayload(payload, "whsec_platform", time.Now()), false)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
}

func TestVerifyWebhookRejectsTamperedPayload(t *testing.T) {
	g := &StripeGateway{
		webhookSecret:        "whsec_platform",
		connectWebhookSecret: "whsec_connect",
	}
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	header := signPayload(payload, "whsec_platform", time.Now())

	tampered := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","amount":9999}`)
	_, err := g.VerifyWebhook(tampered, header, false)
	assert.Error(t, err)
}

func TestVerifyWebhookUsesConnectSecretForConnectEvents(t *testing.T) {
	g := &StripeGateway{
		webhookSecret:        "whsec_platform",
		connectWebhookSecret: "whsec_connect",
	}
	payload := []byte(`{"id":"evt_2","type":"account.updated","account":"acct_1"}`)
	header := signPayload(payload, "whsec_connect", time.Now())

	// Connect secret verifies only on the connect endpoint
	_, err := g.VerifyWebhook(payload, header, false)
	assert.Error(t, err)

	event, err := g.VerifyWebhook(payload, header, true)
	require.NoError(t, err)
	assert.Equal(t, "acct_1", event.Account)
}

func TestVerifyWebhookRejectsStaleTimestamp(t *testing.T) {
	g := &StripeGateway{webhookSecret: "whsec_platform"}
	payload := []byte(`{"id":"evt_3","type":"charge.refunded"}`)
	header := signPayload(payload, "whsec_platform", time.Now().Add(-time.Hour))

	_, err := g.VerifyWebhook(payload, header, false)
	assert.Error(t, err)
}
