package notifications

import (
	"fmt"
	"log"

	"github.com/controlapag/controlapag-api/events"
	"github.com/controlapag/controlapag-api/utils"
)

// Init subscribes the notification channels to the domain-event stream.
// Delivery failures are logged, never propagated back to the write path.
func Init() {
	events.Subscribe(handle)
	log.Println("✅ Notification listener registered")
}

func handle(e events.Event) {
	subject, body, wa := compose(e)
	if subject == "" {
		return
	}

	if e.Payload.ClientEmail != "" {
		if err := utils.SendEmail(e.Payload.ClientEmail, subject, body); err != nil {
			log.Printf("Failed to send %s email to %s: %v", e.Type, e.Payload.ClientEmail, err)
		}
	}
	if e.Payload.ProviderMail != "" && e.Type == events.DisputeCreated {
		if err := utils.SendEmail(e.Payload.ProviderMail, subject, body); err != nil {
			log.Printf("Failed to send %s email to %s: %v", e.Type, e.Payload.ProviderMail, err)
		}
	}
	if e.Payload.ClientPhone != "" && wa != "" {
		if err := SendWhatsApp(e.Payload.ClientPhone, wa); err != nil {
			log.Printf("Failed to send %s WhatsApp to %s: %v", e.Type, e.Payload.ClientPhone, err)
		}
	}
}

func compose(e events.Event) (subject, body, whatsapp string) {
	p := e.Payload
	switch e.Type {
	case events.PaymentReceived:
		subject = fmt.Sprintf("Payment received - %s", p.ServiceName)
		body = fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>We received your payment of <strong>%s</strong> for <strong>%s</strong>.</p>
			<p>Thank you!</p>
		`, p.ClientName, p.Amount, p.ServiceName)
		whatsapp = fmt.Sprintf("Hi %s, we received your payment of %s for %s. Thank you!", p.ClientName, p.Amount, p.ServiceName)
	case events.ChargeFailed:
		subject = fmt.Sprintf("Payment failed - %s", p.ServiceName)
		body = fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Your payment of <strong>%s</strong> for <strong>%s</strong> could not be processed.</p>
			<p>Please try again or contact your provider.</p>
		`, p.ClientName, p.Amount, p.ServiceName)
		whatsapp = fmt.Sprintf("Hi %s, your payment of %s for %s could not be processed. Please try again.", p.ClientName, p.Amount, p.ServiceName)
	case events.ChargeRefunded:
		subject = fmt.Sprintf("Refund processed - %s", p.ServiceName)
		body = fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>A refund of <strong>%s</strong> for <strong>%s</strong> has been processed.</p>
		`, p.ClientName, p.Amount, p.ServiceName)
		whatsapp = fmt.Sprintf("Hi %s, a refund of %s for %s has been processed.", p.ClientName, p.Amount, p.ServiceName)
	case events.DisputeCreated:
		subject = fmt.Sprintf("Dispute opened - charge %s", p.ChargeID)
		body = fmt.Sprintf(`
			<p>A dispute was opened for charge <strong>%s</strong> (%s, %s).</p>
			<p>Manual reconciliation is required.</p>
		`, p.ChargeID, p.ServiceName, p.Amount)
	case events.SubProviderInvited:
		subject = "You have been invited to an organization"
		body = fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>You have been invited to join an organization on ControlaPAG.</p>
			<p>Your invite code: <strong>%s</strong></p>
		`, p.ClientName, p.Reason)
	}
	return subject, body, whatsapp
}
