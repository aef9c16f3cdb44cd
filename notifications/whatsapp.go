package notifications

import (
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/controlapag/controlapag-api/config"
)

// SendWhatsApp delivers a text message over the Twilio WhatsApp channel.
func SendWhatsApp(to, body string) error {
	if config.Cfg.TwilioAccountSID == "" {
		return fmt.Errorf("twilio is not configured")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.Cfg.TwilioAccountSID,
		Password: config.Cfg.TwilioAuthToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetFrom("whatsapp:" + config.Cfg.TwilioWhatsAppFrom)
	params.SetTo("whatsapp:" + to)
	params.SetBody(body)

	_, err := client.Api.CreateMessage(params)
	return err
}
