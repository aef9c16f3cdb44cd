package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/controlapag/controlapag-api/controllers"
)

// SetupWebhookRoutes registers the payment provider callbacks. These are
// unauthenticated; the handlers verify the signature on the raw body.
func SetupWebhookRoutes(app *fiber.App) {
	webhook := app.Group("/webhook")
	webhook.Post("/stripe", controllers.StripeWebhook)
	webhook.Post("/stripe/connect", controllers.StripeConnectWebhook)
}
