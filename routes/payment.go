package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/controlapag/controlapag-api/controllers"
	"github.com/controlapag/controlapag-api/middleware"
	"github.com/controlapag/controlapag-api/models"
)

func SetupPaymentRoutes(app *fiber.App) {
	payment := app.Group("/payment", middleware.Protected(), middleware.RequireRole(models.RoleProvider))
	payment.Post("/subscription/provider", controllers.CreateProviderSubscription)
	payment.Get("/balance", controllers.GetProviderBalance)
	payment.Get("/payouts", controllers.ListProviderPayouts)

	dashboard := app.Group("/dashboard", middleware.Protected(), middleware.RequireRole(models.RoleProvider))
	dashboard.Get("/financial-summary", controllers.GetFinancialSummary)
	dashboard.Get("/operational-metrics", controllers.GetOperationalMetrics)
}
