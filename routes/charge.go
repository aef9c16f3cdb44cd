package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/controlapag/controlapag-api/controllers"
	"github.com/controlapag/controlapag-api/middleware"
	"github.com/controlapag/controlapag-api/models"
)

func SetupChargeRoutes(app *fiber.App) {
	charge := app.Group("/charges", middleware.Protected())
	charge.Get("/", controllers.GetCharges)
	charge.Get("/upcoming", controllers.GetUpcomingCharges)
	charge.Post("/", middleware.RequireRole(models.RoleProvider), controllers.CreateCharge)
	charge.Post("/:id/pay", middleware.RequireRole(models.RoleProvider), controllers.MarkChargePaid)
	charge.Post("/:id/fail", middleware.RequireRole(models.RoleProvider), controllers.MarkChargeFailed)
	charge.Post("/:id/refund", middleware.RequireRole(models.RoleProvider), controllers.RefundCharge)
	charge.Post("/:id/checkout", controllers.GenerateChargeCheckout)
}
