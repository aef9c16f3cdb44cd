package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/controlapag/controlapag-api/controllers"
	"github.com/controlapag/controlapag-api/middleware"
	"github.com/controlapag/controlapag-api/models"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	enrollment := app.Group("/enrollments", middleware.Protected())
	enrollment.Post("/", middleware.RequireRole(models.RoleProvider), controllers.CreateEnrollment)
	enrollment.Get("/", controllers.GetEnrollments)
	enrollment.Get("/:id", controllers.GetEnrollment)
	enrollment.Put("/:id", middleware.RequireRole(models.RoleProvider), controllers.UpdateEnrollment)
	enrollment.Post("/:id/pause", middleware.RequireRole(models.RoleProvider), controllers.PauseEnrollment)
	enrollment.Post("/:id/cancel", middleware.RequireRole(models.RoleProvider), controllers.CancelEnrollment)

	schedule := app.Group("/charge-schedules", middleware.Protected())
	schedule.Get("/:enrollmentId", controllers.GetChargeSchedule)
	schedule.Put("/:enrollmentId", middleware.RequireRole(models.RoleProvider), controllers.UpdateChargeSchedule)

	serviceSchedule := app.Group("/service-schedules", middleware.Protected())
	serviceSchedule.Get("/:enrollmentId", controllers.GetServiceSchedules)

	exception := app.Group("/charge-exceptions", middleware.Protected(), middleware.RequireRole(models.RoleProvider))
	exception.Post("/", controllers.CreateChargeException)
	exception.Get("/", controllers.GetChargeExceptions)
	exception.Delete("/:id", controllers.DeleteChargeException)
}
