package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/controlapag/controlapag-api/controllers"
	"github.com/controlapag/controlapag-api/middleware"
	"github.com/controlapag/controlapag-api/models"
)

func SetupUserRoutes(app *fiber.App) {
	user := app.Group("/user", middleware.Protected())
	user.Get("/", middleware.RequireRole(models.RoleAdmin), controllers.GetAllUsers)
	user.Get("/me", controllers.GetUserProfile)
	user.Put("/me", controllers.UpdateMe)
	user.Get("/:id", middleware.RequireRole(models.RoleAdmin), controllers.GetUser)

	provider := app.Group("/provider")
	provider.Get("/", controllers.GetAllProviders)
	provider.Get("/me", middleware.Protected(), middleware.RequireRole(models.RoleProvider), controllers.GetMyProvider)
	provider.Put("/me", middleware.Protected(), middleware.RequireRole(models.RoleProvider), controllers.UpdateMyProvider)

	client := app.Group("/client", middleware.Protected())
	client.Get("/me", controllers.GetMyClient)
	client.Put("/me", controllers.UpdateMyClient)
	client.Get("/", middleware.RequireRole(models.RoleProvider), controllers.GetProviderClients)
	client.Post("/", middleware.RequireRole(models.RoleProvider), controllers.CreateClientByProvider)
}
