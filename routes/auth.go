package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/controlapag/controlapag-api/controllers"
	"github.com/controlapag/controlapag-api/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/register/provider", controllers.RegisterProvider)
	auth.Post("/login", controllers.Login)
	auth.Post("/refresh", controllers.RefreshToken)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetUserProfile)
	auth.Post("/profile-image", middleware.Protected(), controllers.UploadProfileImage)
}
