package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/controlapag/controlapag-api/controllers"
	"github.com/controlapag/controlapag-api/middleware"
	"github.com/controlapag/controlapag-api/models"
)

func SetupOrganizationRoutes(app *fiber.App) {
	org := app.Group("/organizations", middleware.Protected())
	org.Post("/", middleware.RequireRole(models.RoleProvider), controllers.CreateOrganization)
	org.Get("/:id", middleware.RequireOrganizationScope(), controllers.GetOrganization)
	org.Get("/:id/members", middleware.RequireOrganizationScope(), controllers.GetOrganizationMembers)
	org.Post("/:id/invite-sub-provider", middleware.RequireRole(models.RoleMaster), middleware.RequireOrganizationScope(), controllers.InviteSubProvider)
}
