package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/models"
)

// roleCompat expands a required role into the set of roles that satisfy it.
// The flat PROVIDER role is being split into INDIVIDUAL/MASTER/SUB_PROVIDER;
// until every account is migrated, requiring PROVIDER accepts the whole set.
var roleCompat = map[models.Role][]models.Role{
	models.RoleProvider: {
		models.RoleProvider,
		models.RoleIndividual,
		models.RoleMaster,
		models.RoleSubProvider,
	},
}

// RoleSatisfies reports whether the caller's role matches any of the required
// roles, after compatibility expansion.
func RoleSatisfies(callerRole models.Role, required ...models.Role) bool {
	for _, req := range required {
		accepted, ok := roleCompat[req]
		if !ok {
			accepted = []models.Role{req}
		}
		for _, r := range accepted {
			if callerRole == r {
				return true
			}
		}
	}
	return false
}

// RequireRole checks if the user has one of the required roles
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(models.Role)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User role not found in context",
			})
		}

		if !RoleSatisfies(role, roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have the required role to perform this action",
			})
		}

		return c.Next()
	}
}

// OrganizationScopeAllowed implements the organization guard: MASTER bypasses
// the check, everyone else must belong to the route's organization, and a
// route without an organization id is open to any authorized role.
func OrganizationScopeAllowed(role models.Role, userOrgID *uuid.UUID, routeOrgID uuid.UUID) bool {
	if role == models.RoleMaster {
		return true
	}
	if routeOrgID == uuid.Nil {
		return true
	}
	return userOrgID != nil && *userOrgID == routeOrgID
}

// RequireOrganizationScope guards routes carrying an :id organization param.
func RequireOrganizationScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(models.Role)
		userID, ok := c.Locals("userID").(uuid.UUID)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User ID not found in context",
			})
		}

		routeOrgID := uuid.Nil
		if raw := c.Params("id"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid organization id",
				})
			}
			routeOrgID = parsed
		}

		var user models.User
		if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		if !OrganizationScopeAllowed(role, user.OrganizationID, routeOrgID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have access to this organization",
			})
		}

		return c.Next()
	}
}
