package middleware

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/controlapag/controlapag-api/models"
)

func TestRoleSatisfiesProviderCompat(t *testing.T) {
	// Requiring PROVIDER accepts every provider-family role
	for _, role := range []models.Role{models.RoleProvider, models.RoleIndividual, models.RoleMaster, models.RoleSubProvider} {
		assert.True(t, RoleSatisfies(role, models.RoleProvider), "role %s", role)
	}

	assert.False(t, RoleSatisfies(models.RoleClient, models.RoleProvider))
	assert.False(t, RoleSatisfies(models.RoleAdmin, models.RoleProvider))
}

func TestRoleSatisfiesExactMatch(t *testing.T) {
	// Roles without a compat entry only match themselves
	assert.True(t, RoleSatisfies(models.RoleMaster, models.RoleMaster))
	assert.False(t, RoleSatisfies(models.RoleIndividual, models.RoleMaster))
	assert.False(t, RoleSatisfies(models.RoleProvider, models.RoleMaster))
}

func TestRoleSatisfiesAnyOf(t *testing.T) {
	assert.True(t, RoleSatisfies(models.RoleClient, models.RoleAdmin, models.RoleClient))
	assert.False(t, RoleSatisfies(models.RoleClient, models.RoleAdmin, models.RoleMaster))
}

func TestOrganizationScopeAllowed(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()

	// MASTER bypasses the scope check entirely
	assert.True(t, OrganizationScopeAllowed(models.RoleMaster, nil, orgA))
	assert.True(t, OrganizationScopeAllowed(models.RoleMaster, &orgB, orgA))

	// Members must belong to the route's organization
	assert.True(t, OrganizationScopeAllowed(models.RoleSubProvider, &orgA, orgA))
	assert.False(t, OrganizationScopeAllowed(models.RoleSubProvider, &orgB, orgA))
	assert.False(t, OrganizationScopeAllowed(models.RoleSubProvider, nil, orgA))

	// A route without an organization id is open to any authorized role
	assert.True(t, OrganizationScopeAllowed(models.RoleClient, nil, uuid.Nil))
}
