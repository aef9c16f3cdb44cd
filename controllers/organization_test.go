package controllers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/controlapag/controlapag-api/models"
)

func TestCheckInviteeMembership(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()

	// Unaffiliated accounts can be linked
	assert.NoError(t, checkInviteeMembership(&models.User{}, orgA))

	// Re-inviting a member of the same organization is rejected
	err := checkInviteeMembership(&models.User{OrganizationID: &orgA}, orgA)
	assert.ErrorIs(t, err, errAlreadyInOrganization)

	// Members of another organization are never silently moved
	err = checkInviteeMembership(&models.User{OrganizationID: &orgB, Role: models.RoleSubProvider}, orgA)
	assert.ErrorIs(t, err, errMemberOfOtherOrg)
}
