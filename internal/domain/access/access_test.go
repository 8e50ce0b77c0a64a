package access

import (
	"errors"
	"testing"

	"artmarket-app/internal/domain/users"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, Allows(users.RoleArtist, CapListArtwork))
	assert.True(t, Allows(users.RoleArtist, CapRunAuction))
	assert.False(t, Allows(users.RoleBuyer, CapListArtwork))
	assert.False(t, Allows(users.RoleBuyer, CapGenerateAI))
	assert.True(t, Allows(users.RoleBuyer, CapBid))
	assert.True(t, Allows(users.RoleBuyer, CapCommission))
	assert.False(t, Allows(users.RoleArtist, CapCommission))
	assert.True(t, Allows(users.RoleAdmin, CapAdmin))
	assert.False(t, Allows("", CapBid))
}

func TestRequireReturnsStructuredError(t *testing.T) {
	assert.NoError(t, Require(users.RoleArtist, CapListArtwork))

	err := Require(users.RoleBuyer, CapListArtwork)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	var denied *DeniedError
	if assert.True(t, errors.As(err, &denied)) {
		assert.Equal(t, users.RoleBuyer, denied.Role)
		assert.Equal(t, CapListArtwork, denied.Capability)
	}
}

func TestCapabilitiesForReturnsCopy(t *testing.T) {
	caps := CapabilitiesFor(users.RoleBuyer)
	caps[0] = CapAdmin
	assert.False(t, Allows(users.RoleBuyer, CapAdmin))
}

func TestComputePolicy(t *testing.T) {
	slug := "mira-3"
	p := ComputePolicy(users.User{Role: users.RoleArtist, ProfileSlug: &slug})
	assert.Equal(t, &slug, p.PublicProfile)

	p = ComputePolicy(users.User{Role: users.RoleBuyer, ProfileSlug: &slug})
	assert.Nil(t, p.PublicProfile)
}
