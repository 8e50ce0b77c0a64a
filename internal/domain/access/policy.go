package access

import (
	"artmarket-app/internal/domain/users"
)

type Policy struct {
	Role         string       `json:"role"`
	Capabilities []Capability `json:"capabilities"`
	// PublicProfile is set for artists with a profile slug.
	PublicProfile *string `json:"public_profile,omitempty"`
}

func ComputePolicy(u users.User) Policy {
	p := Policy{
		Role:         u.Role,
		Capabilities: CapabilitiesFor(u.Role),
	}
	if u.IsArtist() && u.ProfileSlug != nil && *u.ProfileSlug != "" {
		p.PublicProfile = u.ProfileSlug
	}
	return p
}
