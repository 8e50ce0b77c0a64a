package access

import "artmarket-app/internal/domain/users"

var buyerCaps = []Capability{CapBid, CapPurchase, CapCommission, CapRateArtist}

var artistCaps = []Capability{
	CapListArtwork,
	CapRunAuction,
	CapGenerateAI,
	CapManageCommissions,
	// artists can still buy and bid on other artists' work
	CapBid,
	CapPurchase,
	CapRateArtist,
}

func CapabilitiesFor(role string) []Capability {
	switch role {
	case users.RoleArtist:
		return append([]Capability(nil), artistCaps...)
	case users.RoleBuyer:
		return append([]Capability(nil), buyerCaps...)
	case users.RoleAdmin:
		all := append([]Capability{CapAdmin}, artistCaps...)
		return append(all, CapCommission)
	default:
		return []Capability{}
	}
}

func Allows(role string, c Capability) bool {
	for _, have := range CapabilitiesFor(role) {
		if have == c {
			return true
		}
	}
	return false
}
