package access

type Capability string

const (
	CapListArtwork       Capability = "list_artwork"
	CapRunAuction        Capability = "run_auction"
	CapGenerateAI        Capability = "generate_ai"
	CapManageCommissions Capability = "manage_commissions"
	CapBid               Capability = "bid"
	CapPurchase          Capability = "purchase"
	CapCommission        Capability = "commission"
	CapRateArtist        Capability = "rate_artist"
	CapAdmin             Capability = "admin"
)
