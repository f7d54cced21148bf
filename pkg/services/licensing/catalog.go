package licensing

import "github.com/de-tools/capacity-atlas/pkg/models/domain"

// UnlimitedThresholdGB is the average per-user storage, in GB, above which
// the finite tiers are skipped entirely. The boundary is inclusive: an
// average of exactly this value still solves for finite packs.
const UnlimitedThresholdGB = 76

// Tier codes shared by the solver response, the stored plan and the report.
const (
	TierFiveGB    = "5gb"
	TierTwentyGB  = "20gb"
	TierFiftyGB   = "50gb"
	TierUnlimited = "unlimited"
)

var tiers = []domain.LicenseTier{
	{Code: TierFiveGB, CapacityGB: 5},
	{Code: TierTwentyGB, CapacityGB: 20},
	{Code: TierFiftyGB, CapacityGB: 50},
	{Code: TierUnlimited, Unlimited: true},
}

// Catalog returns the fixed tier lineup, finite capacities first.
func Catalog() []domain.LicenseTier {
	out := make([]domain.LicenseTier, len(tiers))
	copy(out, tiers)
	return out
}
