package domain

// SeatsPerPack is the number of user seats in one license pack. Every
// tier, including unlimited, is sold in packs of this size.
const SeatsPerPack = 10

// LicenseTier is one entry of the fixed license catalog.
type LicenseTier struct {
	Code       string
	CapacityGB int // per-seat storage cap; 0 for the unlimited tier
	Unlimited  bool
}

// TierAllocation is the allocated pack count for one tier.
// Users is always Packs * SeatsPerPack. Packs is -1 when the
// recommendation is unavailable for that tier.
type TierAllocation struct {
	Tier  LicenseTier
	Packs int
	Users int
}

// LicensePlan is the result of one allocation call. Immutable once
// returned.
//
// When finite tiers are chosen, TotalCapacityGB >= the requested storage
// and TotalUsers >= the requested users. When the unlimited tier is
// chosen, capacity is unconstrained and TotalCapacityGB is 0.
// Unavailable marks the finite-tier solve as failed; the finite pack
// counts are then the -1 sentinel and must not be read as quantities.
type LicensePlan struct {
	Tiers           []TierAllocation
	TotalUsers      int
	TotalCapacityGB int64
	Unlimited       bool
	Unavailable     bool
}

// Allocation returns the allocation for the tier with the given code,
// or an empty allocation if the catalog does not carry it.
func (p *LicensePlan) Allocation(code string) TierAllocation {
	for _, a := range p.Tiers {
		if a.Tier.Code == code {
			return a
		}
	}
	return TierAllocation{}
}
