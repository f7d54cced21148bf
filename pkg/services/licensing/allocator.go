package licensing

import (
	"context"
	"fmt"
	"math"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// SolveRequest asks the external optimizer for the cheapest finite-tier
// pack mix covering both constraints. Quantities are whole units, ceiled
// by the allocator before submission.
type SolveRequest struct {
	RequiredUsers     int
	RequiredStorageGB int
}

// SolveResponse carries the pack counts the optimizer picked.
type SolveResponse struct {
	FiveGBPacks   int
	TwentyGBPacks int
	FiftyGBPacks  int
}

// Solver is the external pack-mix optimization service. Implementations
// own their transport, timeout and failure policy.
type Solver interface {
	Solve(ctx context.Context, req SolveRequest) (SolveResponse, error)
}

type Allocator struct {
	solver Solver
}

// NewAllocator wires the external solver in. A nil solver leaves the
// unlimited branch working and makes every finite-tier solve come back
// unavailable.
func NewAllocator(solver Solver) *Allocator {
	return &Allocator{solver: solver}
}

// Allocate picks the license mix covering the forecast demand.
// requiredUsers must be at least 1; the average GB/user decides between
// the finite-tier solve and the unlimited tier. A solver outage is not an
// error: the plan comes back with Unavailable set and sentinel counts, and
// the rest of the forecast stands.
func (a *Allocator) Allocate(ctx context.Context, requiredUsers int, requiredStorageGB float64) (domain.LicensePlan, error) {
	if requiredUsers <= 0 {
		return domain.LicensePlan{}, fmt.Errorf("license allocation requires at least one user, got %d", requiredUsers)
	}

	avgPerUser := requiredStorageGB / float64(requiredUsers)
	if avgPerUser > UnlimitedThresholdGB {
		return a.unlimitedPlan(ctx, requiredUsers, avgPerUser), nil
	}
	return a.finitePlan(ctx, requiredUsers, requiredStorageGB), nil
}

func (a *Allocator) unlimitedPlan(ctx context.Context, requiredUsers int, avgPerUser float64) domain.LicensePlan {
	packs := int(math.Ceil(float64(requiredUsers) / domain.SeatsPerPack))
	users := packs * domain.SeatsPerPack

	zerolog.Ctx(ctx).Info().
		Float64("avg_gb_per_user", domain.RoundTo(avgPerUser, 2)).
		Int("packs", packs).
		Int("users", users).
		Msg("average demand exceeds the largest finite tier, allocating unlimited packs")

	plan := domain.LicensePlan{Unlimited: true, TotalUsers: users}
	for _, tier := range tiers {
		alloc := domain.TierAllocation{Tier: tier}
		if tier.Unlimited {
			alloc.Packs = packs
			alloc.Users = users
		}
		plan.Tiers = append(plan.Tiers, alloc)
	}
	return plan
}

func (a *Allocator) finitePlan(ctx context.Context, requiredUsers int, requiredStorageGB float64) domain.LicensePlan {
	if a.solver == nil {
		zerolog.Ctx(ctx).Warn().Msg("no license solver configured, recommendation withheld")
		return unavailablePlan()
	}

	req := SolveRequest{
		RequiredUsers:     requiredUsers,
		RequiredStorageGB: int(math.Ceil(requiredStorageGB)),
	}

	resp, err := a.solver.Solve(ctx, req)
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Int("required_users", req.RequiredUsers).
			Int("required_storage_gb", req.RequiredStorageGB).
			Msg("license solver unavailable, recommendation withheld")
		return unavailablePlan()
	}

	packsByCode := map[string]int{
		TierFiveGB:   resp.FiveGBPacks,
		TierTwentyGB: resp.TwentyGBPacks,
		TierFiftyGB:  resp.FiftyGBPacks,
	}

	var plan domain.LicensePlan
	for _, tier := range tiers {
		alloc := domain.TierAllocation{Tier: tier}
		if !tier.Unlimited {
			alloc.Packs = packsByCode[tier.Code]
			alloc.Users = alloc.Packs * domain.SeatsPerPack
			plan.TotalUsers += alloc.Users
			plan.TotalCapacityGB += int64(alloc.Users) * int64(tier.CapacityGB)
		}
		plan.Tiers = append(plan.Tiers, alloc)
	}
	return plan
}

// unavailablePlan marks every finite count with the -1 sentinel. The
// unlimited tier never depends on the solver, so its zero counts stay
// readable.
func unavailablePlan() domain.LicensePlan {
	plan := domain.LicensePlan{Unavailable: true}
	for _, tier := range tiers {
		alloc := domain.TierAllocation{Tier: tier}
		if !tier.Unlimited {
			alloc.Packs = -1
			alloc.Users = -1
		}
		plan.Tiers = append(plan.Tiers, alloc)
	}
	return plan
}
