package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// ErrNoMatchingMembers is returned when a member filter matched zero
// usage records. This almost always means the exported report carries
// masked identifiers rather than a genuinely empty membership.
var ErrNoMatchingMembers = errors.New("no usage records matched the member filter")

// Options controls one aggregation pass.
type Options struct {
	// KeepDeleted retains soft-deleted records. Default is to exclude
	// them from every total.
	KeepDeleted bool

	// MemberFilter, when non-nil, keeps only records whose identity is
	// in the set.
	MemberFilter map[string]struct{}

	// Identity extracts the value matched against MemberFilter.
	// Defaults to the record's entity identifier.
	Identity func(domain.UsageRecord) string
}

// Aggregate reduces one workload's usage records to workload totals.
// It is a pure function over its inputs; records are never mutated.
func Aggregate(ctx context.Context, workload domain.Workload, records []domain.UsageRecord, opts Options) (domain.WorkloadUsage, error) {
	logger := zerolog.Ctx(ctx)

	identity := opts.Identity
	if identity == nil {
		identity = func(r domain.UsageRecord) string { return r.EntityID }
	}

	totals := domain.WorkloadUsage{Workload: workload}
	for _, r := range records {
		if r.Deleted && !opts.KeepDeleted {
			continue
		}
		if opts.MemberFilter != nil {
			if _, ok := opts.MemberFilter[identity(r)]; !ok {
				continue
			}
		}

		totals.EntityCount++
		totals.TotalBytes += r.BytesUsed
		totals.TotalItems += r.ItemCount

		switch r.RecipientType {
		case domain.RecipientUser:
			totals.UserCount++
			totals.UserBytes += r.BytesUsed
		case domain.RecipientShared:
			totals.SharedCount++
			totals.SharedBytes += r.BytesUsed
		}
	}

	if opts.MemberFilter != nil && totals.EntityCount == 0 {
		return totals, fmt.Errorf(
			"%w: %d %s records checked against %d members; "+
				"if the tenant conceals display names in reports, exported identifiers will never match a member list",
			ErrNoMatchingMembers, len(records), workload, len(opts.MemberFilter))
	}

	if totals.EntityCount > 0 {
		totals.BytesPerEntity = domain.RoundTo(float64(totals.TotalBytes)/float64(totals.EntityCount), 2)
	}

	logger.Debug().
		Str("workload", workload.String()).
		Int("entities", totals.EntityCount).
		Int64("bytes", totals.TotalBytes).
		Msg("aggregated usage records")

	return totals, nil
}
