package forecast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/capacity-atlas/pkg/adapters"
	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/de-tools/capacity-atlas/pkg/models/store"
	"github.com/de-tools/capacity-atlas/pkg/services/growth"
	"github.com/de-tools/capacity-atlas/pkg/services/usage"
	"github.com/de-tools/capacity-atlas/pkg/store/report"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Allocator picks the license mix for the forecast demand.
type Allocator interface {
	Allocate(ctx context.Context, requiredUsers int, requiredStorageGB float64) (domain.LicensePlan, error)
}

// History persists per-run usage snapshots and serves them back as a
// growth series for tenants without a downloadable storage history.
type History interface {
	Add(ctx context.Context, tenant string, snapshots []store.Snapshot) error
	GetSeries(ctx context.Context, tenant string, workload string, since time.Time) ([]store.Snapshot, error)
}

// Controller runs the full sizing pipeline for one tenant: aggregate each
// workload, estimate growth, project demand and allocate licenses.
type Controller interface {
	BuildForecast(ctx context.Context, tenant string, settings domain.RunSettings) (*domain.SizingReport, error)
}

type controller struct {
	source    report.Source
	allocator Allocator
	history   History // nil disables snapshot persistence and fallback
}

func NewController(source report.Source, allocator Allocator, history History) (Controller, error) {
	if source == nil {
		return nil, fmt.Errorf("report source is nil")
	}
	if allocator == nil {
		return nil, fmt.Errorf("license allocator is nil")
	}
	return &controller{
		source:    source,
		allocator: allocator,
		history:   history,
	}, nil
}

type workloadResult struct {
	totals   *domain.WorkloadTotals
	archive  domain.ArchiveUsage
	warnings []domain.Warning
	usageOK  bool
}

func (r *workloadResult) warn(code domain.WarningCode, w domain.Workload, msg string) {
	r.warnings = append(r.warnings, domain.Warning{Code: code, Workload: w, Message: msg})
}

func (c *controller) BuildForecast(ctx context.Context, tenant string, settings domain.RunSettings) (*domain.SizingReport, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	result := &domain.SizingReport{
		RunID:        uuid.NewString(),
		Tenant:       tenant,
		GeneratedAt:  time.Now().UTC(),
		WindowDays:   settings.WindowDays,
		HorizonYears: settings.HorizonYears,
		Method:       settings.Method,
		Workloads:    make(map[domain.Workload]*domain.WorkloadTotals, 3),
	}

	logger.Info().
		Str("tenant", tenant).
		Str("run_id", result.RunID).
		Int("window_days", settings.WindowDays).
		Str("method", string(settings.Method)).
		Msg("building capacity forecast")

	// The three workload pipelines are independent; only the tenant
	// aggregation below waits on them.
	workloads := domain.Workloads()
	results := make([]workloadResult, len(workloads))

	var wg sync.WaitGroup
	for i, w := range workloads {
		wg.Add(1)
		go func(i int, w domain.Workload) {
			defer wg.Done()
			results[i] = c.buildWorkload(ctx, tenant, w, settings)
		}(i, w)
	}
	wg.Wait()

	for i, w := range workloads {
		res := results[i]
		result.Workloads[w] = res.totals
		result.Warnings = append(result.Warnings, res.warnings...)
		if w == domain.WorkloadMail {
			result.Archive = res.archive
		}

		result.Totals.TotalBytes += res.totals.TotalBytes
		result.Totals.TotalItems += res.totals.TotalItems
		result.Totals.OneYearBytes += res.totals.OneYearBytes
		result.Totals.ThreeYearBytes += res.totals.ThreeYearBytes
		result.Totals.CustomYearBytes += res.totals.CustomYearBytes
	}

	result.Totals.RequiredUsers = requiredUsers(result, settings)

	if result.Totals.RequiredUsers > 0 {
		oneYearGB := result.Totals.OneYearBytes / domain.BytesPerGB
		plan, err := c.allocator.Allocate(ctx, result.Totals.RequiredUsers, oneYearGB)
		if err != nil {
			result.Warn(domain.WarnPlanUnavailable, "", fmt.Sprintf("license plan unavailable: %v", err))
		} else {
			result.Plan = &plan
			if plan.Unavailable {
				result.Warn(domain.WarnPlanUnavailable, "", "license solver unavailable, pack recommendation withheld")
			}
		}
	} else {
		logger.Info().Str("tenant", tenant).Msg("no licensable users, skipping license allocation")
	}

	c.persistSnapshots(ctx, tenant, result, results, settings)

	logger.Info().
		Str("tenant", tenant).
		Str("run_id", result.RunID).
		Str("total_usage", humanize.IBytes(uint64(result.Totals.TotalBytes))).
		Int("required_users", result.Totals.RequiredUsers).
		Int("warnings", len(result.Warnings)).
		Msg("capacity forecast complete")

	return result, nil
}

func (c *controller) buildWorkload(ctx context.Context, tenant string, w domain.Workload, settings domain.RunSettings) workloadResult {
	logger := zerolog.Ctx(ctx)
	res := workloadResult{totals: &domain.WorkloadTotals{Workload: w, GrowthBasis: domain.GrowthUnknown}}

	records, skipped, err := c.source.UsageDetail(ctx, w)
	if err != nil {
		logger.Warn().Err(err).Str("workload", w.String()).Msg("usage report unavailable")
		res.warn(domain.WarnUsageUnavailable, w, fmt.Sprintf("usage report unavailable: %v", err))
		return res
	}
	res.usageOK = true
	if skipped > 0 {
		res.warn(domain.WarnRowsSkipped, w, fmt.Sprintf("%d malformed report rows skipped", skipped))
	}

	aggregated, err := usage.Aggregate(ctx, w, records, usage.Options{MemberFilter: settings.MemberFilter})
	if err != nil {
		// Zero counts still flow through projection so the report shape
		// stays complete.
		if errors.Is(err, usage.ErrNoMatchingMembers) {
			res.warn(domain.WarnNoMatchingMembers, w, err.Error())
		} else {
			res.warn(domain.WarnUsageUnavailable, w, err.Error())
			res.usageOK = false
			return res
		}
	}

	totals := res.totals
	totals.EntityCount = aggregated.EntityCount
	totals.TotalBytes = aggregated.TotalBytes
	totals.TotalItems = aggregated.TotalItems
	totals.BytesPerEntity = aggregated.BytesPerEntity
	totals.UserCount = aggregated.UserCount
	totals.SharedCount = aggregated.SharedCount

	// The archive contribution is folded in before growth and projection
	// so every later stage sees the complete mail footprint.
	if w == domain.WorkloadMail && !settings.SkipArchive {
		if ids := archiveCandidates(records, settings.MemberFilter); len(ids) > 0 {
			stats, err := c.source.CollectArchiveStats(ctx, ids)
			if err != nil {
				logger.Warn().Err(err).Int("mailboxes", len(ids)).Msg("archive stats unavailable")
				res.warn(domain.WarnArchiveUnavailable, w, fmt.Sprintf("archive stats unavailable: %v", err))
			} else {
				res.archive = usage.AccumulateArchives(stats)
				totals.TotalBytes += res.archive.TotalBytes
				totals.TotalItems += res.archive.TotalItems
				if totals.EntityCount > 0 {
					totals.BytesPerEntity = domain.RoundTo(float64(totals.TotalBytes)/float64(totals.EntityCount), 2)
				}
			}
		}
	}

	series := c.historicalSeries(ctx, tenant, w, settings)
	switch {
	case len(series) == 0:
		totals.GrowthRate = float64(settings.GrowthPercent) / 100
		totals.GrowthBasis = domain.GrowthAssumed
		logger.Info().
			Str("workload", w.String()).
			Int("growth_percent", settings.GrowthPercent).
			Msg("no historical series, applying the assumed growth rate")
	default:
		rate, err := growth.EstimateAnnualGrowth(ctx, series, settings.Method, growth.Options{CurrentBytes: totals.TotalBytes})
		if err != nil {
			res.warn(domain.WarnInsufficientHistory, w, fmt.Sprintf("projections assume no growth: %v", err))
		} else {
			totals.GrowthRate = rate
			totals.GrowthBasis = domain.GrowthFromHistory
		}
	}

	projections := Project(totals.TotalBytes, totals.GrowthRate, 1, 3, settings.HorizonYears)
	totals.OneYearBytes = projections[1]
	totals.ThreeYearBytes = projections[3]
	totals.CustomYearBytes = projections[settings.HorizonYears]

	return res
}

// historicalSeries prefers the downloaded storage history and falls back
// to the tenant's own accumulated snapshots.
func (c *controller) historicalSeries(ctx context.Context, tenant string, w domain.Workload, settings domain.RunSettings) []domain.HistoricalSample {
	logger := zerolog.Ctx(ctx)

	series, err := c.source.History(ctx, w)
	if err != nil {
		logger.Warn().Err(err).Str("workload", w.String()).Msg("storage history report unavailable")
	}
	if len(series) > 0 || c.history == nil {
		return series
	}

	since := time.Now().UTC().AddDate(0, 0, -settings.WindowDays)
	snapshots, err := c.history.GetSeries(ctx, tenant, w.String(), since)
	if err != nil {
		logger.Warn().Err(err).Str("workload", w.String()).Msg("snapshot history unavailable")
		return nil
	}
	return adapters.MapStoreSnapshotsToDomainSeries(snapshots)
}

// archiveCandidates lists the live, filter-surviving mailboxes flagged
// with an in-place archive.
func archiveCandidates(records []domain.UsageRecord, filter map[string]struct{}) []string {
	var ids []string
	for _, r := range records {
		if r.Deleted || !r.HasArchive {
			continue
		}
		if len(filter) > 0 {
			if _, ok := filter[r.EntityID]; !ok {
				continue
			}
		}
		ids = append(ids, r.EntityID)
	}
	return ids
}

// requiredUsers is the license-user basis: the larger of the mail and
// drive entity counts, counting shared mailboxes only when configured.
func requiredUsers(result *domain.SizingReport, settings domain.RunSettings) int {
	mail := result.Workload(domain.WorkloadMail)
	licensable := mail.EntityCount
	if !settings.CountShared {
		licensable = mail.UserCount
	}

	if drive := result.Workload(domain.WorkloadDrive); drive.EntityCount > licensable {
		return drive.EntityCount
	}
	return licensable
}

func (c *controller) persistSnapshots(ctx context.Context, tenant string, result *domain.SizingReport, results []workloadResult, settings domain.RunSettings) {
	if c.history == nil {
		return
	}

	snapshots := make([]store.Snapshot, 0, len(results))
	for _, res := range results {
		if !res.usageOK {
			// A failed fetch must not poison the series with zeros.
			continue
		}
		snapshots = append(snapshots, adapters.MapWorkloadTotalsToStoreSnapshot(*res.totals, result.GeneratedAt, settings.WindowDays))
	}
	if len(snapshots) == 0 {
		return
	}

	if err := c.history.Add(ctx, tenant, snapshots); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("tenant", tenant).Msg("failed to persist usage snapshots")
	}
}
