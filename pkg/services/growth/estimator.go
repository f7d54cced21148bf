package growth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// ErrInsufficientHistory is returned when a series has fewer than two
// samples, which is not enough to compute a delta.
var ErrInsufficientHistory = errors.New("growth estimate needs at least two historical samples")

type Options struct {
	// CurrentBytes, when positive, is used as the denominator of the
	// endpoints estimate instead of the latest sample. Report timing lag
	// means the latest sample can trail the live total.
	CurrentBytes int64
}

// EstimateAnnualGrowth reduces a historical usage series to an annualized
// growth fraction (0.13 = 13%/year). The series does not need to be
// pre-sorted; a sorted copy is used and the input is left untouched.
// Negative growth is a valid result and propagates unchanged.
func EstimateAnnualGrowth(ctx context.Context, series []domain.HistoricalSample, method domain.GrowthMethod, opts Options) (float64, error) {
	if len(series) < 2 {
		return 0, fmt.Errorf("%w, got %d", ErrInsufficientHistory, len(series))
	}

	sorted := make([]domain.HistoricalSample, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ReportDate.Before(sorted[j].ReportDate)
	})

	earliest := sorted[0]
	latest := sorted[len(sorted)-1]

	var rate float64
	switch method {
	case domain.GrowthEndpoints:
		rate = endpoints(earliest, latest, opts.CurrentBytes)
	case domain.GrowthStepwise:
		rate = stepwise(ctx, sorted)
	default:
		return 0, fmt.Errorf("unsupported growth method: %s", method)
	}

	current := latest.BytesUsed
	if opts.CurrentBytes > 0 {
		current = opts.CurrentBytes
	}
	zerolog.Ctx(ctx).Info().
		Str("method", string(method)).
		Str("earliest", humanize.IBytes(uint64(earliest.BytesUsed))).
		Str("latest", humanize.IBytes(uint64(latest.BytesUsed))).
		Str("current", humanize.IBytes(uint64(current))).
		Float64("annual_growth", rate).
		Msg("estimated storage growth")

	return rate, nil
}

// endpoints extrapolates the delta between the earliest and latest samples
// linearly to 365 days. Both endpoints are converted to GB at 2 decimal
// places first so the delta is taken in the unit the report presents.
func endpoints(earliest, latest domain.HistoricalSample, currentBytes int64) float64 {
	earliestGB := domain.RoundTo(domain.GBFromBytes(earliest.BytesUsed), 2)
	latestGB := domain.RoundTo(domain.GBFromBytes(latest.BytesUsed), 2)

	if earliest.PeriodDays <= 0 {
		return 0
	}
	annualGB := (latestGB - earliestGB) / float64(earliest.PeriodDays) * 365

	baseGB := latestGB
	if currentBytes > 0 {
		baseGB = domain.RoundTo(domain.GBFromBytes(currentBytes), 2)
	}
	if baseGB == 0 {
		return 0
	}
	return annualGB / baseGB
}

// stepwise averages the percent change between each consecutive pair of
// samples, then scales the average from the observation window to a year
// and rounds up to a whole percent. The scaling is linear, not compounded,
// so the result is an approximation of true annual growth.
func stepwise(ctx context.Context, sorted []domain.HistoricalSample) float64 {
	var sum float64
	var steps int
	for i := 1; i < len(sorted); i++ {
		prior := sorted[i-1].BytesUsed
		if prior == 0 {
			zerolog.Ctx(ctx).Warn().
				Time("report_date", sorted[i-1].ReportDate).
				Msg("skipping stepwise delta over a zero-usage sample")
			continue
		}
		sum += (float64(sorted[i].BytesUsed)/float64(prior) - 1) * 100
		steps++
	}
	if steps == 0 {
		return 0
	}

	mean := sum / float64(steps)
	scale := 1.0
	if days := sorted[len(sorted)-1].PeriodDays; days > 0 {
		scale = 365 / float64(days)
	}
	// Snap before ceiling: float noise must not push an exact whole
	// percent up to the next one.
	return math.Ceil(domain.RoundTo(mean*scale, 6)) / 100
}
