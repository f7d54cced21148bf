package domain

import "fmt"

// GrowthMethod selects how annual growth is derived from a historical
// series.
type GrowthMethod string

const (
	// GrowthEndpoints extrapolates linearly from the earliest and latest
	// samples.
	GrowthEndpoints GrowthMethod = "endpoints"
	// GrowthStepwise averages successive period-over-period deltas and
	// scales the average to a year.
	GrowthStepwise GrowthMethod = "stepwise"
)

func ParseGrowthMethod(s string) (GrowthMethod, error) {
	switch GrowthMethod(s) {
	case GrowthEndpoints, GrowthStepwise:
		return GrowthMethod(s), nil
	}
	return "", fmt.Errorf("unknown growth method %q (expected endpoints or stepwise)", s)
}

// SourceType selects where a tenant's exported reports are read from.
type SourceType string

const (
	SourceFiles SourceType = "files"
	SourceS3    SourceType = "s3"
)

// TenantProfile describes one configured tenant.
type TenantProfile struct {
	Name   string
	Source SourceType

	// files source
	ReportsDir string

	// s3 source
	Bucket string
	Prefix string
	Region string

	// SolverURL is the license pack-mix optimization endpoint. Empty
	// means finite-tier recommendations are unavailable.
	SolverURL string

	// HistoryPath is the DuckDB file accumulating per-run snapshots.
	// Empty disables snapshot persistence.
	HistoryPath string
}

func (p TenantProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Source, p.Name)
}

// ReportWindows are the reporting windows the suite's export API offers.
var ReportWindows = []int{7, 30, 90, 180}

// RunSettings are the per-run parameters of a forecast.
type RunSettings struct {
	// WindowDays is the reporting window the ingested reports cover.
	WindowDays int
	// Method selects the growth derivation.
	Method GrowthMethod
	// GrowthPercent is the assumed annual growth (whole percent) applied
	// to workloads that have no historical series.
	GrowthPercent int
	// HorizonYears is the custom projection horizon.
	HorizonYears int
	// MemberFilter restricts aggregation to the listed entity
	// identifiers. Nil means no filtering.
	MemberFilter map[string]struct{}
	// CountShared includes shared mailboxes in the license-user basis.
	CountShared bool
	// SkipArchive disables the per-mailbox archive collection pass.
	SkipArchive bool
}

// DefaultRunSettings returns the settings a run starts from.
func DefaultRunSettings() RunSettings {
	return RunSettings{
		WindowDays:    180,
		Method:        GrowthEndpoints,
		GrowthPercent: 30,
		HorizonYears:  5,
		CountShared:   true,
	}
}

// Validate checks the settings and applies defaults for zero values.
func (s *RunSettings) Validate() error {
	if s.WindowDays == 0 {
		s.WindowDays = 180
	}
	valid := false
	for _, w := range ReportWindows {
		if s.WindowDays == w {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid reporting window %d (expected one of %v)", s.WindowDays, ReportWindows)
	}
	if s.Method == "" {
		s.Method = GrowthEndpoints
	}
	if s.HorizonYears <= 0 {
		s.HorizonYears = 5
	}
	return nil
}
