package domain

import "time"

// GrowthBasis records where a workload's growth rate came from, so an
// uncertain projection is never mistaken for a measured one.
type GrowthBasis string

const (
	// GrowthFromHistory means the rate was estimated from a historical series.
	GrowthFromHistory GrowthBasis = "history"
	// GrowthAssumed means the configured growth assumption was applied
	// because no historical series was available.
	GrowthAssumed GrowthBasis = "assumed"
	// GrowthUnknown means history existed but was unusable; projections
	// assume no growth for this workload.
	GrowthUnknown GrowthBasis = "none"
)

// WorkloadTotals is the fully derived sizing state for one workload.
// It is built once per run and never mutated after projection.
type WorkloadTotals struct {
	Workload       Workload
	EntityCount    int
	TotalBytes     int64
	TotalItems     int64
	BytesPerEntity float64

	GrowthRate  float64 // annualized fraction, 0.08 = 8%/year
	GrowthBasis GrowthBasis

	OneYearBytes    float64
	ThreeYearBytes  float64
	CustomYearBytes float64

	UserCount   int
	SharedCount int
}

// TenantTotals aggregates the workload totals tenant-wide.
// TotalBytes equals the sum of workload TotalBytes with the archive
// contribution already folded into mail.
type TenantTotals struct {
	RequiredUsers   int // max licensable entity count across mail and drive
	TotalBytes      int64
	TotalItems      int64
	OneYearBytes    float64
	ThreeYearBytes  float64
	CustomYearBytes float64
}

// WarningCode identifies a recoverable condition attached to a report.
type WarningCode string

const (
	WarnInsufficientHistory WarningCode = "insufficient_history"
	WarnNoMatchingMembers   WarningCode = "no_matching_members"
	WarnPlanUnavailable     WarningCode = "plan_unavailable"
	WarnArchiveUnavailable  WarningCode = "archive_unavailable"
	WarnUsageUnavailable    WarningCode = "usage_unavailable"
	WarnRowsSkipped         WarningCode = "rows_skipped"
)

// Warning is a structured, workload-scoped report of a condition that did
// not stop the run. Workload is empty for tenant-level conditions.
type Warning struct {
	Code     WarningCode
	Workload Workload
	Message  string
}

// SizingReport is the complete computed sizing result for one tenant,
// consumed by the presentation layer.
type SizingReport struct {
	RunID        string
	Tenant       string
	GeneratedAt  time.Time
	WindowDays   int
	HorizonYears int
	Method       GrowthMethod

	Workloads map[Workload]*WorkloadTotals
	Archive   ArchiveUsage
	Totals    TenantTotals
	Plan      *LicensePlan
	Warnings  []Warning
}

// Workload returns the totals for w, or an empty value if the workload
// did not complete.
func (r *SizingReport) Workload(w Workload) *WorkloadTotals {
	if t, ok := r.Workloads[w]; ok {
		return t
	}
	return &WorkloadTotals{Workload: w, GrowthBasis: GrowthUnknown}
}

// Warn appends a warning to the report.
func (r *SizingReport) Warn(code WarningCode, w Workload, msg string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Workload: w, Message: msg})
}
