package api

import "time"

type WorkloadTotals struct {
	Workload        string  `json:"workload"`
	EntityCount     int     `json:"entity_count"`
	TotalBytes      int64   `json:"total_bytes"`
	TotalItems      int64   `json:"total_items"`
	BytesPerEntity  float64 `json:"bytes_per_entity"`
	GrowthPercent   float64 `json:"growth_percent"`
	GrowthBasis     string  `json:"growth_basis"`
	OneYearBytes    float64 `json:"one_year_bytes"`
	ThreeYearBytes  float64 `json:"three_year_bytes"`
	CustomYearBytes float64 `json:"custom_year_bytes"`
	UserCount       int     `json:"user_count,omitempty"`
	SharedCount     int     `json:"shared_count,omitempty"`
}

type ArchiveUsage struct {
	TotalBytes int64   `json:"total_bytes"`
	TotalItems int64   `json:"total_items"`
	Mailboxes  int     `json:"mailboxes"`
	TotalGB    float64 `json:"total_gb"`
}

type TenantTotals struct {
	RequiredUsers   int     `json:"required_users"`
	TotalBytes      int64   `json:"total_bytes"`
	TotalItems      int64   `json:"total_items"`
	OneYearBytes    float64 `json:"one_year_bytes"`
	ThreeYearBytes  float64 `json:"three_year_bytes"`
	CustomYearBytes float64 `json:"custom_year_bytes"`
}

type TierAllocation struct {
	Tier       string `json:"tier"`
	CapacityGB int    `json:"capacity_gb"`
	Unlimited  bool   `json:"unlimited,omitempty"`
	Packs      int    `json:"packs"`
	Users      int    `json:"users"`
}

type LicensePlan struct {
	Tiers           []TierAllocation `json:"tiers"`
	TotalUsers      int              `json:"total_users"`
	TotalCapacityGB int64            `json:"total_capacity_gb"`
	Unlimited       bool             `json:"unlimited"`
	Unavailable     bool             `json:"unavailable"`
}

type Warning struct {
	Code     string `json:"code"`
	Workload string `json:"workload,omitempty"`
	Message  string `json:"message"`
}

type SizingReport struct {
	RunID        string           `json:"run_id"`
	Tenant       string           `json:"tenant"`
	GeneratedAt  time.Time        `json:"generated_at"`
	WindowDays   int              `json:"window_days"`
	HorizonYears int              `json:"horizon_years"`
	Method       string           `json:"method"`
	Workloads    []WorkloadTotals `json:"workloads"`
	Archive      ArchiveUsage     `json:"archive"`
	Totals       TenantTotals     `json:"totals"`
	Plan         *LicensePlan     `json:"plan,omitempty"`
	Warnings     []Warning        `json:"warnings,omitempty"`
}

type Tenant struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}
