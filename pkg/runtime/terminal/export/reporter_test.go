package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.SizingReport {
	return &domain.SizingReport{
		RunID:        "run-42",
		Tenant:       "fabrikam",
		GeneratedAt:  time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
		WindowDays:   180,
		HorizonYears: 5,
		Method:       domain.GrowthEndpoints,
		Workloads: map[domain.Workload]*domain.WorkloadTotals{
			domain.WorkloadMail: {
				Workload:        domain.WorkloadMail,
				EntityCount:     95,
				TotalBytes:      100 * domain.BytesPerGB,
				GrowthRate:      0.08,
				GrowthBasis:     domain.GrowthAssumed,
				OneYearBytes:    108 * domain.BytesPerGB,
				ThreeYearBytes:  124 * domain.BytesPerGB,
				CustomYearBytes: 140 * domain.BytesPerGB,
			},
			domain.WorkloadDrive: {
				Workload:    domain.WorkloadDrive,
				EntityCount: 80,
				TotalBytes:  50 * domain.BytesPerGB,
				GrowthBasis: domain.GrowthUnknown,
			},
		},
		Archive: domain.ArchiveUsage{Mailboxes: 12, TotalBytes: 1611847303, TotalGB: 1.501},
		Totals: domain.TenantTotals{
			RequiredUsers: 95,
			TotalBytes:    150 * domain.BytesPerGB,
			OneYearBytes:  158 * domain.BytesPerGB,
		},
	}
}

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	report := sampleReport()
	report.Plan = &domain.LicensePlan{
		Tiers: []domain.TierAllocation{
			{Tier: domain.LicenseTier{Code: "5gb", CapacityGB: 5}, Packs: 0, Users: 0},
			{Tier: domain.LicenseTier{Code: "50gb", CapacityGB: 50}, Packs: 3, Users: 30},
		},
		TotalUsers:      30,
		TotalCapacityGB: 1500,
	}
	report.Warnings = []domain.Warning{
		{Code: domain.WarnRowsSkipped, Workload: domain.WorkloadMail, Message: "3 malformed report rows skipped"},
	}

	require.NoError(t, reporter.Handle(report))
	out := buf.String()

	assert.Contains(t, out, "Capacity forecast for fabrikam (180-day window, endpoints growth)")
	assert.Contains(t, out, "Run run-42 generated 2026-08-20 09:30 UTC")

	// Mail always renders before drive.
	assert.Less(t, strings.Index(out, "| mail"), strings.Index(out, "| drive"))
	assert.Contains(t, out, "8.00% assumed")
	assert.Contains(t, out, "0.00% none")
	assert.Contains(t, out, "108 GiB")
	assert.Contains(t, out, "5 Years")

	assert.Contains(t, out, "In-place archives: 12 mailboxes")
	assert.Contains(t, out, "Required users: 95")
	assert.Contains(t, out, "50gb: 3 packs (30 seats)")
	assert.NotContains(t, out, "5gb: 0 packs")
	assert.Contains(t, out, "Total: 1500 GB across 30 seats")
	assert.Contains(t, out, "[mail] 3 malformed report rows skipped")
}

func TestReporter_Handle_UnlimitedPlan(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	report := sampleReport()
	report.Plan = &domain.LicensePlan{
		Tiers:      []domain.TierAllocation{{Tier: domain.LicenseTier{Code: "unlimited", Unlimited: true}, Packs: 10, Users: 100}},
		TotalUsers: 100,
		Unlimited:  true,
	}

	require.NoError(t, reporter.Handle(report))
	assert.Contains(t, buf.String(), "Unlimited tier: 10 packs (100 seats)")
}

func TestReporter_Handle_UnavailablePlan(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	report := sampleReport()
	report.Plan = &domain.LicensePlan{Unavailable: true}

	require.NoError(t, reporter.Handle(report))
	assert.Contains(t, buf.String(), "Pack recommendation unavailable")
}

func TestReporter_Handle_NoPlan(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	require.NoError(t, reporter.Handle(sampleReport()))
	out := buf.String()
	assert.NotContains(t, out, "License Plan")
	assert.NotContains(t, out, "Warnings")
}

func TestReporter_Handle_ShrinkingWorkloadClampsAtZero(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	report := sampleReport()
	report.Workloads[domain.WorkloadMail].CustomYearBytes = -5 * domain.BytesPerGB

	require.NoError(t, reporter.Handle(report))
	assert.Contains(t, buf.String(), "| 0 B")
}
