package adapters

import (
	"github.com/de-tools/capacity-atlas/pkg/models/api"
	"github.com/de-tools/capacity-atlas/pkg/models/domain"
)

func MapWorkloadTotalsDomainToApi(t domain.WorkloadTotals) api.WorkloadTotals {
	return api.WorkloadTotals{
		Workload:        t.Workload.String(),
		EntityCount:     t.EntityCount,
		TotalBytes:      t.TotalBytes,
		TotalItems:      t.TotalItems,
		BytesPerEntity:  t.BytesPerEntity,
		GrowthPercent:   domain.RoundTo(t.GrowthRate*100, 2),
		GrowthBasis:     string(t.GrowthBasis),
		OneYearBytes:    t.OneYearBytes,
		ThreeYearBytes:  t.ThreeYearBytes,
		CustomYearBytes: t.CustomYearBytes,
		UserCount:       t.UserCount,
		SharedCount:     t.SharedCount,
	}
}

func MapArchiveUsageDomainToApi(a domain.ArchiveUsage) api.ArchiveUsage {
	return api.ArchiveUsage{
		TotalBytes: a.TotalBytes,
		TotalItems: a.TotalItems,
		Mailboxes:  a.Mailboxes,
		TotalGB:    a.TotalGB,
	}
}

func MapTenantTotalsDomainToApi(t domain.TenantTotals) api.TenantTotals {
	return api.TenantTotals{
		RequiredUsers:   t.RequiredUsers,
		TotalBytes:      t.TotalBytes,
		TotalItems:      t.TotalItems,
		OneYearBytes:    t.OneYearBytes,
		ThreeYearBytes:  t.ThreeYearBytes,
		CustomYearBytes: t.CustomYearBytes,
	}
}

func MapTierAllocationDomainToApi(a domain.TierAllocation) api.TierAllocation {
	return api.TierAllocation{
		Tier:       a.Tier.Code,
		CapacityGB: a.Tier.CapacityGB,
		Unlimited:  a.Tier.Unlimited,
		Packs:      a.Packs,
		Users:      a.Users,
	}
}

func MapLicensePlanDomainToApi(p domain.LicensePlan) api.LicensePlan {
	res := api.LicensePlan{
		Tiers:           make([]api.TierAllocation, 0, len(p.Tiers)),
		TotalUsers:      p.TotalUsers,
		TotalCapacityGB: p.TotalCapacityGB,
		Unlimited:       p.Unlimited,
		Unavailable:     p.Unavailable,
	}
	for _, a := range p.Tiers {
		res.Tiers = append(res.Tiers, MapTierAllocationDomainToApi(a))
	}
	return res
}

func MapWarningDomainToApi(w domain.Warning) api.Warning {
	return api.Warning{
		Code:     string(w.Code),
		Workload: w.Workload.String(),
		Message:  w.Message,
	}
}

func MapSizingReportDomainToApi(r *domain.SizingReport) api.SizingReport {
	res := api.SizingReport{
		RunID:        r.RunID,
		Tenant:       r.Tenant,
		GeneratedAt:  r.GeneratedAt,
		WindowDays:   r.WindowDays,
		HorizonYears: r.HorizonYears,
		Method:       string(r.Method),
		Workloads:    make([]api.WorkloadTotals, 0, len(r.Workloads)),
		Archive:      MapArchiveUsageDomainToApi(r.Archive),
		Totals:       MapTenantTotalsDomainToApi(r.Totals),
	}

	// Report order is fixed regardless of map iteration order.
	for _, w := range domain.Workloads() {
		if t, ok := r.Workloads[w]; ok {
			res.Workloads = append(res.Workloads, MapWorkloadTotalsDomainToApi(*t))
		}
	}

	if r.Plan != nil {
		plan := MapLicensePlanDomainToApi(*r.Plan)
		res.Plan = &plan
	}
	for _, warning := range r.Warnings {
		res.Warnings = append(res.Warnings, MapWarningDomainToApi(warning))
	}
	return res
}

func MapTenantProfileDomainToApi(p domain.TenantProfile) api.Tenant {
	return api.Tenant{
		Name:   p.Name,
		Source: string(p.Source),
	}
}
