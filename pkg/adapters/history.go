package adapters

import (
	"time"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/de-tools/capacity-atlas/pkg/models/store"
)

// MapWorkloadTotalsToStoreSnapshot captures a run's aggregated workload
// state as one history row.
func MapWorkloadTotalsToStoreSnapshot(t domain.WorkloadTotals, reportDate time.Time, periodDays int) store.Snapshot {
	return store.Snapshot{
		Workload:    t.Workload.String(),
		ReportDate:  reportDate,
		PeriodDays:  periodDays,
		BytesUsed:   t.TotalBytes,
		EntityCount: int64(t.EntityCount),
	}
}

func MapStoreSnapshotToDomainSample(s store.Snapshot) domain.HistoricalSample {
	return domain.HistoricalSample{
		ReportDate:  s.ReportDate,
		PeriodDays:  s.PeriodDays,
		BytesUsed:   s.BytesUsed,
		WorkloadTag: s.Workload,
	}
}

func MapStoreSnapshotsToDomainSeries(snapshots []store.Snapshot) []domain.HistoricalSample {
	series := make([]domain.HistoricalSample, 0, len(snapshots))
	for _, s := range snapshots {
		series = append(series, MapStoreSnapshotToDomainSample(s))
	}
	return series
}
