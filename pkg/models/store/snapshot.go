package store

import "time"

// Snapshot is one persisted usage_snapshots row: a workload's total on one
// report day. The owning tenant is passed alongside, not stored on the row.
type Snapshot struct {
	Workload    string
	ReportDate  time.Time
	PeriodDays  int
	BytesUsed   int64
	EntityCount int64
}
