package domain

import "time"

// HistoricalSample is one (workload, date) storage measurement from a
// downloaded historical report. The samples for one workload form a time
// series spanning PeriodDays of history; earliest and latest samples
// bound the observed window.
type HistoricalSample struct {
	ReportDate  time.Time
	PeriodDays  int // reporting window: 7, 30, 90 or 180
	BytesUsed   int64
	WorkloadTag string // disambiguates mixed-workload series
}
