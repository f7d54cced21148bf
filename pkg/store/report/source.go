package report

import (
	"context"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
)

// Report file names as the export pipeline writes them: one usage detail
// file per workload, one mixed-workload storage history file, one archive
// detail file.
const (
	MailUsageFile  = "mailbox-usage-detail.csv"
	DriveUsageFile = "drive-usage-detail.csv"
	SitesUsageFile = "site-usage-detail.csv"
	HistoryFile    = "storage-usage.csv"
	ArchiveFile    = "mailbox-archive-detail.csv"
)

// Source provides one tenant's downloaded usage exports. UsageDetail also
// returns the number of malformed rows it skipped so callers can surface
// the loss. History returns nil when the tenant has no storage history
// export. Implementations double as the forecast's archive stat collector.
type Source interface {
	UsageDetail(ctx context.Context, workload domain.Workload) ([]domain.UsageRecord, int, error)
	History(ctx context.Context, workload domain.Workload) ([]domain.HistoricalSample, error)
	CollectArchiveStats(ctx context.Context, mailboxIDs []string) ([]domain.ArchiveStat, error)
}

// UsageFile maps a workload to its detail report file name.
func UsageFile(workload domain.Workload) string {
	switch workload {
	case domain.WorkloadMail:
		return MailUsageFile
	case domain.WorkloadDrive:
		return DriveUsageFile
	default:
		return SitesUsageFile
	}
}
