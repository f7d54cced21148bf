package usage

import (
	"context"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
)

// ArchiveStatCollector supplies per-mailbox archive sizes. Collection
// runs out-of-band against the mail service, one mailbox at a time, and
// owns its own throttling and reconnect policy; only successfully
// collected entries are handed to the accumulator.
type ArchiveStatCollector interface {
	CollectArchiveStats(ctx context.Context, mailboxIDs []string) ([]domain.ArchiveStat, error)
}

// AccumulateArchives sums per-mailbox archive sizes into the tenant-wide
// archive contribution. Pure summation: order-independent, empty input
// yields zeros.
func AccumulateArchives(stats []domain.ArchiveStat) domain.ArchiveUsage {
	var acc domain.ArchiveUsage
	for _, s := range stats {
		acc.TotalBytes += s.ArchiveBytes
		acc.TotalItems += s.ArchiveItems
		acc.Mailboxes++
	}
	acc.TotalGB = domain.RoundTo(domain.GBFromBytes(acc.TotalBytes), 3)
	return acc
}
