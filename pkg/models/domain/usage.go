package domain

// RecipientType classifies the owner of a usage record within a workload.
type RecipientType string

const (
	RecipientUser   RecipientType = "user"
	RecipientShared RecipientType = "shared"
	RecipientSite   RecipientType = "site"
)

// UsageRecord is one per-entity snapshot row from a downloaded usage
// report. Records are immutable inputs; aggregation never mutates them.
type UsageRecord struct {
	EntityID      string
	BytesUsed     int64
	ItemCount     int64
	Deleted       bool
	RecipientType RecipientType
	HasArchive    bool // mail only
}

// WorkloadUsage is the aggregation result for a single workload.
// The user/shared split is only populated for mail; license counting
// treats shared mailboxes specially.
type WorkloadUsage struct {
	Workload       Workload
	EntityCount    int
	TotalBytes     int64
	TotalItems     int64
	BytesPerEntity float64 // rounded to 2 decimal places

	UserCount   int
	SharedCount int
	UserBytes   int64
	SharedBytes int64
}

// ArchiveStat is the collected size of one mailbox's in-place archive.
// Collection happens out-of-band, one mailbox at a time; only
// successfully collected entries reach the accumulator.
type ArchiveStat struct {
	MailboxID    string
	ArchiveBytes int64
	ArchiveItems int64
}

// ArchiveUsage is the tenant-wide archive contribution, folded into the
// mail workload's totals before projection.
type ArchiveUsage struct {
	TotalBytes int64
	TotalItems int64
	Mailboxes  int
	TotalGB    float64 // rounded to 3 decimal places
}
