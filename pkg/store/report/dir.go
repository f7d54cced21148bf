package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
)

// DirSource reads a tenant's report exports from a local directory, one
// CSV file per report.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) UsageDetail(ctx context.Context, workload domain.Workload) ([]domain.UsageRecord, int, error) {
	f, err := os.Open(filepath.Join(s.dir, UsageFile(workload)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open usage report: %w", err)
	}
	defer f.Close()

	return decodeUsage(ctx, workload, f)
}

// History returns nil when the tenant has no storage history export;
// callers fall back to the snapshot store or an assumed growth rate.
func (s *DirSource) History(ctx context.Context, workload domain.Workload) ([]domain.HistoricalSample, error) {
	f, err := os.Open(filepath.Join(s.dir, HistoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open storage history report: %w", err)
	}
	defer f.Close()

	return decodeHistory(ctx, workload, f)
}

func (s *DirSource) CollectArchiveStats(ctx context.Context, mailboxIDs []string) ([]domain.ArchiveStat, error) {
	if len(mailboxIDs) == 0 {
		return nil, nil
	}

	f, err := os.Open(filepath.Join(s.dir, ArchiveFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive report: %w", err)
	}
	defer f.Close()

	return decodeArchive(ctx, f, toSet(mailboxIDs))
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
