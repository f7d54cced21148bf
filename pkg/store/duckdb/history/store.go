package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/capacity-atlas/pkg/models/store"
)

// Store keeps one usage snapshot per tenant, workload and report day.
// Every forecast run adds the day's snapshot, so tenants without a
// downloadable storage history build up their own series across runs.
type Store interface {
	Add(ctx context.Context, tenant string, snapshots []store.Snapshot) error
	GetSeries(ctx context.Context, tenant string, workload string, since time.Time) ([]store.Snapshot, error)
}

type snapshotStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &snapshotStore{db: db}, nil
}

// Add writes the snapshots inside one transaction. A rerun on the same
// report day replaces that day's rows instead of failing on the primary
// key.
func (s *snapshotStore) Add(ctx context.Context, tenant string, snapshots []store.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	del, err := tx.PrepareContext(ctx, `
		DELETE FROM usage_snapshots
		WHERE tenant = ? AND workload = ? AND report_date = ?
	`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	defer del.Close()

	ins, err := tx.PrepareContext(ctx, `
		INSERT INTO usage_snapshots (
			tenant, workload, report_date, period_days, bytes_used, entity_count
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()

	for _, snap := range snapshots {
		reportDay := day(snap.ReportDate)
		if _, err := del.ExecContext(ctx, tenant, snap.Workload, reportDay); err != nil {
			return fmt.Errorf("replace snapshot: %w", err)
		}
		if _, err := ins.ExecContext(ctx,
			tenant,
			snap.Workload,
			reportDay,
			snap.PeriodDays,
			snap.BytesUsed,
			snap.EntityCount,
		); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
	}

	return tx.Commit()
}

// GetSeries returns the tenant's snapshots for one workload from the
// given day onward, oldest first.
func (s *snapshotStore) GetSeries(ctx context.Context, tenant string, workload string, since time.Time) ([]store.Snapshot, error) {
	query := `
		SELECT workload, report_date, period_days, bytes_used, entity_count
		FROM usage_snapshots
		WHERE tenant = ? AND workload = ? AND report_date >= ?
		ORDER BY report_date ASC
	`
	rows, err := s.db.QueryContext(ctx, query, tenant, workload, day(since))
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]store.Snapshot, 0)
	for rows.Next() {
		var snap store.Snapshot
		if err := rows.Scan(&snap.Workload, &snap.ReportDate, &snap.PeriodDays, &snap.BytesUsed, &snap.EntityCount); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// day normalizes a timestamp to its UTC calendar day, matching the DATE
// column granularity.
func day(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
