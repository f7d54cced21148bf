package history

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/capacity-atlas/pkg/models/store"
	"github.com/de-tools/capacity-atlas/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func snapshotOn(workload string, date time.Time, bytesUsed int64) store.Snapshot {
	return store.Snapshot{
		Workload:    workload,
		ReportDate:  date,
		PeriodDays:  180,
		BytesUsed:   bytesUsed,
		EntityCount: 10,
	}
}

func TestSnapshotStore_Add(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	day1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success - add snapshots", func(t *testing.T) {
		err := f.store.Add(ctx, "fabrikam", []store.Snapshot{
			snapshotOn("mail", day1, 1000),
			snapshotOn("drive", day1, 2000),
		})
		require.NoError(t, err)

		var count int
		err = f.db.QueryRow(`SELECT COUNT(*) FROM usage_snapshots WHERE tenant = ?`, "fabrikam").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("success - empty snapshots", func(t *testing.T) {
		require.NoError(t, f.store.Add(ctx, "fabrikam", nil))
	})

	t.Run("success - same-day rerun replaces the row", func(t *testing.T) {
		require.NoError(t, f.store.Add(ctx, "fabrikam", []store.Snapshot{snapshotOn("mail", day1, 1500)}))

		var count int
		var bytesUsed int64
		err := f.db.QueryRow(
			`SELECT COUNT(*), MAX(bytes_used) FROM usage_snapshots WHERE tenant = ? AND workload = 'mail'`,
			"fabrikam",
		).Scan(&count, &bytesUsed)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, int64(1500), bytesUsed)
	})
}

func TestSnapshotStore_GetSeries(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Inserted newest first; reads must come back oldest first.
	require.NoError(t, f.store.Add(ctx, "fabrikam", []store.Snapshot{
		snapshotOn("mail", base.AddDate(0, 0, 20), 1200),
		snapshotOn("mail", base, 1000),
		snapshotOn("mail", base.AddDate(0, 0, 10), 1100),
		snapshotOn("drive", base, 9999),
	}))

	series, err := f.store.GetSeries(ctx, "fabrikam", "mail", base)
	require.NoError(t, err)

	require.Len(t, series, 3)
	assert.Equal(t, int64(1000), series[0].BytesUsed)
	assert.Equal(t, int64(1100), series[1].BytesUsed)
	assert.Equal(t, int64(1200), series[2].BytesUsed)
	assert.Equal(t, base, series[0].ReportDate.UTC())

	t.Run("window cutoff", func(t *testing.T) {
		series, err := f.store.GetSeries(ctx, "fabrikam", "mail", base.AddDate(0, 0, 5))
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, int64(1100), series[0].BytesUsed)
	})

	t.Run("unknown tenant yields an empty series", func(t *testing.T) {
		series, err := f.store.GetSeries(ctx, "contoso", "mail", base)
		require.NoError(t, err)
		assert.Empty(t, series)
	})
}

func TestSnapshotStore_Add_InsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)

	day1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	delPrep := mock.ExpectPrepare("DELETE FROM usage_snapshots")
	insPrep := mock.ExpectPrepare("INSERT INTO usage_snapshots")
	delPrep.ExpectExec().
		WithArgs("fabrikam", "mail", day1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	insPrep.ExpectExec().
		WithArgs("fabrikam", "mail", day1, 180, int64(1000), 10).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = s.Add(context.Background(), "fabrikam", []store.Snapshot{snapshotOn("mail", day1, 1000)})
	require.Error(t, err)
	assert.ErrorContains(t, err, "insert snapshot")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotStore_GetSeries_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT workload, report_date").
		WillReturnError(errors.New("table missing"))

	_, err = s.GetSeries(context.Background(), "fabrikam", "mail", time.Now())
	require.Error(t, err)
	assert.ErrorContains(t, err, "query snapshots")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotStore_GetSeries_ScanFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"workload", "report_date", "period_days", "bytes_used", "entity_count"}).
		AddRow("mail", "not-a-date", 180, int64(1000), 10)
	mock.ExpectQuery("SELECT workload, report_date").WillReturnRows(rows)

	_, err = s.GetSeries(context.Background(), "fabrikam", "mail", time.Now())
	require.Error(t, err)
	assert.ErrorContains(t, err, "scan snapshot")
}

func TestNewStore_RequiresDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}
