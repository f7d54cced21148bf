package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirSource_UsageDetail(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, DriveUsageFile,
		"Owner Principal Name,Is Deleted,Storage Used (Byte),File Count\n"+
			"ada@fabrikam.example,False,100,5\n")

	records, skipped, err := NewDirSource(dir).UsageDetail(context.Background(), domain.WorkloadDrive)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, int64(100), records[0].BytesUsed)
}

func TestDirSource_UsageDetailMissingFile(t *testing.T) {
	_, _, err := NewDirSource(t.TempDir()).UsageDetail(context.Background(), domain.WorkloadMail)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to open usage report")
}

func TestDirSource_History(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, HistoryFile,
		"Report Date,Report Period,Storage Used (Byte),Workload\n"+
			"2026-05-01,90,1000,sites\n"+
			"2026-05-02,90,1100,sites\n")

	samples, err := NewDirSource(dir).History(context.Background(), domain.WorkloadSites)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 90, samples[0].PeriodDays)
}

func TestDirSource_HistoryMissingFileIsNotAnError(t *testing.T) {
	samples, err := NewDirSource(t.TempDir()).History(context.Background(), domain.WorkloadMail)
	require.NoError(t, err)
	assert.Nil(t, samples)
}

func TestDirSource_CollectArchiveStats(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, ArchiveFile,
		"User Principal Name,Archive Size (Byte),Archive Item Count\n"+
			"ada@fabrikam.example,1000,10\n"+
			"ops@fabrikam.example,2000,20\n")

	source := NewDirSource(dir)

	stats, err := source.CollectArchiveStats(context.Background(), []string{"ada@fabrikam.example"})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1000), stats[0].ArchiveBytes)

	t.Run("no mailboxes requested, no file touched", func(t *testing.T) {
		stats, err := NewDirSource(t.TempDir()).CollectArchiveStats(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, stats)
	})

	t.Run("missing file is an error when stats were requested", func(t *testing.T) {
		_, err := NewDirSource(t.TempDir()).CollectArchiveStats(context.Background(), []string{"ada@fabrikam.example"})
		assert.ErrorContains(t, err, "failed to open archive report")
	})
}
