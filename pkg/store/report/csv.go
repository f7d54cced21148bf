package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Column headers shared by the report exports. Cells are addressed by
// header name, never by position; exports may add or reorder columns.
const (
	colUserPrincipal  = "User Principal Name"
	colOwnerPrincipal = "Owner Principal Name"
	colSiteURL        = "Site URL"
	colIsDeleted      = "Is Deleted"
	colStorageUsed    = "Storage Used (Byte)"
	colItemCount      = "Item Count"
	colFileCount      = "File Count"
	colRecipientType  = "Recipient Type"
	colHasArchive     = "Has Archive"
	colReportDate     = "Report Date"
	colReportPeriod   = "Report Period"
	colWorkload       = "Workload"
	colArchiveSize    = "Archive Size (Byte)"
	colArchiveItems   = "Archive Item Count"
)

const dateLayout = "2006-01-02"

type usageColumns struct {
	id        string
	items     string
	recipient string               // empty when the workload has no recipient split
	archive   string               // empty when the workload has no archive flag
	fallback  domain.RecipientType // recipient assigned when no split exists
}

func usageColumnsFor(workload domain.Workload) usageColumns {
	switch workload {
	case domain.WorkloadMail:
		return usageColumns{
			id:        colUserPrincipal,
			items:     colItemCount,
			recipient: colRecipientType,
			archive:   colHasArchive,
			fallback:  domain.RecipientUser,
		}
	case domain.WorkloadDrive:
		return usageColumns{id: colOwnerPrincipal, items: colFileCount, fallback: domain.RecipientUser}
	default:
		return usageColumns{id: colSiteURL, items: colFileCount, fallback: domain.RecipientSite}
	}
}

// table gives header-name access over one CSV stream.
type table struct {
	index map[string]int
	rows  *csv.Reader
}

func newTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	return &table{index: index, rows: cr}, nil
}

func (t *table) require(columns ...string) error {
	for _, c := range columns {
		if c == "" {
			continue
		}
		if _, ok := t.index[c]; !ok {
			return fmt.Errorf("report is missing the %q column", c)
		}
	}
	return nil
}

func (t *table) cell(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func decodeUsage(ctx context.Context, workload domain.Workload, r io.Reader) ([]domain.UsageRecord, int, error) {
	logger := zerolog.Ctx(ctx)
	cols := usageColumnsFor(workload)

	t, err := newTable(r)
	if err != nil {
		return nil, 0, err
	}
	if err := t.require(cols.id, colIsDeleted, colStorageUsed); err != nil {
		return nil, 0, err
	}

	var records []domain.UsageRecord
	var skipped int
	for {
		row, err := t.rows.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			logger.Warn().Err(err).
				Str("workload", workload.String()).
				Msg("skipping unreadable report row")
			continue
		}

		record, err := usageRecordFrom(t, row, cols)
		if err != nil {
			skipped++
			logger.Warn().Err(err).
				Str("workload", workload.String()).
				Str("entity", t.cell(row, cols.id)).
				Msg("skipping malformed report row")
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

func usageRecordFrom(t *table, row []string, cols usageColumns) (domain.UsageRecord, error) {
	id := t.cell(row, cols.id)
	if id == "" {
		return domain.UsageRecord{}, fmt.Errorf("empty %s", cols.id)
	}

	bytesUsed, err := parseBytes(t.cell(row, colStorageUsed))
	if err != nil {
		return domain.UsageRecord{}, err
	}
	deleted, err := parseFlag(t.cell(row, colIsDeleted))
	if err != nil {
		return domain.UsageRecord{}, err
	}
	items, err := parseCount(t.cell(row, cols.items))
	if err != nil {
		return domain.UsageRecord{}, err
	}

	record := domain.UsageRecord{
		EntityID:      id,
		BytesUsed:     bytesUsed,
		ItemCount:     items,
		Deleted:       deleted,
		RecipientType: cols.fallback,
	}

	if cols.recipient != "" {
		switch strings.ToLower(t.cell(row, cols.recipient)) {
		case "", "user", "usermailbox":
			record.RecipientType = domain.RecipientUser
		case "shared", "sharedmailbox":
			record.RecipientType = domain.RecipientShared
		default:
			return domain.UsageRecord{}, fmt.Errorf("unknown recipient type %q", t.cell(row, cols.recipient))
		}
	}
	if cols.archive != "" {
		record.HasArchive, err = parseFlag(t.cell(row, cols.archive))
		if err != nil {
			return domain.UsageRecord{}, err
		}
	}
	return record, nil
}

func decodeHistory(ctx context.Context, workload domain.Workload, r io.Reader) ([]domain.HistoricalSample, error) {
	logger := zerolog.Ctx(ctx)

	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	if err := t.require(colReportDate, colReportPeriod, colStorageUsed, colWorkload); err != nil {
		return nil, err
	}

	var samples []domain.HistoricalSample
	for {
		row, err := t.rows.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn().Err(err).Msg("skipping unreadable history row")
			continue
		}

		tag := t.cell(row, colWorkload)
		if !strings.EqualFold(tag, workload.String()) {
			continue
		}

		date, err := time.Parse(dateLayout, t.cell(row, colReportDate))
		if err != nil {
			logger.Warn().Err(err).Msg("skipping history row with a bad report date")
			continue
		}
		days, err := parseCount(t.cell(row, colReportPeriod))
		if err != nil {
			logger.Warn().Err(err).Msg("skipping history row with a bad report period")
			continue
		}
		bytesUsed, err := parseBytes(t.cell(row, colStorageUsed))
		if err != nil {
			logger.Warn().Err(err).Msg("skipping history row with a bad byte count")
			continue
		}

		samples = append(samples, domain.HistoricalSample{
			ReportDate:  date,
			PeriodDays:  int(days),
			BytesUsed:   bytesUsed,
			WorkloadTag: tag,
		})
	}
	return samples, nil
}

func decodeArchive(ctx context.Context, r io.Reader, wanted map[string]struct{}) ([]domain.ArchiveStat, error) {
	logger := zerolog.Ctx(ctx)

	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	if err := t.require(colUserPrincipal, colArchiveSize); err != nil {
		return nil, err
	}

	var stats []domain.ArchiveStat
	for {
		row, err := t.rows.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn().Err(err).Msg("skipping unreadable archive row")
			continue
		}

		id := t.cell(row, colUserPrincipal)
		if _, ok := wanted[id]; !ok {
			continue
		}

		size, err := parseBytes(t.cell(row, colArchiveSize))
		if err != nil {
			logger.Warn().Err(err).Str("mailbox", id).Msg("skipping archive row with a bad size")
			continue
		}
		items, err := parseCount(t.cell(row, colArchiveItems))
		if err != nil {
			logger.Warn().Err(err).Str("mailbox", id).Msg("skipping archive row with a bad item count")
			continue
		}

		stats = append(stats, domain.ArchiveStat{MailboxID: id, ArchiveBytes: size, ArchiveItems: items})
	}
	return stats, nil
}

func parseBytes(v string) (int64, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad byte count %q", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative byte count %d", n)
	}
	return n, nil
}

func parseCount(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad count %q", v)
	}
	return n, nil
}

func parseFlag(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return false, fmt.Errorf("bad boolean %q", v)
	}
	return b, nil
}
