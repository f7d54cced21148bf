package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const SnapshotTableSchema = `
	CREATE TABLE IF NOT EXISTS usage_snapshots (
		tenant VARCHAR NOT NULL,
		workload VARCHAR NOT NULL,
		report_date DATE NOT NULL,
		period_days INTEGER NOT NULL,
		bytes_used BIGINT NOT NULL,
		entity_count BIGINT NOT NULL,
		PRIMARY KEY (tenant, workload, report_date)
	);
`

var bootQueries = []string{
	SnapshotTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			if _, err := exec.ExecContext(context.Background(), query, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
