package storage

import (
	"context"
	"fmt"

	"github.com/roydale/case-study-01-cyclistic/internal/ddl"
	"github.com/roydale/case-study-01-cyclistic/internal/frame"
)

// DefaultBatchSize is used by WriteTable when batchSize <= 0.
const DefaultBatchSize = 5000

// WriteResult reports what WriteTable did.
type WriteResult struct {
	Table   string
	Rows    int64
	Batches int
}

// ReplaceTable drops table if it exists and creates it empty: an
// auto-increment surrogate key followed by columns, typed by the dialect.
func ReplaceTable(ctx context.Context, repo Repository, table string, columns []string) error {
	d := repo.Dialect()
	if err := repo.Exec(ctx, d.DropTableSQL(table)); err != nil {
		return fmt.Errorf("storage: drop %s: %w", table, err)
	}
	stmt, err := d.CreateTableSQL(ddl.ForCanonical(table, columns, d.MapType))
	if err != nil {
		return fmt.Errorf("storage: build create %s: %w", table, err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("storage: create %s: %w", table, err)
	}
	return nil
}

// WriteTable replaces table with the rows of f: the previous table (if any)
// is dropped, a fresh one is created from columns, and the rows are appended
// in order in batches of batchSize. The surrogate key is assigned by the
// database. An empty frame leaves an empty table.
//
// f's rows must be in canonical column order; columns is normally
// schema.Columns.
func WriteTable(
	ctx context.Context,
	repo Repository,
	table string,
	f *frame.Frame,
	columns []string,
	batchSize int,
) (WriteResult, error) {
	res := WriteResult{Table: table}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if err := ReplaceTable(ctx, repo, table, columns); err != nil {
		return res, err
	}

	rows := make([][]any, f.Len())
	for i := range rows {
		rows[i] = f.Rows[i].Values()
		if len(rows[i]) != len(columns) {
			return res, fmt.Errorf("storage: %s: row has %d cells, want %d", table, len(rows[i]), len(columns))
		}
	}

	n, err := AppendBatches(ctx, columns, rows, batchSize,
		func(ctx context.Context, cols []string, batch [][]any) (int64, error) {
			res.Batches++
			return repo.CopyFrom(ctx, table, cols, batch)
		})
	res.Rows = n
	if err != nil {
		return res, fmt.Errorf("storage: append %s: %w", table, err)
	}
	return res, nil
}
