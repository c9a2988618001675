// Package ddl defines a small, backend-agnostic model for SQL DDL.
//
// The model does not assume any SQL dialect. Backend packages (e.g.,
// internal/storage/sqlite/ddl) render it: they quote identifiers, choose the
// surrogate-key syntax and treat ColumnDef.Default as raw SQL.
package ddl

import (
	"fmt"
	"strings"
)

// Check validates the structural rules every dialect builder relies on:
//
//   - t.FQN must be non-empty.
//   - There is at least one column.
//   - Each column has a non-empty Name and SQLType.
//   - Column names are unique.
//   - At most one column is AutoIncrement, and it is also the only
//     PrimaryKey column.
//
// Errors carry the given prefix (e.g. "sqlite ddl").
func Check(prefix string, t TableDef) error {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return fmt.Errorf("%s: table FQN must not be empty", prefix)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("%s: at least one column is required", prefix)
	}

	seen := make(map[string]struct{}, len(t.Columns))
	var auto, pks int
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("%s: column with empty name in table %s", prefix, fqn)
		}
		if strings.TrimSpace(c.SQLType) == "" {
			return fmt.Errorf("%s: column %s missing SQLType", prefix, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%s: duplicate column %s in table %s", prefix, name, fqn)
		}
		seen[name] = struct{}{}
		if c.AutoIncrement {
			auto++
		}
		if c.PrimaryKey {
			pks++
		}
	}
	if auto > 1 {
		return fmt.Errorf("%s: table %s has %d auto-increment columns, want at most 1", prefix, fqn, auto)
	}
	if auto == 1 && pks != 1 {
		return fmt.Errorf("%s: auto-increment column in table %s must be the sole primary key", prefix, fqn)
	}
	for _, c := range t.Columns {
		if c.AutoIncrement && !c.PrimaryKey {
			return fmt.Errorf("%s: auto-increment column %s must be the primary key", prefix, c.Name)
		}
	}
	return nil
}
