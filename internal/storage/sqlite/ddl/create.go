// Package ddl renders SQLite DDL from the generic ddl.TableDef model.
//
// The builder here:
//   - Uses double-quoted identifiers: "table", "col".
//   - Renders an AutoIncrement column inline as
//     "id" INTEGER PRIMARY KEY AUTOINCREMENT, which is the only form SQLite
//     accepts for AUTOINCREMENT.
//   - Treats ColumnDef.Default as raw SQL.
//   - Renders any other PRIMARY KEY as a separate table constraint.
package ddl

import (
	"fmt"
	"strings"

	gddl "github.com/roydale/case-study-01-cyclistic/internal/ddl"
)

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement for the given
// table definition. The statement has the form:
//
//	CREATE TABLE "table" (
//	  "id" INTEGER PRIMARY KEY AUTOINCREMENT,
//	  "col1" TYPE [NOT NULL] [DEFAULT expr],
//	  "col2" TYPE
//	);
//
// TableDef.FQN is interpreted as a table name; if it contains dots (e.g.,
// "main.events"), each segment is individually quoted.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	if err := gddl.Check("sqlite ddl", t); err != nil {
		return "", err
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)

		var sb strings.Builder
		sb.WriteString(quoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(strings.TrimSpace(c.SQLType))

		if c.AutoIncrement {
			sb.WriteString(" PRIMARY KEY AUTOINCREMENT")
			cols = append(cols, sb.String())
			continue
		}

		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quoteIdent(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols,
			fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")),
		)
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		quoteFQN(t.FQN),
		strings.Join(cols, ",\n  "),
	)
	return stmt, nil
}

// DropTableSQL returns DROP TABLE IF EXISTS for table.
func DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + quoteFQN(table) + ";"
}

// QuoteFQN quotes each dot-separated segment of a table name.
func QuoteFQN(fqn string) string { return quoteFQN(fqn) }

// QuoteIdent quotes a single identifier.
func QuoteIdent(id string) string { return quoteIdent(id) }

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}
