package ddl

import (
	"fmt"
	"sort"
	"strings"

	gddl "github.com/roydale/case-study-01-cyclistic/internal/ddl"
)

// BuildCreateTableSQL builds a deterministic Postgres CREATE TABLE statement
// for the given table definition.
//
// Rules:
//   - The definition must pass ddl.Check.
//   - An AutoIncrement column is rendered as GENERATED ALWAYS AS IDENTITY.
//   - Primary-key columns are always rendered as NOT NULL, even if Nullable=true.
//   - PRIMARY KEY is rendered as a separate constraint clause using quoted
//     column names, sorted alphabetically for determinism.
//   - Identifiers are double-quoted; embedded double-quotes are escaped.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	if err := gddl.Check("postgres ddl", t); err != nil {
		return "", err
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)

		// "colname" TYPE [GENERATED ALWAYS AS IDENTITY] [NOT NULL] [DEFAULT expr]
		var sb strings.Builder
		sb.WriteString(quoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(strings.TrimSpace(c.SQLType))

		if c.AutoIncrement {
			sb.WriteString(" GENERATED ALWAYS AS IDENTITY")
		}
		if !c.Nullable || c.PrimaryKey {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" && !c.AutoIncrement {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}

		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quoteIdent(name))
		}
	}

	if len(pks) > 0 {
		sort.Strings(pks)
		cols = append(cols,
			fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")),
		)
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		QuoteFQN(t.FQN),
		strings.Join(cols, ",\n  "),
	), nil
}

// DropTableSQL returns DROP TABLE IF EXISTS for table.
func DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + QuoteFQN(table) + ";"
}

// quoteIdent quotes a single identifier segment for Postgres, e.g.:
//
//	quoteIdent(`ref_id`)     => `"ref_id"`
//	quoteIdent(`weird"name`) => `"weird""name"`
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteFQN quotes a possibly schema-qualified name like "public.trips" to
// `"public"."trips"`. Empty segments are ignored.
func QuoteFQN(f string) string {
	parts := strings.Split(f, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}
