package ddl

// ColumnDef describes a single column in a table definition. It uses simple,
// database-agnostic fields; dialect builders decide how to render them.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, REAL, BIGINT)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - AutoIncrement: the column is a database-assigned surrogate key
//   - Default: raw default expression (e.g., 'anon', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name          string
	SQLType       string
	Nullable      bool
	PrimaryKey    bool
	AutoIncrement bool
	Default       string
}

// TableDef holds the table name (FQN) and an ordered list of columns. The FQN
// may be dotted ("schema.table"); renderers quote each segment.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the column names in order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
