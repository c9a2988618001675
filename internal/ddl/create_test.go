package ddl

import (
	"strings"
	"testing"

	"github.com/roydale/case-study-01-cyclistic/internal/schema"
)

// TestCheck verifies the structural rules shared by the dialect builders.
func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		errContains string
	}{
		{
			name: "valid",
			def: TableDef{FQN: "t", Columns: []ColumnDef{
				{Name: "id", SQLType: "INTEGER", PrimaryKey: true, AutoIncrement: true},
				{Name: "a", SQLType: "TEXT", Nullable: true},
			}},
		},
		{
			name:        "empty FQN",
			def:         TableDef{FQN: " ", Columns: []ColumnDef{{Name: "id", SQLType: "INT"}}},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns",
			def:         TableDef{FQN: "t"},
			errContains: "at least one column is required",
		},
		{
			name:        "empty column name",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "", SQLType: "INT"}}},
			errContains: "column with empty name",
		},
		{
			name:        "missing type",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id"}}},
			errContains: "missing SQLType",
		},
		{
			name: "duplicate column",
			def: TableDef{FQN: "t", Columns: []ColumnDef{
				{Name: "a", SQLType: "TEXT"}, {Name: "a", SQLType: "TEXT"},
			}},
			errContains: "duplicate column a",
		},
		{
			name: "two auto-increment columns",
			def: TableDef{FQN: "t", Columns: []ColumnDef{
				{Name: "a", SQLType: "INTEGER", PrimaryKey: true, AutoIncrement: true},
				{Name: "b", SQLType: "INTEGER", PrimaryKey: true, AutoIncrement: true},
			}},
			errContains: "auto-increment columns",
		},
		{
			name: "auto-increment not primary key",
			def: TableDef{FQN: "t", Columns: []ColumnDef{
				{Name: "a", SQLType: "INTEGER", AutoIncrement: true},
				{Name: "b", SQLType: "INTEGER", PrimaryKey: true},
			}},
			errContains: "must be the primary key",
		},
		{
			name: "auto-increment in composite key",
			def: TableDef{FQN: "t", Columns: []ColumnDef{
				{Name: "a", SQLType: "INTEGER", PrimaryKey: true, AutoIncrement: true},
				{Name: "b", SQLType: "INTEGER", PrimaryKey: true},
			}},
			errContains: "sole primary key",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Check("test ddl", tt.def)
			if tt.errContains == "" {
				if err != nil {
					t.Fatalf("Check() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Check() error = nil, want error containing %q", tt.errContains)
			}
			if !strings.Contains(err.Error(), tt.errContains) || !strings.HasPrefix(err.Error(), "test ddl: ") {
				t.Fatalf("Check() error = %q, want prefix %q and substring %q", err, "test ddl: ", tt.errContains)
			}
		})
	}
}

func TestForCanonical(t *testing.T) {
	t.Parallel()

	mapType := func(k schema.Kind) string { return "X" + k.String() }
	def := ForCanonical("py_stg_2019_Q1", schema.Columns, mapType)

	if def.FQN != "py_stg_2019_Q1" {
		t.Fatalf("FQN = %q", def.FQN)
	}
	if got, want := len(def.Columns), len(schema.Columns)+1; got != want {
		t.Fatalf("len(Columns) = %d, want %d", got, want)
	}
	id := def.Columns[0]
	if id.Name != IDColumn || !id.PrimaryKey || !id.AutoIncrement || id.Nullable || id.SQLType != "XINTEGER" {
		t.Fatalf("id column = %+v", id)
	}
	for i, c := range def.Columns[1:] {
		if c.Name != schema.Columns[i] {
			t.Fatalf("Columns[%d].Name = %q, want %q", i+1, c.Name, schema.Columns[i])
		}
		if want := "X" + schema.Classify(c.Name).String(); c.SQLType != want {
			t.Errorf("%s SQLType = %q, want %q", c.Name, c.SQLType, want)
		}
		if !c.Nullable || c.PrimaryKey || c.AutoIncrement {
			t.Errorf("%s flags = %+v, want plain nullable column", c.Name, c)
		}
	}
	if err := Check("test ddl", def); err != nil {
		t.Fatalf("Check(ForCanonical()) error = %v", err)
	}
	if got := def.ColumnNames(); got[0] != IDColumn || got[len(got)-1] != schema.ColUserBirthYear {
		t.Fatalf("ColumnNames() = %v", got)
	}
}
