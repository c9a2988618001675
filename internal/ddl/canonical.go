package ddl

import "github.com/roydale/case-study-01-cyclistic/internal/schema"

// IDColumn is the surrogate key every trip table carries ahead of the
// canonical columns.
const IDColumn = "id"

// ForCanonical builds the definition of a trip table: an auto-increment IDColumn
// followed by one nullable column per name in columns, typed by
// schema.Classify through the dialect's mapType.
func ForCanonical(table string, columns []string, mapType func(schema.Kind) string) TableDef {
	def := TableDef{
		FQN:     table,
		Columns: make([]ColumnDef, 0, len(columns)+1),
	}
	def.Columns = append(def.Columns, ColumnDef{
		Name:          IDColumn,
		SQLType:       mapType(schema.KindInteger),
		PrimaryKey:    true,
		AutoIncrement: true,
	})
	for _, c := range columns {
		def.Columns = append(def.Columns, ColumnDef{
			Name:     c,
			SQLType:  mapType(schema.Classify(c)),
			Nullable: true,
		})
	}
	return def
}
