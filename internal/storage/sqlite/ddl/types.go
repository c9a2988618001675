package ddl

import "github.com/roydale/case-study-01-cyclistic/internal/schema"

// MapType maps a storage class to a SQLite column type. SQLite's own type
// affinities have the same names, so the mapping is the identity:
//
//	TEXT -> TEXT, REAL -> REAL, INTEGER -> INTEGER
func MapType(kind schema.Kind) string {
	switch kind {
	case schema.KindInteger:
		return "INTEGER"
	case schema.KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}
