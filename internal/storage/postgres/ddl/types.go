// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "github.com/roydale/case-study-01-cyclistic/internal/schema"

// MapType maps a storage class to a Postgres column type.
//
//	TEXT    -> TEXT
//	REAL    -> DOUBLE PRECISION
//	INTEGER -> BIGINT
func MapType(kind schema.Kind) string {
	switch kind {
	case schema.KindInteger:
		return "BIGINT"
	case schema.KindReal:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
