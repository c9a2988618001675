// Package sqlite wires the SQLite backend into the storage factory. It exposes
// a storage.Repository implementation without forcing callers to import this
// package directly; registration happens in init.
package sqlite

import (
	"context"

	"github.com/roydale/case-study-01-cyclistic/internal/ddl"
	"github.com/roydale/case-study-01-cyclistic/internal/schema"
	"github.com/roydale/case-study-01-cyclistic/internal/storage"
	sqliteddl "github.com/roydale/case-study-01-cyclistic/internal/storage/sqlite/ddl"
)

// Kind is the storage kind this backend registers under.
const Kind = "sqlite"

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo adapts *sqlite.Repository to the storage.Repository interface,
// adding a Close method that calls the cleanup function returned by
// NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// Dialect implements storage.Repository.Dialect.
func (w *wrappedRepo) Dialect() storage.Dialect { return Dialect{} }

// Dialect renders SQLite DDL.
type Dialect struct{}

func (Dialect) Name() string { return Kind }

func (Dialect) MapType(k schema.Kind) string { return sqliteddl.MapType(k) }

func (Dialect) DropTableSQL(table string) string { return sqliteddl.DropTableSQL(table) }

func (Dialect) CreateTableSQL(def ddl.TableDef) (string, error) {
	return sqliteddl.BuildCreateTableSQL(def)
}

// Ensure wrappedRepo satisfies the interface at compile time.
var (
	_ storage.Repository = (*wrappedRepo)(nil)
	_ storage.Dialect    = Dialect{}
)

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}
