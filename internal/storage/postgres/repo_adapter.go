// Package postgres provides a Postgres-backed storage.Repository implementation.
// This adapter wires the Postgres backend into the storage-agnostic factory by
// registering a constructor at init time. Callers obtain a Repository via
// storage.New(...) without importing this package directly.
package postgres

import (
	"context"

	"github.com/roydale/case-study-01-cyclistic/internal/ddl"
	"github.com/roydale/case-study-01-cyclistic/internal/schema"
	"github.com/roydale/case-study-01-cyclistic/internal/storage"
	pgddl "github.com/roydale/case-study-01-cyclistic/internal/storage/postgres/ddl"
)

// Kind is the storage kind this backend registers under.
const Kind = "postgres"

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to the concrete
// *postgres.Repository while providing a Close method that calls the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Ensure wrappedRepo satisfies storage.Repository at compile time.
var (
	_ storage.Repository = (*wrappedRepo)(nil)
	_ storage.Dialect    = Dialect{}
)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// Dialect implements storage.Repository.Dialect.
func (w *wrappedRepo) Dialect() storage.Dialect { return Dialect{} }

// Dialect renders Postgres DDL.
type Dialect struct{}

func (Dialect) Name() string { return Kind }

func (Dialect) MapType(k schema.Kind) string { return pgddl.MapType(k) }

func (Dialect) DropTableSQL(table string) string { return pgddl.DropTableSQL(table) }

func (Dialect) CreateTableSQL(def ddl.TableDef) (string, error) {
	return pgddl.BuildCreateTableSQL(def)
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}
