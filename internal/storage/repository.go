// Package storage contains the backend-agnostic sink contract, a registry of
// backend factories keyed by storage kind, and the replace-table write
// helpers built on top of them.
//
// Backends (internal/storage/sqlite, internal/storage/postgres) register
// themselves in init; import internal/storage/all to enable every built-in
// backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/roydale/case-study-01-cyclistic/internal/ddl"
	"github.com/roydale/case-study-01-cyclistic/internal/schema"
)

// Repository is an open connection to a relational sink.
type Repository interface {
	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// CopyFrom appends rows (aligned to columns) to table and returns the
	// number of rows written. A batch is all-or-nothing.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Dialect renders DDL for this backend.
	Dialect() Dialect

	Close()
}

// Dialect renders backend-specific DDL.
type Dialect interface {
	// Name is the storage kind, e.g. "sqlite".
	Name() string

	// MapType returns the column type used for a storage class.
	MapType(kind schema.Kind) string

	// DropTableSQL returns a statement that drops table if it exists.
	DropTableSQL(table string) string

	// CreateTableSQL returns a CREATE TABLE statement for def.
	CreateTableSQL(def ddl.TableDef) (string, error)
}

// Config is the backend-agnostic connection config.
type Config struct {
	// Kind selects the backend ("sqlite", "postgres").
	Kind string
	// DSN is passed to the backend driver as-is.
	DSN string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it
// from init.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered storage kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
