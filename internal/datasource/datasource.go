// Package datasource defines how raw export files are located and opened.
package datasource

import (
	"context"
	"io"
)

// Source opens named raw files for reading.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
