// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dir is a filesystem data source that resolves file names against a raw-data
// directory.
type Dir struct{ root string }

// NewDir returns a Dir rooted at root. The root is not checked until a file is
// opened.
func NewDir(root string) *Dir { return &Dir{root: root} }

// Root returns the directory files are resolved against.
func (d *Dir) Root() string { return d.root }

// Path returns the full path of name under the root.
func (d *Dir) Path(name string) string { return filepath.Join(d.root, name) }

// Open opens name under the root for reading.
//
// A canceled context short-circuits without touching the filesystem. Open
// errors keep their *os.PathError and still match errors.Is(err,
// os.ErrNotExist).
func (d *Dir) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(d.Path(name))
	if err != nil {
		// *os.PathError already names the path.
		return nil, fmt.Errorf("file: %w", err)
	}
	return f, nil
}
