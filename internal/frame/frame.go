// Package frame holds the in-memory table a loaded export becomes: canonical
// trip rows plus the provenance and load counters that travel with them.
package frame

import (
	"errors"

	"github.com/roydale/case-study-01-cyclistic/internal/schema"
)

// ErrNoFrames is returned by Concat when there is nothing to concatenate.
var ErrNoFrames = errors.New("frame: no frames to concatenate")

// Stats are the per-load counters.
type Stats struct {
	// Rows is the number of data rows read from the file, before filtering.
	Rows int
	// Padded counts rows shorter than the header whose missing cells were
	// read as null.
	Padded int
	// CoerceErrors counts numeric cells that could not be parsed and were
	// stored as null.
	CoerceErrors int
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Rows:         s.Rows + o.Rows,
		Padded:       s.Padded + o.Padded,
		CoerceErrors: s.CoerceErrors + o.CoerceErrors,
	}
}

// Frame is a set of canonical trip rows. Rows are always projected onto
// schema.Columns.
type Frame struct {
	// Table is the destination staging table (or merged table for a Concat
	// result).
	Table string
	// Source is the provenance tag stamped on every row; empty for merged
	// frames that span several tags.
	Source string
	Rows   []schema.Trip
	Stats  Stats
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool { return f.Len() == 0 }

// AllNull reports whether every cell of every row is null. A frame with no
// rows is all-null.
func (f *Frame) AllNull() bool {
	if f == nil {
		return true
	}
	for i := range f.Rows {
		if !f.Rows[i].IsNull() {
			return false
		}
	}
	return true
}

// Excludable reports whether the frame should be left out of the merge: it
// is empty, or every cell of it is null.
func (f *Frame) Excludable() bool { return f.Empty() || f.AllNull() }

// Concat unions the rows of frames in order. Rows are not deduplicated; the
// stats of the inputs are summed. The result has no Table or Source set.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	n := 0
	for _, f := range frames {
		n += f.Len()
	}
	out := &Frame{Rows: make([]schema.Trip, 0, n)}
	for _, f := range frames {
		if f == nil {
			continue
		}
		out.Rows = append(out.Rows, f.Rows...)
		out.Stats = out.Stats.Add(f.Stats)
	}
	return out, nil
}
