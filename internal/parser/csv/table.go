// Package csv reads a whole CSV export into an in-memory table of string
// cells. Quarterly exports are small enough to materialize; the loader needs
// the full file before it can decide whether the result is empty.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/roydale/case-study-01-cyclistic/internal/config"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("csv: missing header row")

// ErrTooManyFields is returned for a data row wider than the header.
var ErrTooManyFields = errors.New("csv: too many fields")

// DefaultNAValues are the cell values read as null when the na_values
// option is not set.
var DefaultNAValues = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// logLimit caps the number of "padding row" log lines per file.
const logLimit = 20

// Table is a parsed CSV file. Cells are raw strings; empty cells are "".
type Table struct {
	Header []string
	Rows   [][]string
	// Padded counts rows that were shorter than the header and were filled
	// with empty cells.
	Padded int
}

// Index returns the position of the (normalized) header name, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadTable parses r into a Table. The first row is the header; header cells
// are normalized by NormalizeHeader.
//
// Options (all optional):
//   - comma (string; first rune; default ',')
//   - trim_space (bool; default true) trims cell whitespace
//   - lazy_quotes (bool; default false) → csv.Reader.LazyQuotes
//   - na_values ([]string; default DefaultNAValues) cells equal to one of
//     these are replaced by ""; an empty list disables the replacement
//
// A row shorter than the header is padded with empty cells, passed to onErr
// (when non-nil) and counted in Table.Padded. A row wider than the header
// fails with ErrTooManyFields, and a row the csv reader rejects fails with its
// *csv.ParseError. A missing or unreadable header is fatal.
func ReadTable(
	ctx context.Context,
	r io.Reader,
	opt config.Options,
	onErr func(line int, err error),
) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = opt.Rune("comma", ',')
	cr.LazyQuotes = opt.Bool("lazy_quotes", false)
	cr.FieldsPerRecord = -1 // width enforced below
	trim := opt.Bool("trim_space", true)
	naList, ok := opt.Strings("na_values")
	if !ok {
		naList = DefaultNAValues
	}
	na := make(map[string]struct{}, len(naList))
	for _, v := range naList {
		na[v] = struct{}{}
	}

	hdr, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	t := &Table{Header: NormalizeHeader(hdr)}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		switch {
		case len(rec) > len(t.Header):
			return nil, fmt.Errorf("line %d: expected %d fields, got %d: %w",
				line, len(t.Header), len(rec), ErrTooManyFields)
		case len(rec) < len(t.Header):
			t.pad(line, len(rec), onErr)
			rec = append(rec, make([]string, len(t.Header)-len(rec))...)
		}
		for i, v := range rec {
			if trim {
				v = strings.TrimSpace(v)
			}
			if _, isNA := na[v]; isNA {
				v = ""
			}
			rec[i] = v
		}
		t.Rows = append(t.Rows, rec)
	}
}

func (t *Table) pad(line, got int, onErr func(int, error)) {
	err := fmt.Errorf("short row: expected %d fields, got %d", len(t.Header), got)
	if onErr != nil {
		onErr(line, err)
	} else if t.Padded < logLimit {
		log.Printf("reader: padding row line=%d err=%v", line, err)
	}
	t.Padded++
}
