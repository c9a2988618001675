// Package loader turns one quarterly export into a canonical frame: it reads
// the CSV, renames columns through the file's mapping, stamps the provenance
// tag and projects the result onto the canonical column list.
package loader

import (
	"context"
	"fmt"
	"log"

	"github.com/roydale/case-study-01-cyclistic/internal/config"
	"github.com/roydale/case-study-01-cyclistic/internal/datasource"
	"github.com/roydale/case-study-01-cyclistic/internal/frame"
	csvparser "github.com/roydale/case-study-01-cyclistic/internal/parser/csv"
	"github.com/roydale/case-study-01-cyclistic/internal/schema"
)

// Per-file caps on diagnostic log lines.
const (
	padLogLimit    = 20
	coerceLogLimit = 5
)

// binding routes one CSV column into a canonical column.
type binding struct {
	src    int
	column string
	kind   schema.Kind
}

// Load reads fileName from src and returns it as a canonical frame.
//
// Header cells found in mapping are renamed to their canonical target; cells
// that already carry a canonical name are kept as-is; all others are dropped.
// The source column is set to the provenance tag of fileName on every row,
// and canonical columns the file does not provide stay null.
//
// Errors opening the file, parsing it or deriving its tag are returned; a
// row wider than the header or with broken quoting fails the whole file.
// Short rows are padded with nulls and unparseable numeric cells are stored
// as null; both are counted in the frame's Stats.
func Load(
	ctx context.Context,
	src datasource.Source,
	fileName string,
	mapping schema.Mapping,
	opts config.Options,
) (*frame.Frame, error) {
	tag, err := schema.ProvenanceTag(fileName)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	rc, err := src.Open(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer rc.Close()

	pads := 0
	onErr := func(line int, err error) {
		if pads < padLogLimit {
			log.Printf("loader: padding row file=%s line=%d err=%v", fileName, line, err)
		}
		pads++
	}
	tbl, err := csvparser.ReadTable(ctx, rc, opts, onErr)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", fileName, err)
	}

	binds := bind(tbl.Header, mapping)
	f := &frame.Frame{
		Source: tag,
		Rows:   make([]schema.Trip, len(tbl.Rows)),
		Stats: frame.Stats{
			Rows:   len(tbl.Rows),
			Padded: tbl.Padded,
		},
	}
	for i, rec := range tbl.Rows {
		t := &f.Rows[i]
		for _, b := range binds {
			v, ok := coerce(b.kind, rec[b.src])
			if !ok {
				if f.Stats.CoerceErrors < coerceLogLimit {
					log.Printf("loader: unparseable %s file=%s row=%d column=%s value=%q; stored as null",
						b.kind, fileName, i+1, b.column, rec[b.src])
				}
				f.Stats.CoerceErrors++
			}
			if err := t.Set(b.column, v); err != nil {
				return nil, fmt.Errorf("loader: %s: %w", fileName, err)
			}
		}
		t.Source = &tag
	}
	return f, nil
}

// bind resolves header positions to canonical columns. When two header
// cells resolve to the same column, the rightmost one wins. The source
// column is never bound from the file.
func bind(header []string, mapping schema.Mapping) []binding {
	pos := map[string]int{}
	for i, h := range header {
		target, ok := mapping[h]
		if !ok {
			if schema.IndexOf(h) < 0 {
				continue
			}
			target = h
		}
		if target == schema.ColSource {
			continue
		}
		pos[target] = i
	}
	out := make([]binding, 0, len(pos))
	for _, c := range schema.Columns {
		if i, ok := pos[c]; ok {
			out = append(out, binding{src: i, column: c, kind: schema.Classify(c)})
		}
	}
	return out
}
