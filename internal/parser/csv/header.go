package csv

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const utf8BOM = "\uFEFF"

// headerFold maps non-breaking and other Unicode spaces to ASCII space and
// composes the result to NFC, so a header exported as "User\u00A0Type" or in
// decomposed form still matches the mapping key "User Type". Chains carry
// state, so each call builds its own.
func headerFold() transform.Transformer {
	return transform.Chain(
		norm.NFC,
		runes.Map(func(r rune) rune {
			switch r {
			case '\u00A0', '\u2007', '\u202F':
				return ' '
			}
			return r
		}),
	)
}

// NormalizeHeader returns canonical header cells: BOM stripped from the first
// cell, Unicode folded, surrounding whitespace trimmed. Case is preserved;
// mappings match names exactly.
func NormalizeHeader(h []string) []string {
	fold := headerFold()
	out := make([]string, len(h))
	for i, c := range h {
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if folded, _, err := transform.String(fold, c); err == nil {
			c = folded
		}
		out[i] = strings.TrimSpace(c)
	}
	return out
}
