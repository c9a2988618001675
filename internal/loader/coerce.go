package loader

import (
	"math"
	"strconv"
	"strings"

	"github.com/roydale/case-study-01-cyclistic/internal/schema"
)

// coerce converts a raw CSV cell to the Go value for kind. An empty cell is
// null. ok is false when a numeric cell could not be parsed; v is then nil.
func coerce(kind schema.Kind, raw string) (v any, ok bool) {
	if raw == "" {
		return nil, true
	}
	switch kind {
	case schema.KindReal:
		f, err := strconv.ParseFloat(stripThousands(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case schema.KindInteger:
		n, ok := parseInteger(stripThousands(raw))
		if !ok {
			return nil, false
		}
		return n, true
	default:
		return raw, true
	}
}

// parseInteger accepts plain integers and integral floats ("1992.0"), which
// is how some exports write nullable integer columns.
func parseInteger(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func stripThousands(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	return strings.ReplaceAll(s, ",", "")
}
