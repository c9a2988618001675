package schema

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrBadFileName is returned when a file name has too few underscore-delimited
// segments to derive a provenance tag.
var ErrBadFileName = errors.New("cannot derive provenance tag")

// ProvenanceTag derives the provenance tag of a source file: the last two
// underscore-delimited segments of the file stem, joined by "_".
//
//	Divvy_Trips_2019_Q1.csv -> 2019_Q1
func ProvenanceTag(fileName string) (string, error) {
	base := filepath.Base(fileName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w from %q", ErrBadFileName, fileName)
	}
	return parts[len(parts)-2] + "_" + parts[len(parts)-1], nil
}
