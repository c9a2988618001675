package frame

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// Cell tags of the fingerprint encoding. A null and an empty string hash
// differently.
const (
	tagNull byte = iota
	tagText
	tagInt
	tagReal
	tagRowEnd
)

// Fingerprint returns a 64-bit xxh3 digest of the frame's rows in order.
// Frames with the same rows, in the same order, have the same fingerprint;
// Table, Source and Stats are not part of it.
func (f *Frame) Fingerprint() uint64 {
	h := xxh3.New()
	if f == nil {
		return h.Sum64()
	}
	var num [8]byte
	var strLen [4]byte
	for i := range f.Rows {
		for _, v := range f.Rows[i].Values() {
			switch x := v.(type) {
			case nil:
				_, _ = h.Write([]byte{tagNull})
			case string:
				binary.LittleEndian.PutUint32(strLen[:], uint32(len(x)))
				_, _ = h.Write([]byte{tagText})
				_, _ = h.Write(strLen[:])
				_, _ = h.WriteString(x)
			case int64:
				binary.LittleEndian.PutUint64(num[:], uint64(x))
				_, _ = h.Write([]byte{tagInt})
				_, _ = h.Write(num[:])
			case float64:
				binary.LittleEndian.PutUint64(num[:], math.Float64bits(x))
				_, _ = h.Write([]byte{tagReal})
				_, _ = h.Write(num[:])
			}
		}
		_, _ = h.Write([]byte{tagRowEnd})
	}
	return h.Sum64()
}
