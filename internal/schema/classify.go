package schema

// Kind is the storage type assigned to a canonical column.
type Kind int

const (
	KindText Kind = iota
	KindReal
	KindInteger
)

// String returns the SQL affinity name of k.
func (k Kind) String() string {
	switch k {
	case KindReal:
		return "REAL"
	case KindInteger:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

var (
	textColumns = map[string]struct{}{
		ColRefID:            {},
		ColSource:           {},
		ColRideableType:     {},
		ColStartTime:        {},
		ColEndTime:          {},
		ColStartStationName: {},
		ColEndStationName:   {},
		ColUserType:         {},
		ColUserGender:       {},
	}
	realColumns = map[string]struct{}{
		ColTripDuration:   {},
		ColStartLatitude:  {},
		ColStartLongitude: {},
		ColEndLatitude:    {},
		ColEndLongitude:   {},
	}
	integerColumns = map[string]struct{}{
		ColBikeID:         {},
		ColStartStationID: {},
		ColEndStationID:   {},
		ColUserBirthYear:  {},
	}
)

// Classify returns the storage kind of column. Names outside the three static
// sets are TEXT.
func Classify(column string) Kind {
	if _, ok := textColumns[column]; ok {
		return KindText
	}
	if _, ok := realColumns[column]; ok {
		return KindReal
	}
	if _, ok := integerColumns[column]; ok {
		return KindInteger
	}
	return KindText
}
