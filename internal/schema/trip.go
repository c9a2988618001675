package schema

import "fmt"

// Trip is one normalized trip record. Every field is optional; nil is the null
// marker used for canonical columns a source generation does not carry.
type Trip struct {
	RefID            *string
	Source           *string
	RideableType     *string
	BikeID           *int64
	StartTime        *string
	EndTime          *string
	TripDuration     *float64
	StartStationID   *int64
	StartStationName *string
	EndStationID     *int64
	EndStationName   *string
	StartLatitude    *float64
	StartLongitude   *float64
	EndLatitude      *float64
	EndLongitude     *float64
	UserType         *string
	UserGender       *string
	UserBirthYear    *int64
}

// Values returns the trip's cells in canonical column order. Null cells are an
// untyped nil so database drivers bind them as NULL.
func (t *Trip) Values() []any {
	return []any{
		str(t.RefID),
		str(t.Source),
		str(t.RideableType),
		i64(t.BikeID),
		str(t.StartTime),
		str(t.EndTime),
		f64(t.TripDuration),
		i64(t.StartStationID),
		str(t.StartStationName),
		i64(t.EndStationID),
		str(t.EndStationName),
		f64(t.StartLatitude),
		f64(t.StartLongitude),
		f64(t.EndLatitude),
		f64(t.EndLongitude),
		str(t.UserType),
		str(t.UserGender),
		i64(t.UserBirthYear),
	}
}

// IsNull reports whether every cell of t is null.
func (t *Trip) IsNull() bool {
	for _, v := range t.Values() {
		if v != nil {
			return false
		}
	}
	return true
}

// Set assigns a parsed cell value to the canonical column. The value's Go type
// must match Classify(column): string for TEXT, float64 for REAL, int64 for
// INTEGER. A nil value clears the field.
func (t *Trip) Set(column string, v any) error {
	switch column {
	case ColRefID:
		return setStr(&t.RefID, column, v)
	case ColSource:
		return setStr(&t.Source, column, v)
	case ColRideableType:
		return setStr(&t.RideableType, column, v)
	case ColBikeID:
		return setI64(&t.BikeID, column, v)
	case ColStartTime:
		return setStr(&t.StartTime, column, v)
	case ColEndTime:
		return setStr(&t.EndTime, column, v)
	case ColTripDuration:
		return setF64(&t.TripDuration, column, v)
	case ColStartStationID:
		return setI64(&t.StartStationID, column, v)
	case ColStartStationName:
		return setStr(&t.StartStationName, column, v)
	case ColEndStationID:
		return setI64(&t.EndStationID, column, v)
	case ColEndStationName:
		return setStr(&t.EndStationName, column, v)
	case ColStartLatitude:
		return setF64(&t.StartLatitude, column, v)
	case ColStartLongitude:
		return setF64(&t.StartLongitude, column, v)
	case ColEndLatitude:
		return setF64(&t.EndLatitude, column, v)
	case ColEndLongitude:
		return setF64(&t.EndLongitude, column, v)
	case ColUserType:
		return setStr(&t.UserType, column, v)
	case ColUserGender:
		return setStr(&t.UserGender, column, v)
	case ColUserBirthYear:
		return setI64(&t.UserBirthYear, column, v)
	default:
		return fmt.Errorf("schema: %q is not a canonical column", column)
	}
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func i64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func f64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func setStr(dst **string, col string, v any) error {
	switch x := v.(type) {
	case nil:
		*dst = nil
	case string:
		*dst = &x
	default:
		return fmt.Errorf("schema: %s wants string, got %T", col, v)
	}
	return nil
}

func setI64(dst **int64, col string, v any) error {
	switch x := v.(type) {
	case nil:
		*dst = nil
	case int64:
		*dst = &x
	default:
		return fmt.Errorf("schema: %s wants int64, got %T", col, v)
	}
	return nil
}

func setF64(dst **float64, col string, v any) error {
	switch x := v.(type) {
	case nil:
		*dst = nil
	case float64:
		*dst = &x
	default:
		return fmt.Errorf("schema: %s wants float64, got %T", col, v)
	}
	return nil
}
