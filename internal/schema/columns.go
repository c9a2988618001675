// Package schema defines the canonical trip-history schema that every quarterly
// export is normalized into, the registry of per-generation column mappings,
// and the static storage-type classification of canonical columns.
package schema

// Canonical column names. Order in Columns is the output order of every table.
const (
	ColRefID            = "ref_id"
	ColSource           = "source"
	ColRideableType     = "rideable_type"
	ColBikeID           = "bike_id"
	ColStartTime        = "start_time"
	ColEndTime          = "end_time"
	ColTripDuration     = "trip_duration"
	ColStartStationID   = "start_station_id"
	ColStartStationName = "start_station_name"
	ColEndStationID     = "end_station_id"
	ColEndStationName   = "end_station_name"
	ColStartLatitude    = "start_latitude"
	ColStartLongitude   = "start_longitude"
	ColEndLatitude      = "end_latitude"
	ColEndLongitude     = "end_longitude"
	ColUserType         = "user_type"
	ColUserGender       = "user_gender"
	ColUserBirthYear    = "user_birth_year"
)

// Columns is the ordered canonical column list.
var Columns = []string{
	ColRefID,
	ColSource,
	ColRideableType,
	ColBikeID,
	ColStartTime,
	ColEndTime,
	ColTripDuration,
	ColStartStationID,
	ColStartStationName,
	ColEndStationID,
	ColEndStationName,
	ColStartLatitude,
	ColStartLongitude,
	ColEndLatitude,
	ColEndLongitude,
	ColUserType,
	ColUserGender,
	ColUserBirthYear,
}

// CanonicalColumns returns a copy of Columns so callers may not mutate the
// shared list.
func CanonicalColumns() []string {
	out := make([]string, len(Columns))
	copy(out, Columns)
	return out
}

// IndexOf returns the position of name in Columns, or -1.
func IndexOf(name string) int {
	for i, c := range Columns {
		if c == name {
			return i
		}
	}
	return -1
}
