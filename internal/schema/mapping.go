package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownMapping is returned when a file references a mapping name that has
// not been registered.
var ErrUnknownMapping = errors.New("unknown column mapping")

// Mapping translates a source file's native column names to canonical names.
type Mapping map[string]string

// Built-in mapping names, one per header generation of the operator's exports.
const (
	MappingDivvy2019   = "divvy_2019"
	MappingDivvy2019Q2 = "divvy_2019_q2"
	MappingDivvy2020   = "divvy_2020"
)

var divvy2019 = Mapping{
	"trip_id":           ColRefID,
	"start_time":        ColStartTime,
	"end_time":          ColEndTime,
	"bikeid":            ColBikeID,
	"tripduration":      ColTripDuration,
	"from_station_id":   ColStartStationID,
	"from_station_name": ColStartStationName,
	"to_station_id":     ColEndStationID,
	"to_station_name":   ColEndStationName,
	"usertype":          ColUserType,
	"gender":            ColUserGender,
	"birthyear":         ColUserBirthYear,
}

var divvy2019Q2 = Mapping{
	"01 - Rental Details Rental ID":                    ColRefID,
	"01 - Rental Details Local Start Time":             ColStartTime,
	"01 - Rental Details Local End Time":               ColEndTime,
	"01 - Rental Details Bike ID":                      ColBikeID,
	"01 - Rental Details Duration In Seconds Uncapped": ColTripDuration,
	"03 - Rental Start Station ID":                     ColStartStationID,
	"03 - Rental Start Station Name":                   ColStartStationName,
	"02 - Rental End Station ID":                       ColEndStationID,
	"02 - Rental End Station Name":                     ColEndStationName,
	"User Type":                                        ColUserType,
	"Member Gender":                                    ColUserGender,
	"05 - Member Details Member Birthday Year":         ColUserBirthYear,
}

var divvy2020 = Mapping{
	"ride_id":            ColRefID,
	"rideable_type":      ColRideableType,
	"started_at":         ColStartTime,
	"ended_at":           ColEndTime,
	"start_station_name": ColStartStationName,
	"start_station_id":   ColStartStationID,
	"end_station_name":   ColEndStationName,
	"end_station_id":     ColEndStationID,
	"start_lat":          ColStartLatitude,
	"start_lng":          ColStartLongitude,
	"end_lat":            ColEndLatitude,
	"end_lng":            ColEndLongitude,
	"member_casual":      ColUserType,
}

// FileSpec pairs a source file name with the name of its column mapping.
type FileSpec struct {
	Name    string `json:"name" yaml:"name"`
	Mapping string `json:"mapping" yaml:"mapping"`
}

// DefaultFiles is the compiled-in list of quarterly exports, in load order.
var DefaultFiles = []FileSpec{
	{Name: "Divvy_Trips_2019_Q1.csv", Mapping: MappingDivvy2019},
	{Name: "Divvy_Trips_2019_Q2.csv", Mapping: MappingDivvy2019Q2},
	{Name: "Divvy_Trips_2019_Q3.csv", Mapping: MappingDivvy2019},
	{Name: "Divvy_Trips_2019_Q4.csv", Mapping: MappingDivvy2019},
	{Name: "Divvy_Trips_2020_Q1.csv", Mapping: MappingDivvy2020},
}

// Registry holds named column mappings. The zero value is not usable; call
// NewRegistry or DefaultRegistry.
type Registry struct {
	mu       sync.RWMutex
	mappings map[string]Mapping
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{mappings: map[string]Mapping{}}
}

// DefaultRegistry returns a registry preloaded with the built-in mappings.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(MappingDivvy2019, divvy2019)
	r.Register(MappingDivvy2019Q2, divvy2019Q2)
	r.Register(MappingDivvy2020, divvy2020)
	return r
}

// Register adds (or replaces) the mapping stored under name. The mapping is
// copied.
func (r *Registry) Register(name string, m Mapping) {
	cp := make(Mapping, len(m))
	for k, v := range m {
		cp[k] = v
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[name] = cp
}

// Lookup returns the mapping registered under name.
func (r *Registry) Lookup(name string) (Mapping, error) {
	r.mu.RLock()
	m, ok := r.mappings[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMapping, name)
	}
	return m, nil
}

// Names lists the registered mapping names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.mappings))
	for k := range r.mappings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Check reports every native column whose target is not a canonical column.
func (m Mapping) Check() error {
	natives := make([]string, 0, len(m))
	for native := range m {
		natives = append(natives, native)
	}
	sort.Strings(natives)

	var errs []error
	for _, native := range natives {
		if IndexOf(m[native]) < 0 {
			errs = append(errs, fmt.Errorf("column %q maps to non-canonical %q", native, m[native]))
		}
	}
	return errors.Join(errs...)
}
