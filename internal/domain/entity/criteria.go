package entity

import "fmt"

// Parameter names accepted in Criteria ranges and aggregate requests. Each
// maps onto one numeric Float attribute.
const (
	ParamTemperature  = "temperature"
	ParamSalinity     = "salinity"
	ParamBatteryLevel = "battery_level"
	ParamMaxDepth     = "max_depth"
	ParamCycleNumber  = "cycle_number"
	ParamLatitude     = "latitude"
	ParamLongitude    = "longitude"
)

// Range is an inclusive numeric bound; a nil end is open.
type Range struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

func (r Range) IsZero() bool { return r.Min == nil && r.Max == nil }

func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Criteria is an ephemeral filter constructed per interaction. A dimension
// left empty matches everything on that dimension; all set dimensions are
// combined with logical AND.
type Criteria struct {
	Regions  []string      `json:"regions,omitempty" yaml:"regions,omitempty"`
	Statuses []FloatStatus `json:"statuses,omitempty" yaml:"statuses,omitempty"`
	Types    []string      `json:"types,omitempty" yaml:"types,omitempty"`

	// Ranges is keyed by parameter name (see Param* constants).
	Ranges map[string]Range `json:"ranges,omitempty" yaml:"ranges,omitempty"`

	// Parameters lists the attributes to aggregate over the filtered set.
	Parameters []string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// KnownParameter reports whether name maps onto a Float attribute.
func KnownParameter(name string) bool {
	switch name {
	case ParamTemperature, ParamSalinity, ParamBatteryLevel,
		ParamMaxDepth, ParamCycleNumber, ParamLatitude, ParamLongitude:
		return true
	}
	return false
}

// Validate fails fast on malformed input so callers can distinguish
// "no matches" from "bad criteria".
func (c Criteria) Validate() error {
	for name, r := range c.Ranges {
		if !KnownParameter(name) {
			return fmt.Errorf("%w: unknown range parameter %q", ErrInvalidArgument, name)
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return fmt.Errorf("%w: range %q min %v greater than max %v",
				ErrInvalidArgument, name, *r.Min, *r.Max)
		}
	}
	for _, name := range c.Parameters {
		if !KnownParameter(name) {
			return fmt.Errorf("%w: unknown aggregate parameter %q", ErrInvalidArgument, name)
		}
	}
	return nil
}

// Merge overlays c on top of base: any dimension set in c replaces the
// base's value for that dimension, dimension by dimension.
func (c Criteria) Merge(base Criteria) Criteria {
	out := base
	if len(c.Regions) > 0 {
		out.Regions = c.Regions
	}
	if len(c.Statuses) > 0 {
		out.Statuses = c.Statuses
	}
	if len(c.Types) > 0 {
		out.Types = c.Types
	}
	if len(c.Ranges) > 0 {
		merged := make(map[string]Range, len(base.Ranges)+len(c.Ranges))
		for k, v := range base.Ranges {
			merged[k] = v
		}
		for k, v := range c.Ranges {
			merged[k] = v
		}
		out.Ranges = merged
	}
	if len(c.Parameters) > 0 {
		out.Parameters = c.Parameters
	}
	return out
}

// Stats summarizes one parameter over a non-empty filtered set.
type Stats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// QueryResult is the ephemeral output of one filter application. Stats is
// empty (not NaN-valued) when no floats matched.
type QueryResult struct {
	Floats []Float          `json:"floats"`
	Count  int              `json:"count"`
	Stats  map[string]Stats `json:"stats,omitempty"`
}

// HasData reports whether aggregates exist; false is the explicit
// "no data" marker for an empty result set.
func (q *QueryResult) HasData() bool { return q.Count > 0 }
