// Package query filters a generated float population against user criteria
// and computes the aggregates the chat and export layers report.
package query

import (
	"fmt"

	"floatchat/internal/domain/entity"
)

// Apply filters the population by AND-ing every set criteria dimension and
// computes aggregates for the requested parameters. It is a pure function:
// the same population and criteria always yield the same result, with the
// output preserving the population's iteration order.
func Apply(population []entity.Float, c entity.Criteria) (*entity.QueryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	matched := make([]entity.Float, 0, len(population))
	for _, f := range population {
		if matches(f, c) {
			matched = append(matched, f)
		}
	}

	result := &entity.QueryResult{
		Floats: matched,
		Count:  len(matched),
		Stats:  map[string]entity.Stats{},
	}
	if len(matched) == 0 {
		// Explicit no-data marker: zero count, no stats entries, no NaN.
		return result, nil
	}

	for _, param := range c.Parameters {
		result.Stats[param] = aggregate(matched, param)
	}
	return result, nil
}

// Value extracts the named numeric parameter from a float. Callers must
// pass a name that entity.KnownParameter accepts.
func Value(f entity.Float, param string) float64 {
	switch param {
	case entity.ParamTemperature:
		return f.SurfaceTemp
	case entity.ParamSalinity:
		return f.SurfaceSalinity
	case entity.ParamBatteryLevel:
		return f.BatteryLevel
	case entity.ParamMaxDepth:
		return f.MaxDepth
	case entity.ParamCycleNumber:
		return float64(f.CycleNumber)
	case entity.ParamLatitude:
		return f.Latitude
	case entity.ParamLongitude:
		return f.Longitude
	}
	panic(fmt.Sprintf("query: unknown parameter %q passed validation", param))
}

func matches(f entity.Float, c entity.Criteria) bool {
	if len(c.Regions) > 0 && !containsString(c.Regions, f.Region) {
		return false
	}
	if len(c.Statuses) > 0 && !containsStatus(c.Statuses, f.Status) {
		return false
	}
	if len(c.Types) > 0 && !containsString(c.Types, f.Type) {
		return false
	}
	for param, r := range c.Ranges {
		if !r.Contains(Value(f, param)) {
			return false
		}
	}
	return true
}

func aggregate(floats []entity.Float, param string) entity.Stats {
	first := Value(floats[0], param)
	st := entity.Stats{Mean: first, Min: first, Max: first}

	sum := first
	for _, f := range floats[1:] {
		v := Value(f, param)
		sum += v
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
	}
	st.Mean = sum / float64(len(floats))
	return st
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsStatus(list []entity.FloatStatus, v entity.FloatStatus) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
