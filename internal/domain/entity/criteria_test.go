package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestRangeContains(t *testing.T) {
	r := Range{Min: fptr(10), Max: fptr(20)}
	assert.True(t, r.Contains(10), "bounds are inclusive")
	assert.True(t, r.Contains(20))
	assert.True(t, r.Contains(15))
	assert.False(t, r.Contains(9.999))
	assert.False(t, r.Contains(20.001))

	open := Range{Min: fptr(10)}
	assert.True(t, open.Contains(1e9), "nil max is unbounded")
	assert.True(t, Range{}.Contains(-1e9), "empty range matches everything")
}

func TestCriteriaValidate(t *testing.T) {
	assert.NoError(t, Criteria{}.Validate())
	assert.NoError(t, Criteria{
		Ranges:     map[string]Range{ParamTemperature: {Min: fptr(0), Max: fptr(30)}},
		Parameters: []string{ParamSalinity},
	}.Validate())

	err := Criteria{Ranges: map[string]Range{"spin": {}}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = Criteria{Ranges: map[string]Range{ParamTemperature: {Min: fptr(30), Max: fptr(0)}}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = Criteria{Parameters: []string{"spin"}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCriteriaMerge(t *testing.T) {
	base := Criteria{
		Regions:    []string{"Indian Ocean"},
		Statuses:   []FloatStatus{StatusActive},
		Ranges:     map[string]Range{ParamBatteryLevel: {Min: fptr(50)}},
		Parameters: []string{ParamTemperature},
	}

	override := Criteria{
		Regions: []string{"Arabian Sea"},
		Ranges:  map[string]Range{ParamTemperature: {Max: fptr(30)}},
	}
	merged := override.Merge(base)

	assert.Equal(t, []string{"Arabian Sea"}, merged.Regions, "override wins its dimensions")
	assert.Equal(t, []FloatStatus{StatusActive}, merged.Statuses, "untouched dimensions survive")
	assert.Equal(t, []string{ParamTemperature}, merged.Parameters)
	assert.Len(t, merged.Ranges, 2, "range maps merge key by key")
	assert.NotNil(t, merged.Ranges[ParamBatteryLevel].Min)
	assert.NotNil(t, merged.Ranges[ParamTemperature].Max)

	// Merging must not mutate the base's range map.
	assert.Len(t, base.Ranges, 1)
}

func TestCriteriaMergeEmptyOverride(t *testing.T) {
	base := Criteria{Regions: []string{"Pacific Ocean"}}
	merged := Criteria{}.Merge(base)
	assert.Equal(t, base, merged)
}
