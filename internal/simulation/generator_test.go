package simulation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatchat/internal/config"
	"floatchat/internal/domain/entity"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return NewGenerator(cfg.Simulation)
}

func TestGeneratePopulationDeterministic(t *testing.T) {
	gen := testGenerator(t)

	first, err := gen.GeneratePopulation(100, 42)
	require.NoError(t, err)
	second, err := gen.GeneratePopulation(100, 42)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same (count, seed) produced different populations (-first +second):\n%s", diff)
	}
}

func TestGeneratePopulationSeedChangesOutput(t *testing.T) {
	gen := testGenerator(t)

	a, err := gen.GeneratePopulation(50, 1)
	require.NoError(t, err)
	b, err := gen.GeneratePopulation(50, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGeneratePopulationInvalidCount(t *testing.T) {
	gen := testGenerator(t)

	for _, count := range []int{0, -1, -100} {
		_, err := gen.GeneratePopulation(count, 42)
		assert.ErrorIs(t, err, entity.ErrInvalidArgument, "count=%d", count)
	}
}

func TestGeneratePopulationPlausibleFields(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	gen := NewGenerator(cfg.Simulation)

	regions := make(map[string]bool)
	for _, r := range cfg.Simulation.Regions {
		regions[r.Name] = true
	}
	types := make(map[string]bool)
	for _, ft := range cfg.Simulation.FloatTypes {
		types[ft] = true
	}

	population, err := gen.GeneratePopulation(200, 7)
	require.NoError(t, err)
	require.Len(t, population, 200)

	seen := make(map[string]bool, len(population))
	for _, f := range population {
		require.NoError(t, f.Validate())
		assert.False(t, seen[f.ID], "duplicate float id %s", f.ID)
		seen[f.ID] = true
		assert.True(t, regions[f.Region], "unknown region %q", f.Region)
		assert.True(t, types[f.Type], "unknown float type %q", f.Type)
		assert.GreaterOrEqual(t, f.BatteryLevel, 20.0)
		assert.LessOrEqual(t, f.BatteryLevel, 100.0)
		assert.GreaterOrEqual(t, f.CycleNumber, 1)
	}
}

func TestGeneratePopulationStatusDistribution(t *testing.T) {
	gen := testGenerator(t)

	population, err := gen.GeneratePopulation(5000, 42)
	require.NoError(t, err)

	counts := make(map[entity.FloatStatus]int)
	for _, f := range population {
		counts[f.Status]++
	}

	active := float64(counts[entity.StatusActive]) / float64(len(population))
	assert.InDelta(t, 0.85, active, 0.03, "active share drifted from configured weight")
	assert.Greater(t, counts[entity.StatusInactive], 0)
	assert.Greater(t, counts[entity.StatusMaintenance], 0)
}

func TestGenerateProfileMonotonic(t *testing.T) {
	gen := testGenerator(t)

	population, err := gen.GeneratePopulation(20, 42)
	require.NoError(t, err)

	for _, f := range population {
		p := gen.GenerateProfile(f, 42)
		require.NotEmpty(t, p.Samples, "float %s", f.ID)
		assert.Equal(t, 0.0, p.Samples[0].Depth)

		for i := 1; i < len(p.Samples); i++ {
			prev, cur := p.Samples[i-1], p.Samples[i]
			assert.Greater(t, cur.Depth, prev.Depth,
				"float %s: depth must be strictly increasing", f.ID)
			assert.LessOrEqual(t, cur.Temperature, prev.Temperature,
				"float %s: temperature must be non-increasing with depth", f.ID)
		}

		for _, s := range p.Samples {
			assert.GreaterOrEqual(t, s.Salinity, 33.0, "float %s", f.ID)
			assert.LessOrEqual(t, s.Salinity, 37.0, "float %s", f.ID)
			if f.HasOxygen {
				require.NotNil(t, s.Oxygen, "float %s carries an oxygen sensor", f.ID)
			} else {
				require.Nil(t, s.Oxygen, "float %s has no oxygen sensor", f.ID)
			}
		}
	}
}

func TestGenerateProfileDeterministic(t *testing.T) {
	gen := testGenerator(t)

	population, err := gen.GeneratePopulation(5, 42)
	require.NoError(t, err)
	f := population[0]

	first := gen.GenerateProfile(f, 42)
	second := gen.GenerateProfile(f, 42)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same (float, seed) produced different profiles:\n%s", diff)
	}

	other := gen.GenerateProfile(population[1], 42)
	assert.NotEqual(t, first.Samples, other.Samples, "distinct floats should not share a profile")
}

func TestGenerateTrajectory(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	gen := NewGenerator(cfg.Simulation)

	population, err := gen.GeneratePopulation(10, 42)
	require.NoError(t, err)
	f := population[3]

	tr, err := gen.GenerateTrajectory(f, 42, 30)
	require.NoError(t, err)
	require.Len(t, tr.Points, 30)

	assert.Equal(t, f.Latitude, tr.Points[0].Latitude, "walk starts at the registered position")
	assert.Equal(t, f.Longitude, tr.Points[0].Longitude)

	maxStep := cfg.Simulation.Trajectory.MaxStepDeg
	for i := 1; i < len(tr.Points); i++ {
		prev, cur := tr.Points[i-1], tr.Points[i]
		assert.True(t, cur.Timestamp.After(prev.Timestamp), "timestamps must be strictly increasing")
		assert.GreaterOrEqual(t, cur.Latitude, -90.0)
		assert.LessOrEqual(t, cur.Latitude, 90.0)
		assert.GreaterOrEqual(t, cur.Longitude, -180.0)
		assert.LessOrEqual(t, cur.Longitude, 180.0)

		dLat := cur.Latitude - prev.Latitude
		if dLat < 0 {
			dLat = -dLat
		}
		// Rounding to 4 decimals can push a step marginally past the bound.
		assert.LessOrEqual(t, dLat, maxStep+0.001, "latitude step exceeds drift bound")
	}
}

func TestGenerateTrajectoryInvalidPoints(t *testing.T) {
	gen := testGenerator(t)

	population, err := gen.GeneratePopulation(1, 42)
	require.NoError(t, err)

	_, err = gen.GenerateTrajectory(population[0], 42, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
	_, err = gen.GenerateTrajectory(population[0], 42, -3)
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
}
