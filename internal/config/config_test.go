package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	s := cfg.Simulation
	assert.Equal(t, 100, s.DefaultCount)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), s.Epoch)
	assert.Len(t, s.Regions, 7)
	assert.Len(t, s.Statuses, 3)
	assert.NotEmpty(t, s.FloatTypes)
	assert.NotEmpty(t, s.Institutions)
	assert.Equal(t, 25.0, s.Profile.DepthStep)
	assert.Equal(t, 240*time.Hour, s.Trajectory.StepInterval)

	assert.NotEmpty(t, cfg.Chat.Welcome)
	assert.NotEmpty(t, cfg.Chat.Clarify)
	assert.Len(t, cfg.Chat.Templates, 5)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	raw := `
simulation:
  default_count: 50
  regions:
    - name: Test Basin
      lat_min: -10
      lat_max: 10
      lon_min: 0
      lon_max: 40
      weight: 1.0
      surface_temp: 25
      surface_salinity: 35
`
	path := filepath.Join(t.TempDir(), "floatchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Simulation.DefaultCount)
	require.Len(t, cfg.Simulation.Regions, 1)
	assert.Equal(t, "Test Basin", cfg.Simulation.Regions[0].Name)
	// Sections the file left out still get defaults.
	assert.Len(t, cfg.Simulation.Statuses, 3)
	assert.Len(t, cfg.Chat.Templates, 5)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{
			name: "negative region weight",
			raw: `
simulation:
  regions:
    - name: Broken
      lat_min: 0
      lat_max: 10
      weight: -1
`,
		},
		{
			name: "inverted latitude bounds",
			raw: `
simulation:
  regions:
    - name: Broken
      lat_min: 50
      lat_max: 10
      weight: 1
`,
		},
		{
			name: "duplicate template id",
			raw: `
chat:
  templates:
    - id: dup
      keywords: [["a"]]
      body: one
    - id: dup
      keywords: [["b"]]
      body: two
`,
		},
		{
			name: "template without keywords",
			raw: `
chat:
  templates:
    - id: silent
      body: nothing triggers this
`,
		},
		{
			name: "template with unknown criteria parameter",
			raw: `
chat:
  templates:
    - id: bad
      keywords: [["x"]]
      body: text
      criteria:
        parameters: [not_a_parameter]
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.raw), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestRegionNames(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	names := cfg.RegionNames()
	require.Len(t, names, len(cfg.Simulation.Regions))
	assert.Equal(t, "Arabian Sea", names[0])
}
