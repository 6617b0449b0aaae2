package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"floatchat/internal/domain/entity"
)

// Config carries the domain tuning constants: region geometry and weights,
// float metadata vocabularies, generation noise bounds and the chatbot
// template table. Infrastructure settings (DSNs, ports, queue names) stay
// in the environment and are read by the mains.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Chat       ChatConfig       `yaml:"chat"`
}

type SimulationConfig struct {
	DefaultCount int       `yaml:"default_count"`
	Epoch        time.Time `yaml:"epoch"`

	Regions      []RegionConfig `yaml:"regions"`
	Statuses     []WeightedName `yaml:"statuses"`
	FloatTypes   []string       `yaml:"float_types"`
	Institutions []string       `yaml:"institutions"`

	Profile    ProfileConfig    `yaml:"profile"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`
}

// RegionConfig bounds one named ocean region. LonMax may be smaller than
// LonMin for regions crossing the antimeridian (e.g. the Pacific).
type RegionConfig struct {
	Name   string  `yaml:"name"`
	LatMin float64 `yaml:"lat_min"`
	LatMax float64 `yaml:"lat_max"`
	LonMin float64 `yaml:"lon_min"`
	LonMax float64 `yaml:"lon_max"`
	Weight float64 `yaml:"weight"`

	// Climatological surface values the generator samples around.
	SurfaceTemp     float64 `yaml:"surface_temp"`
	SurfaceSalinity float64 `yaml:"surface_salinity"`
}

type WeightedName struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

type ProfileConfig struct {
	DepthStep     float64 `yaml:"depth_step"`
	DeepTempMin   float64 `yaml:"deep_temp_min"`
	DeepTempMax   float64 `yaml:"deep_temp_max"`
	ThermoclineE  float64 `yaml:"thermocline_efolding"`
	TempNoise     float64 `yaml:"temp_noise"`
	SalinityMin   float64 `yaml:"salinity_min"`
	SalinityMax   float64 `yaml:"salinity_max"`
	SalinityNoise float64 `yaml:"salinity_noise"`
	OxygenRatio   float64 `yaml:"oxygen_ratio"`
}

type TrajectoryConfig struct {
	StepInterval time.Duration `yaml:"step_interval"`
	MaxStepDeg   float64       `yaml:"max_step_deg"`
}

type ChatConfig struct {
	Welcome   string           `yaml:"welcome"`
	Clarify   string           `yaml:"clarify"`
	NoData    string           `yaml:"no_data"`
	Templates []TemplateConfig `yaml:"templates"`
}

// TemplateConfig is one canned analysis: keyword groups score the user
// query, Body is a text/template rendered against the filtered aggregates,
// Criteria are the template's defaults before the caller's context narrows
// them. Registration order breaks score ties.
type TemplateConfig struct {
	ID       string          `yaml:"id"`
	Keywords [][]string      `yaml:"keywords"`
	Body     string          `yaml:"body"`
	Criteria entity.Criteria `yaml:"criteria"`
}

// Load reads a YAML config and fills in defaults. An empty path yields the
// built-in defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	s := &c.Simulation
	if s.DefaultCount == 0 {
		s.DefaultCount = 100
	}
	if s.Epoch.IsZero() {
		// Fixed so identical (count, seed) pairs stay bit-identical across
		// processes and across midnight.
		s.Epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if len(s.Regions) == 0 {
		s.Regions = defaultRegions()
	}
	if len(s.Statuses) == 0 {
		s.Statuses = []WeightedName{
			{Name: string(entity.StatusActive), Weight: 0.85},
			{Name: string(entity.StatusInactive), Weight: 0.10},
			{Name: string(entity.StatusMaintenance), Weight: 0.05},
		}
	}
	if len(s.FloatTypes) == 0 {
		s.FloatTypes = []string{"APEX", "NOVA", "ARVOR", "PROVOR", "SOLO"}
	}
	if len(s.Institutions) == 0 {
		s.Institutions = []string{"INCOIS", "NIOT", "CSIR-NIO", "IIT Mumbai", "NPOL"}
	}

	p := &s.Profile
	if p.DepthStep == 0 {
		p.DepthStep = 25
	}
	if p.DeepTempMin == 0 {
		p.DeepTempMin = 2
	}
	if p.DeepTempMax == 0 {
		p.DeepTempMax = 5
	}
	if p.ThermoclineE == 0 {
		p.ThermoclineE = 1000
	}
	if p.TempNoise == 0 {
		p.TempNoise = 0.5
	}
	if p.SalinityMin == 0 {
		p.SalinityMin = 33
	}
	if p.SalinityMax == 0 {
		p.SalinityMax = 37
	}
	if p.SalinityNoise == 0 {
		p.SalinityNoise = 0.2
	}
	if p.OxygenRatio == 0 {
		p.OxygenRatio = 0.3
	}

	tr := &s.Trajectory
	if tr.StepInterval == 0 {
		tr.StepInterval = 240 * time.Hour // 10-day cycle cadence
	}
	if tr.MaxStepDeg == 0 {
		tr.MaxStepDeg = 0.25
	}

	if c.Chat.Welcome == "" {
		c.Chat.Welcome = "Welcome to FloatChat! Ask me about temperature profiles, " +
			"salinity data, float locations, or regional comparisons."
	}
	if c.Chat.Clarify == "" {
		c.Chat.Clarify = "I didn't catch that. Try asking about temperature profiles, " +
			"salinity data, float locations, or regional comparisons."
	}
	if c.Chat.NoData == "" {
		c.Chat.NoData = "No floats match your current query. Try adjusting your criteria."
	}
	if len(c.Chat.Templates) == 0 {
		c.Chat.Templates = defaultTemplates()
	}
}

func (c *Config) validate() error {
	s := c.Simulation
	if s.DefaultCount < 1 {
		return fmt.Errorf("simulation: default_count must be positive, got %d", s.DefaultCount)
	}
	var regionWeight float64
	for _, r := range s.Regions {
		if r.Name == "" {
			return fmt.Errorf("simulation: region with empty name")
		}
		if r.LatMin > r.LatMax {
			return fmt.Errorf("simulation: region %q lat_min > lat_max", r.Name)
		}
		if r.Weight <= 0 {
			return fmt.Errorf("simulation: region %q needs a positive weight", r.Name)
		}
		regionWeight += r.Weight
	}
	if regionWeight <= 0 {
		return fmt.Errorf("simulation: region weights sum to zero")
	}
	var statusWeight float64
	for _, st := range s.Statuses {
		if st.Weight <= 0 {
			return fmt.Errorf("simulation: status %q needs a positive weight", st.Name)
		}
		statusWeight += st.Weight
	}
	if statusWeight <= 0 {
		return fmt.Errorf("simulation: status weights sum to zero")
	}
	if s.Profile.SalinityMin > s.Profile.SalinityMax {
		return fmt.Errorf("simulation: profile salinity_min > salinity_max")
	}

	seen := make(map[string]bool, len(c.Chat.Templates))
	for _, t := range c.Chat.Templates {
		if t.ID == "" {
			return fmt.Errorf("chat: template with empty id")
		}
		if seen[t.ID] {
			return fmt.Errorf("chat: duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
		if len(t.Keywords) == 0 {
			return fmt.Errorf("chat: template %q has no keyword groups", t.ID)
		}
		if err := t.Criteria.Validate(); err != nil {
			return fmt.Errorf("chat: template %q: %v", t.ID, err)
		}
	}
	return nil
}

// RegionNames returns the configured region vocabulary in order.
func (c *Config) RegionNames() []string {
	names := make([]string, 0, len(c.Simulation.Regions))
	for _, r := range c.Simulation.Regions {
		names = append(names, r.Name)
	}
	return names
}

func defaultRegions() []RegionConfig {
	return []RegionConfig{
		{Name: "Arabian Sea", LatMin: 10, LatMax: 25, LonMin: 50, LonMax: 80, Weight: 0.10, SurfaceTemp: 27, SurfaceSalinity: 36.5},
		{Name: "Bay of Bengal", LatMin: 5, LatMax: 22, LonMin: 80, LonMax: 100, Weight: 0.10, SurfaceTemp: 28, SurfaceSalinity: 34.5},
		{Name: "Indian Ocean", LatMin: -40, LatMax: 25, LonMin: 20, LonMax: 120, Weight: 0.20, SurfaceTemp: 24, SurfaceSalinity: 35.2},
		{Name: "Pacific Ocean", LatMin: -60, LatMax: 60, LonMin: 120, LonMax: -60, Weight: 0.25, SurfaceTemp: 22, SurfaceSalinity: 34.8},
		{Name: "Atlantic Ocean", LatMin: -60, LatMax: 70, LonMin: -80, LonMax: 20, Weight: 0.20, SurfaceTemp: 20, SurfaceSalinity: 35.0},
		{Name: "Southern Ocean", LatMin: -70, LatMax: -40, LonMin: -180, LonMax: 180, Weight: 0.10, SurfaceTemp: 5, SurfaceSalinity: 34.2},
		{Name: "Arctic Ocean", LatMin: 66, LatMax: 90, LonMin: -180, LonMax: 180, Weight: 0.05, SurfaceTemp: 1, SurfaceSalinity: 33.5},
	}
}

func defaultTemplates() []TemplateConfig {
	return []TemplateConfig{
		{
			ID:       "temperature",
			Keywords: [][]string{{"temperature", "temp", "thermal", "warm", "cold"}},
			Body: "Found {{.Count}} floats. " +
				"{{with .Stat \"temperature\"}}Average surface temperature is {{printf \"%.1f\" .Mean}}°C " +
				"(min {{printf \"%.1f\" .Min}}, max {{printf \"%.1f\" .Max}}). {{end}}" +
				"Temperature profile analysis generated.",
			Criteria: entity.Criteria{Parameters: []string{entity.ParamTemperature}},
		},
		{
			ID:       "salinity",
			Keywords: [][]string{{"salinity", "salt", "psu", "halocline"}},
			Body: "Found {{.Count}} floats. " +
				"{{with .Stat \"salinity\"}}Average surface salinity is {{printf \"%.2f\" .Mean}} PSU " +
				"(min {{printf \"%.2f\" .Min}}, max {{printf \"%.2f\" .Max}}). {{end}}" +
				"Salinity profile analysis included.",
			Criteria: entity.Criteria{Parameters: []string{entity.ParamSalinity}},
		},
		{
			ID:       "trajectory",
			Keywords: [][]string{{"trajectory", "path", "movement", "drift", "where", "location", "map"}},
			Body: "Found {{.Count}} floats matching your query. " +
				"Map view updated with the filtered float locations and drift tracks.",
			Criteria: entity.Criteria{Statuses: []entity.FloatStatus{entity.StatusActive}},
		},
		{
			ID:       "anomaly",
			Keywords: [][]string{{"anomaly", "unusual", "strange", "outlier"}},
			Body: "Scanned {{.Count}} floats for anomalies. " +
				"{{with .Stat \"temperature\"}}Surface temperature spans {{printf \"%.1f\" .Min}}–{{printf \"%.1f\" .Max}}°C; " +
				"values near either end are worth a closer look. {{end}}" +
				"Anomaly screening is based on simple range checks in this demo.",
			Criteria: entity.Criteria{Parameters: []string{entity.ParamTemperature}},
		},
		{
			ID:       "status",
			Keywords: [][]string{{"active", "inactive", "maintenance", "working", "operational", "status"}},
			Body: "{{.Count}} floats are currently in the requested state. " +
				"{{with .Stat \"battery_level\"}}Average battery level is {{printf \"%.0f\" .Mean}}%. {{end}}",
			Criteria: entity.Criteria{
				Statuses:   []entity.FloatStatus{entity.StatusActive},
				Parameters: []string{entity.ParamBatteryLevel},
			},
		},
	}
}
