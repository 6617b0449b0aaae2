package entity

import (
	"fmt"
	"time"
)

type FloatStatus string

const (
	StatusActive      FloatStatus = "active"
	StatusInactive    FloatStatus = "inactive"
	StatusMaintenance FloatStatus = "maintenance"
)

// Float is one simulated ARGO float. The population is generated once per
// session and never mutated afterwards.
type Float struct {
	ID              string      `json:"id"`
	Latitude        float64     `json:"latitude"`
	Longitude       float64     `json:"longitude"`
	Region          string      `json:"region"`
	Type            string      `json:"type"`
	Institution     string      `json:"institution"`
	Status          FloatStatus `json:"status"`
	DeployedAt      time.Time   `json:"deployed_at"`
	LastProfileAt   time.Time   `json:"last_profile_at"`
	CycleNumber     int         `json:"cycle_number"`
	MaxDepth        float64     `json:"max_depth"`
	BatteryLevel    float64     `json:"battery_level"`
	SurfaceTemp     float64     `json:"surface_temp"`
	SurfaceSalinity float64     `json:"surface_salinity"`
	HasOxygen       bool        `json:"has_oxygen"`
}

func (f *Float) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("%w: float id is required", ErrInvalidArgument)
	}
	if f.Latitude < -90 || f.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f out of range", ErrInvalidArgument, f.Latitude)
	}
	if f.Longitude < -180 || f.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f out of range", ErrInvalidArgument, f.Longitude)
	}
	return nil
}

type ProfileSample struct {
	Depth       float64  `json:"depth"`
	Temperature float64  `json:"temperature"`
	Salinity    float64  `json:"salinity"`
	Oxygen      *float64 `json:"oxygen,omitempty"`
}

// Profile is a single depth-ordered measurement sequence for one float.
// Depths are strictly increasing from the surface.
type Profile struct {
	FloatID string          `json:"float_id"`
	TakenAt time.Time       `json:"taken_at"`
	Samples []ProfileSample `json:"samples"`
}

type TrajectoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// Trajectory is a float's drift history; timestamps are strictly increasing.
type Trajectory struct {
	FloatID string            `json:"float_id"`
	Points  []TrajectoryPoint `json:"points"`
}
