package simulation

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"floatchat/internal/config"
	"floatchat/internal/domain/entity"
)

const floatIDBase = 5900000

// Generator produces simulated ARGO float data from a seeded random
// process. Every method is deterministic given the same arguments: the same
// (count, seed) pair yields the same population, and the same
// (float, seed) pair yields the same profile and trajectory, in this
// process or any other.
type Generator struct {
	cfg       config.SimulationConfig
	regionCum []float64
	statusCum []float64
}

func NewGenerator(cfg config.SimulationConfig) *Generator {
	g := &Generator{cfg: cfg}
	g.regionCum = make([]float64, len(cfg.Regions))
	var sum float64
	for i, r := range cfg.Regions {
		sum += r.Weight
		g.regionCum[i] = sum
	}
	g.statusCum = make([]float64, len(cfg.Statuses))
	sum = 0
	for i, s := range cfg.Statuses {
		sum += s.Weight
		g.statusCum[i] = sum
	}
	return g
}

func (g *Generator) DefaultCount() int { return g.cfg.DefaultCount }

// GeneratePopulation creates count floats spread over the configured
// regions by weight. The output order is the generation order and is part
// of the contract: repeated calls return identical slices.
func (g *Generator) GeneratePopulation(count int, seed int64) ([]entity.Float, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: population count must be positive, got %d",
			entity.ErrInvalidArgument, count)
	}

	rng := rand.New(rand.NewSource(seed))
	depthOptions := []float64{1000, 1500, 2000, 2500}

	floats := make([]entity.Float, 0, count)
	for i := 0; i < count; i++ {
		region := g.pickRegion(rng)

		lat := region.LatMin + rng.Float64()*(region.LatMax-region.LatMin)
		lon := pickLongitude(rng, region.LonMin, region.LonMax)

		f := entity.Float{
			ID:              fmt.Sprintf("WMO_%d", floatIDBase+i),
			Latitude:        round(lat, 4),
			Longitude:       round(lon, 4),
			Region:          region.Name,
			Type:            g.cfg.FloatTypes[rng.Intn(len(g.cfg.FloatTypes))],
			Institution:     g.cfg.Institutions[rng.Intn(len(g.cfg.Institutions))],
			Status:          g.pickStatus(rng),
			DeployedAt:      g.cfg.Epoch.AddDate(0, 0, -rng.Intn(365*3)),
			LastProfileAt:   g.cfg.Epoch.AddDate(0, 0, -rng.Intn(30)),
			CycleNumber:     1 + rng.Intn(200),
			MaxDepth:        depthOptions[rng.Intn(len(depthOptions))],
			BatteryLevel:    round(20+rng.Float64()*80, 1),
			SurfaceTemp:     round(region.SurfaceTemp+rng.NormFloat64()*2, 2),
			SurfaceSalinity: round(clamp(region.SurfaceSalinity+rng.NormFloat64()*0.3, g.cfg.Profile.SalinityMin, g.cfg.Profile.SalinityMax), 2),
			HasOxygen:       rng.Float64() < g.cfg.Profile.OxygenRatio,
		}
		floats = append(floats, f)
	}
	return floats, nil
}

// GenerateProfile builds the depth profile for one float. Depth is strictly
// increasing; temperature follows a thermocline decay with bounded noise
// and is clamped so it never increases with depth.
func (g *Generator) GenerateProfile(f entity.Float, seed int64) entity.Profile {
	rng := rand.New(rand.NewSource(subSeed("profile", f.ID, seed)))
	p := g.cfg.Profile

	deepTemp := p.DeepTempMin + rng.Float64()*(p.DeepTempMax-p.DeepTempMin)
	haloclineShift := -0.5 + rng.Float64()

	samples := make([]entity.ProfileSample, 0, int(f.MaxDepth/p.DepthStep)+1)
	prevTemp := math.Inf(1)
	for depth := 0.0; depth <= f.MaxDepth; depth += p.DepthStep {
		temp := deepTemp + (f.SurfaceTemp-deepTemp)*math.Exp(-depth/p.ThermoclineE)
		temp += rng.NormFloat64() * p.TempNoise
		if temp > prevTemp {
			temp = prevTemp
		}
		prevTemp = temp

		salinity := f.SurfaceSalinity + rng.NormFloat64()*p.SalinityNoise
		if depth > 100 && depth < 500 {
			salinity += haloclineShift
		}
		salinity = clamp(salinity, p.SalinityMin, p.SalinityMax)

		sample := entity.ProfileSample{
			Depth:       depth,
			Temperature: round(temp, 2),
			Salinity:    round(salinity, 3),
		}
		if f.HasOxygen {
			oxy := round(40+220*math.Exp(-depth/400)+rng.NormFloat64()*5, 1)
			sample.Oxygen = &oxy
		}
		samples = append(samples, sample)
	}

	return entity.Profile{
		FloatID: f.ID,
		TakenAt: f.LastProfileAt,
		Samples: samples,
	}
}

// GenerateTrajectory builds a bounded random walk from the float's
// registered position, one point per cycle interval starting at deployment.
func (g *Generator) GenerateTrajectory(f entity.Float, seed int64, points int) (entity.Trajectory, error) {
	if points <= 0 {
		return entity.Trajectory{}, fmt.Errorf("%w: trajectory point count must be positive, got %d",
			entity.ErrInvalidArgument, points)
	}

	rng := rand.New(rand.NewSource(subSeed("trajectory", f.ID, seed)))
	tr := g.cfg.Trajectory

	lat, lon := f.Latitude, f.Longitude
	ts := f.DeployedAt

	pts := make([]entity.TrajectoryPoint, 0, points)
	for i := 0; i < points; i++ {
		pts = append(pts, entity.TrajectoryPoint{
			Timestamp: ts,
			Latitude:  round(lat, 4),
			Longitude: round(lon, 4),
		})

		lat = clamp(lat+(rng.Float64()*2-1)*tr.MaxStepDeg, -90, 90)
		lon = wrapLongitude(lon + (rng.Float64()*2-1)*tr.MaxStepDeg)
		ts = ts.Add(tr.StepInterval)
	}

	return entity.Trajectory{FloatID: f.ID, Points: pts}, nil
}

func (g *Generator) pickRegion(rng *rand.Rand) config.RegionConfig {
	total := g.regionCum[len(g.regionCum)-1]
	v := rng.Float64() * total
	for i, cum := range g.regionCum {
		if v < cum {
			return g.cfg.Regions[i]
		}
	}
	return g.cfg.Regions[len(g.cfg.Regions)-1]
}

func (g *Generator) pickStatus(rng *rand.Rand) entity.FloatStatus {
	total := g.statusCum[len(g.statusCum)-1]
	v := rng.Float64() * total
	for i, cum := range g.statusCum {
		if v < cum {
			return entity.FloatStatus(g.cfg.Statuses[i].Name)
		}
	}
	return entity.FloatStatus(g.cfg.Statuses[len(g.cfg.Statuses)-1].Name)
}

// pickLongitude handles regions that cross the antimeridian, where the
// configured max is numerically below the min (e.g. Pacific 120..-60).
func pickLongitude(rng *rand.Rand, min, max float64) float64 {
	if max >= min {
		return min + rng.Float64()*(max-min)
	}
	span := (180 - min) + (max + 180)
	v := min + rng.Float64()*span
	return wrapLongitude(v)
}

func wrapLongitude(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// subSeed derives a stable per-float seed so profiles and trajectories stay
// deterministic per (float_id, seed) without correlating with each other.
func subSeed(kind, floatID string, seed int64) int64 {
	h := fnv.New64a()
	h.Write([]byte(kind))
	h.Write([]byte(":"))
	h.Write([]byte(floatID))
	return int64(h.Sum64()) ^ seed
}
