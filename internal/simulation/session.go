package simulation

import (
	"fmt"
	"sync"

	"floatchat/internal/domain/entity"
)

// Session owns one user session's simulated data: the population, generated
// once, plus memoized profiles and trajectories. Sessions are never shared
// across users; the caches are write-once per key and read-mostly after.
type Session struct {
	meta entity.SessionMeta
	gen  *Generator

	population []entity.Float
	byID       map[string]int

	mu           sync.RWMutex
	profiles     map[string]entity.Profile
	trajectories map[string]entity.Trajectory
}

// NewSession generates the session's population up front. Re-filtering
// later never regenerates base entities.
func NewSession(meta entity.SessionMeta, gen *Generator) (*Session, error) {
	population, err := gen.GeneratePopulation(meta.Count, meta.Seed)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(population))
	for i, f := range population {
		byID[f.ID] = i
	}

	return &Session{
		meta:         meta,
		gen:          gen,
		population:   population,
		byID:         byID,
		profiles:     make(map[string]entity.Profile),
		trajectories: make(map[string]entity.Trajectory),
	}, nil
}

func (s *Session) Meta() entity.SessionMeta { return s.meta }

// Population returns the session's floats in generation order. Callers must
// treat the slice as read-only.
func (s *Session) Population() []entity.Float { return s.population }

func (s *Session) Float(floatID string) (entity.Float, error) {
	i, ok := s.byID[floatID]
	if !ok {
		return entity.Float{}, fmt.Errorf("%w: float %q not in session population",
			entity.ErrNotFound, floatID)
	}
	return s.population[i], nil
}

// Profile returns the memoized depth profile for floatID, generating it on
// first request. Repeated calls return the identical profile.
func (s *Session) Profile(floatID string) (entity.Profile, error) {
	s.mu.RLock()
	p, ok := s.profiles[floatID]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	f, err := s.Float(floatID)
	if err != nil {
		return entity.Profile{}, err
	}
	generated := s.gen.GenerateProfile(f, s.meta.Seed)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.profiles[floatID]; ok {
		// Another request computed it first; keep the stored one.
		return existing, nil
	}
	s.profiles[floatID] = generated
	return generated, nil
}

// Trajectory memoizes per (floatID, points); differing point counts are
// distinct cache entries so earlier results stay immutable.
func (s *Session) Trajectory(floatID string, points int) (entity.Trajectory, error) {
	key := fmt.Sprintf("%s:%d", floatID, points)

	s.mu.RLock()
	t, ok := s.trajectories[key]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	f, err := s.Float(floatID)
	if err != nil {
		return entity.Trajectory{}, err
	}
	generated, err := s.gen.GenerateTrajectory(f, s.meta.Seed, points)
	if err != nil {
		return entity.Trajectory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.trajectories[key]; ok {
		return existing, nil
	}
	s.trajectories[key] = generated
	return generated, nil
}
