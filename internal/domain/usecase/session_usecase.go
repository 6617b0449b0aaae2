package usecase

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"floatchat/internal/domain/entity"
	"floatchat/internal/query"
	"floatchat/internal/simulation"
)

type SessionMetaRepo interface {
	SaveSession(ctx context.Context, meta entity.SessionMeta) error
	GetSession(ctx context.Context, sessionID string) (*entity.SessionMeta, error)
}

// SessionUseCase manages session lifecycles. Durable metadata (seed, count)
// lives in the meta repo so any process can rebuild the identical
// population; the hydrated Session objects are cached per process.
type SessionUseCase struct {
	Meta SessionMetaRepo
	Gen  *simulation.Generator

	mu   sync.Mutex
	live map[string]*simulation.Session
}

func NewSessionUseCase(meta SessionMetaRepo, gen *simulation.Generator) *SessionUseCase {
	return &SessionUseCase{
		Meta: meta,
		Gen:  gen,
		live: make(map[string]*simulation.Session),
	}
}

// Create generates a new session's population. A zero count takes the
// configured default; a nil seed takes a fresh random one, echoed back in
// the metadata so the demo stays reproducible.
func (u *SessionUseCase) Create(ctx context.Context, count int, seed *int64) (*entity.SessionMeta, error) {
	if count == 0 {
		count = u.Gen.DefaultCount()
	}
	s := rand.Int63()
	if seed != nil {
		s = *seed
	}

	meta := entity.SessionMeta{
		SessionID: uuid.New().String(),
		Seed:      s,
		Count:     count,
		CreatedAt: time.Now().UTC(),
	}

	session, err := simulation.NewSession(meta, u.Gen)
	if err != nil {
		return nil, err
	}

	if err := u.Meta.SaveSession(ctx, meta); err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.live[meta.SessionID] = session
	u.mu.Unlock()

	return &meta, nil
}

// MetaOf returns the durable metadata for a session.
func (u *SessionUseCase) MetaOf(ctx context.Context, sessionID string) (*entity.SessionMeta, error) {
	u.mu.Lock()
	session, ok := u.live[sessionID]
	u.mu.Unlock()
	if ok {
		meta := session.Meta()
		return &meta, nil
	}
	return u.Meta.GetSession(ctx, sessionID)
}

// Population returns the session's full float population in generation
// order.
func (u *SessionUseCase) Population(ctx context.Context, sessionID string) ([]entity.Float, error) {
	session, err := u.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Population(), nil
}

// Query filters the session's population.
func (u *SessionUseCase) Query(ctx context.Context, sessionID string, criteria entity.Criteria) (*entity.QueryResult, error) {
	session, err := u.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return query.Apply(session.Population(), criteria)
}

func (u *SessionUseCase) Profile(ctx context.Context, sessionID, floatID string) (entity.Profile, error) {
	session, err := u.session(ctx, sessionID)
	if err != nil {
		return entity.Profile{}, err
	}
	return session.Profile(floatID)
}

func (u *SessionUseCase) Trajectory(ctx context.Context, sessionID, floatID string, points int) (entity.Trajectory, error) {
	session, err := u.session(ctx, sessionID)
	if err != nil {
		return entity.Trajectory{}, err
	}
	return session.Trajectory(floatID, points)
}

// session returns the hydrated session, rebuilding it from durable metadata
// after a process restart. Generation is deterministic, so the rebuilt
// population matches the original exactly.
func (u *SessionUseCase) session(ctx context.Context, sessionID string) (*simulation.Session, error) {
	u.mu.Lock()
	session, ok := u.live[sessionID]
	u.mu.Unlock()
	if ok {
		return session, nil
	}

	meta, err := u.Meta.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rebuilt, err := simulation.NewSession(*meta, u.Gen)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if existing, ok := u.live[sessionID]; ok {
		return existing, nil
	}
	u.live[sessionID] = rebuilt
	return rebuilt, nil
}
