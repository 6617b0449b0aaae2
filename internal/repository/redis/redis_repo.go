package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"floatchat/internal/domain/entity"
)

// RedisRepo holds session metadata (so a restarted process or the export
// worker can rebuild a population from its seed) and export status keys.
type RedisRepo struct {
	Client     *redis.Client
	SessionTTL time.Duration
}

func NewRedisRepo(client *redis.Client, sessionTTL time.Duration) *RedisRepo {
	if sessionTTL == 0 {
		sessionTTL = 24 * time.Hour
	}
	return &RedisRepo{Client: client, SessionTTL: sessionTTL}
}

func (r *RedisRepo) SaveSession(ctx context.Context, meta entity.SessionMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, "session:"+meta.SessionID, data, r.SessionTTL).Err()
}

func (r *RedisRepo) GetSession(ctx context.Context, sessionID string) (*entity.SessionMeta, error) {
	data, err := r.Client.Get(ctx, "session:"+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: session %q", entity.ErrNotFound, sessionID)
		}
		return nil, err
	}

	meta := &entity.SessionMeta{}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func (r *RedisRepo) SetStatus(ctx context.Context, jobID, status string) error {
	return r.Client.Set(ctx, "export_status:"+jobID, status, time.Hour).Err()
}

func (r *RedisRepo) GetStatus(ctx context.Context, jobID string) (string, error) {
	status, err := r.Client.Get(ctx, "export_status:"+jobID).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: export status for %q", entity.ErrNotFound, jobID)
	}
	return status, err
}
