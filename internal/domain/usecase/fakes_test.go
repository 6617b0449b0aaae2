package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"floatchat/internal/domain/entity"
)

type fakeMetaRepo struct {
	mu       sync.Mutex
	sessions map[string]entity.SessionMeta
}

func newFakeMetaRepo() *fakeMetaRepo {
	return &fakeMetaRepo{sessions: make(map[string]entity.SessionMeta)}
}

func (r *fakeMetaRepo) SaveSession(_ context.Context, meta entity.SessionMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[meta.SessionID] = meta
	return nil
}

func (r *fakeMetaRepo) GetSession(_ context.Context, sessionID string) (*entity.SessionMeta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %q", entity.ErrNotFound, sessionID)
	}
	return &meta, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	nextID  uint
	records []entity.ChatRecord
}

func (r *fakeHistoryRepo) SaveRecord(_ context.Context, record *entity.ChatRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = r.nextID
	record.CreatedAt = time.Now()
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeHistoryRepo) History(_ context.Context, sessionID, keyword string, limit int) ([]entity.ChatRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.ChatRecord
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		rec := r.records[i]
		if rec.SessionID != sessionID {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(rec.UserMessage), strings.ToLower(keyword)) &&
			!strings.Contains(strings.ToLower(rec.BotResponse), strings.ToLower(keyword)) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *fakeHistoryRepo) Clear(_ context.Context, sessionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	var removed int64
	for _, rec := range r.records {
		if rec.SessionID == sessionID {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return removed, nil
}

type fakeStatusRepo struct {
	mu       sync.Mutex
	statuses map[string]string
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{statuses: make(map[string]string)}
}

func (r *fakeStatusRepo) SetStatus(_ context.Context, jobID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[jobID] = status
	return nil
}

func (r *fakeStatusRepo) GetStatus(_ context.Context, jobID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.statuses[jobID]
	if !ok {
		return "", fmt.Errorf("%w: status for job %q", entity.ErrNotFound, jobID)
	}
	return status, nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]entity.ExportJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]entity.ExportJob)}
}

func (r *fakeJobRepo) CreateJob(_ context.Context, job *entity.ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.JobID] = *job
	return nil
}

func (r *fakeJobRepo) GetJob(_ context.Context, jobID string) (*entity.ExportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: export job %q", entity.ErrNotFound, jobID)
	}
	return &job, nil
}

func (r *fakeJobRepo) UpdateJobResult(_ context.Context, jobID string, status entity.ExportStatus, objectKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("%w: export job %q", entity.ErrNotFound, jobID)
	}
	job.Status = status
	if objectKey != "" {
		job.ObjectKey = objectKey
	}
	job.UpdatedAt = time.Now()
	r.jobs[jobID] = job
	return nil
}

type uploadedArtifact struct {
	data        []byte
	contentType string
}

type fakeArtifactStore struct {
	mu      sync.Mutex
	objects map[string]uploadedArtifact
}

func newFakeArtifactStore() *fakeArtifactStore {
	return &fakeArtifactStore{objects: make(map[string]uploadedArtifact)}
}

func (s *fakeArtifactStore) Upload(_ context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = uploadedArtifact{data: data, contentType: contentType}
	return nil
}

func (s *fakeArtifactStore) GetPresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("%w: object %q", entity.ErrNotFound, key)
	}
	return "https://minio.test/" + key + "?signed", nil
}

// fakePublisher fails the first failures attempts, then accepts.
type fakePublisher struct {
	mu        sync.Mutex
	failures  int
	attempts  int
	published []json.RawMessage
}

func (p *fakePublisher) Publish(_ context.Context, body json.RawMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts++
	if p.attempts <= p.failures {
		return fmt.Errorf("broker unavailable (attempt %d)", p.attempts)
	}
	p.published = append(p.published, body)
	return nil
}
