package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"floatchat/internal/domain/entity"
	"floatchat/pkg/utils"
)

type ExportStatusRepo interface {
	SetStatus(ctx context.Context, jobID, status string) error
	GetStatus(ctx context.Context, jobID string) (string, error)
}

type ExportJobRepo interface {
	CreateJob(ctx context.Context, job *entity.ExportJob) error
	GetJob(ctx context.Context, jobID string) (*entity.ExportJob, error)
	UpdateJobResult(ctx context.Context, jobID string, status entity.ExportStatus, objectKey string) error
}

type ArtifactStore interface {
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, body json.RawMessage) error
}

// ExportUseCase accepts export requests on the API side: it records the job,
// hands it to the worker over the queue and answers status polls with a
// presigned download URL once the artifact exists.
type ExportUseCase struct {
	StatusRepo ExportStatusRepo
	Jobs       ExportJobRepo
	Store      ArtifactStore
	Publisher  Publisher
	Sessions   *SessionUseCase
}

func NewExportUseCase(status ExportStatusRepo, jobs ExportJobRepo, store ArtifactStore, pub Publisher, sessions *SessionUseCase) *ExportUseCase {
	return &ExportUseCase{
		StatusRepo: status,
		Jobs:       jobs,
		Store:      store,
		Publisher:  pub,
		Sessions:   sessions,
	}
}

func (u *ExportUseCase) Create(ctx context.Context, sessionID string, format entity.ExportFormat, includeProfiles bool, criteria entity.Criteria) (*entity.ExportJob, error) {
	if format != entity.FormatCSV && format != entity.FormatJSON {
		return nil, fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidArgument, format)
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	meta, err := u.Sessions.MetaOf(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	job := &entity.ExportJob{
		JobID:     uuid.New().String(),
		SessionID: sessionID,
		Format:    format,
		Status:    entity.ExportPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := u.Jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	if err := u.StatusRepo.SetStatus(ctx, job.JobID, string(job.Status)); err != nil {
		return nil, err
	}

	msg := entity.ExportRequestedMessage{
		JobID:           job.JobID,
		SessionID:       sessionID,
		Seed:            meta.Seed,
		Count:           meta.Count,
		Format:          format,
		IncludeProfiles: includeProfiles,
		Criteria:        criteria,
	}
	body, err := utils.ToRawMessage(msg)
	if err != nil {
		return nil, err
	}
	if err := u.publishWithRetry(ctx, body); err != nil {
		return nil, err
	}

	return job, nil
}

// Status reports the job state; a completed job also carries a presigned
// download URL for the uploaded artifact.
func (u *ExportUseCase) Status(ctx context.Context, jobID string) (entity.ExportStatus, string, error) {
	statusStr, err := u.StatusRepo.GetStatus(ctx, jobID)
	if err != nil {
		// Fall back to the durable row when the status key has expired.
		job, jobErr := u.Jobs.GetJob(ctx, jobID)
		if jobErr != nil {
			return "", "", jobErr
		}
		statusStr = string(job.Status)
	}

	if statusStr != string(entity.ExportCompleted) {
		return entity.ExportStatus(statusStr), "", nil
	}

	job, err := u.Jobs.GetJob(ctx, jobID)
	if err != nil {
		return "", "", err
	}
	url, err := u.Store.GetPresignedURL(ctx, job.ObjectKey, 24*time.Hour)
	if err != nil {
		return "", "", err
	}
	return entity.ExportCompleted, url, nil
}

func (u *ExportUseCase) publishWithRetry(ctx context.Context, msg json.RawMessage) error {
	var (
		baseDelay   = 500 * time.Millisecond
		maxDelay    = 10 * time.Second
		maxAttempts = 5
	)

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := u.Publisher.Publish(ctx, msg); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == maxAttempts {
			break
		}

		backoff := baseDelay << (attempt - 1)
		if backoff > maxDelay {
			backoff = maxDelay
		}

		select {
		case <-time.After(backoff):

		case <-ctx.Done():
			return errors.New("publish canceled by context")
		}
	}

	return lastErr
}
