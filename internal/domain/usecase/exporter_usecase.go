package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"floatchat/internal/domain/entity"
	"floatchat/internal/query"
	"floatchat/internal/simulation"
	"floatchat/pkg/export"
)

type ArtifactUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// ExporterUseCase is the worker side of the export pipeline: it rebuilds
// the session's population from the message's seed, filters it, renders the
// requested format and uploads the artifact.
type ExporterUseCase struct {
	Gen        *simulation.Generator
	Jobs       ExportJobRepo
	StatusRepo ExportStatusRepo
	Store      ArtifactUploader
	Log        *zap.SugaredLogger
}

func NewExporterUseCase(gen *simulation.Generator, jobs ExportJobRepo, status ExportStatusRepo, store ArtifactUploader, log *zap.SugaredLogger) *ExporterUseCase {
	return &ExporterUseCase{
		Gen:        gen,
		Jobs:       jobs,
		StatusRepo: status,
		Store:      store,
		Log:        log,
	}
}

func (u *ExporterUseCase) Process(ctx context.Context, msg *entity.ExportRequestedMessage) error {
	u.Log.Infow("processing export", "job_id", msg.JobID, "session_id", msg.SessionID, "format", msg.Format)

	u.setStatus(ctx, msg.JobID, entity.ExportRunning, "")

	population, err := u.Gen.GeneratePopulation(msg.Count, msg.Seed)
	if err != nil {
		return u.fail(ctx, msg.JobID, err)
	}

	result, err := query.Apply(population, msg.Criteria)
	if err != nil {
		return u.fail(ctx, msg.JobID, err)
	}

	var profiles []entity.Profile
	if msg.IncludeProfiles {
		profiles = make([]entity.Profile, 0, len(result.Floats))
		for _, f := range result.Floats {
			profiles = append(profiles, u.Gen.GenerateProfile(f, msg.Seed))
		}
	}

	data, contentType, err := export.Encode(result, profiles, msg.Format)
	if err != nil {
		return u.fail(ctx, msg.JobID, err)
	}

	key := fmt.Sprintf("exports/%s/floats.%s", msg.JobID, msg.Format)
	if err := u.Store.Upload(ctx, key, data, contentType); err != nil {
		return u.fail(ctx, msg.JobID, err)
	}

	u.setStatus(ctx, msg.JobID, entity.ExportCompleted, key)
	u.Log.Infow("export completed", "job_id", msg.JobID, "key", key, "floats", result.Count)
	return nil
}

func (u *ExporterUseCase) fail(ctx context.Context, jobID string, err error) error {
	u.Log.Errorw("export failed", "job_id", jobID, "error", err)
	u.setStatus(ctx, jobID, entity.ExportFailed, "")
	return err
}

func (u *ExporterUseCase) setStatus(ctx context.Context, jobID string, status entity.ExportStatus, objectKey string) {
	if err := u.Jobs.UpdateJobResult(ctx, jobID, status, objectKey); err != nil {
		u.Log.Warnw("update job row", "job_id", jobID, "error", err)
	}
	if err := u.StatusRepo.SetStatus(ctx, jobID, string(status)); err != nil {
		u.Log.Warnw("update status key", "job_id", jobID, "error", err)
	}
}
