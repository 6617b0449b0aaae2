package psql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"floatchat/internal/domain/entity"
)

type GormExportRepo struct {
	DB *gorm.DB
}

func NewGormExportRepo(db *gorm.DB) *GormExportRepo {
	return &GormExportRepo{DB: db}
}

func (r *GormExportRepo) CreateJob(ctx context.Context, job *entity.ExportJob) error {
	return r.DB.WithContext(ctx).Create(job).Error
}

func (r *GormExportRepo) GetJob(ctx context.Context, jobID string) (*entity.ExportJob, error) {
	job := &entity.ExportJob{}
	if err := r.DB.WithContext(ctx).First(job, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: export job %q", entity.ErrNotFound, jobID)
		}
		return nil, err
	}
	return job, nil
}

// UpdateJobResult writes the terminal state; objectKey is kept empty until
// the artifact is uploaded.
func (r *GormExportRepo) UpdateJobResult(ctx context.Context, jobID string, status entity.ExportStatus, objectKey string) error {
	job := &entity.ExportJob{}
	if err := r.DB.WithContext(ctx).First(job, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: export job %q", entity.ErrNotFound, jobID)
		}
		return err
	}

	job.Status = status
	if objectKey != "" {
		job.ObjectKey = objectKey
	}
	job.UpdatedAt = time.Now()

	return r.DB.WithContext(ctx).Save(job).Error
}
