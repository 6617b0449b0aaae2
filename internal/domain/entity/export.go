package entity

import (
	"time"

	"gorm.io/gorm"
)

type ExportStatus string

const (
	ExportPending   ExportStatus = "PENDING"
	ExportRunning   ExportStatus = "RUNNING"
	ExportCompleted ExportStatus = "COMPLETED"
	ExportFailed    ExportStatus = "FAILED"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportJob tracks one user-initiated data download. The worker fills in
// ObjectKey once the artifact is uploaded.
type ExportJob struct {
	JobID     string         `gorm:"primaryKey;type:uuid" json:"job_id"`
	SessionID string         `gorm:"index;not null;type:uuid" json:"session_id"`
	Format    ExportFormat   `gorm:"not null;type:text" json:"format"`
	Status    ExportStatus   `gorm:"not null;type:text" json:"status"`
	ObjectKey string         `json:"object_key,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
