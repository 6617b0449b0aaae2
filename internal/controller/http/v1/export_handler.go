package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"floatchat/internal/domain/entity"
)

type ExportUseCase interface {
	Create(ctx context.Context, sessionID string, format entity.ExportFormat, includeProfiles bool, criteria entity.Criteria) (*entity.ExportJob, error)
	Status(ctx context.Context, jobID string) (entity.ExportStatus, string, error)
}

type ExportHandler struct {
	UseCase ExportUseCase
}

func NewExportHandler(u ExportUseCase) *ExportHandler {
	return &ExportHandler{UseCase: u}
}

type createExportRequest struct {
	Format          entity.ExportFormat `json:"format"`
	IncludeProfiles bool                `json:"include_profiles"`
	Criteria        entity.Criteria     `json:"criteria"`
}

func (h *ExportHandler) CreateExport(c *gin.Context) {
	var req createExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.UseCase.Create(c.Request.Context(), c.Param("session_id"), req.Format, req.IncludeProfiles, req.Criteria)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_id": job.JobID, "status": job.Status})
}

func (h *ExportHandler) GetStatus(c *gin.Context) {
	jobID := c.Param("job_id")
	status, url, err := h.UseCase.Status(c.Request.Context(), jobID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if url != "" {
		c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": status, "download_url": url})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": status})
}
