package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"floatchat/internal/domain/entity"
)

type SessionUseCase interface {
	Create(ctx context.Context, count int, seed *int64) (*entity.SessionMeta, error)
	Population(ctx context.Context, sessionID string) ([]entity.Float, error)
	Query(ctx context.Context, sessionID string, criteria entity.Criteria) (*entity.QueryResult, error)
	Profile(ctx context.Context, sessionID, floatID string) (entity.Profile, error)
	Trajectory(ctx context.Context, sessionID, floatID string, points int) (entity.Trajectory, error)
}

type SessionHandler struct {
	UseCase SessionUseCase
}

func NewSessionHandler(u SessionUseCase) *SessionHandler {
	return &SessionHandler{UseCase: u}
}

type createSessionRequest struct {
	Count int    `json:"count"`
	Seed  *int64 `json:"seed"`
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	req := createSessionRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	meta, err := h.UseCase.Create(c.Request.Context(), req.Count, req.Seed)
	if err != nil {
		abortWithError(c, err)
		return
	}

	population, err := h.UseCase.Population(c.Request.Context(), meta.SessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	regions := make(map[string]int)
	for _, f := range population {
		regions[f.Region]++
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": meta.SessionID,
		"seed":       meta.Seed,
		"count":      meta.Count,
		"created_at": meta.CreatedAt,
		"regions":    regions,
	})
}

func (h *SessionHandler) GetFloats(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, err := h.UseCase.Query(c.Request.Context(), c.Param("session_id"), criteria)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) GetProfile(c *gin.Context) {
	profile, err := h.UseCase.Profile(c.Request.Context(), c.Param("session_id"), c.Param("float_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *SessionHandler) GetTrajectory(c *gin.Context) {
	points := 20
	if raw := c.Query("points"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, fmt.Errorf("%w: points: %v", entity.ErrInvalidArgument, err))
			return
		}
		points = v
	}

	trajectory, err := h.UseCase.Trajectory(c.Request.Context(), c.Param("session_id"), c.Param("float_id"), points)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, trajectory)
}
