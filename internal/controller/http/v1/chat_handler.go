package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"floatchat/internal/chat"
	"floatchat/internal/domain/entity"
)

type ChatUseCase interface {
	Respond(ctx context.Context, sessionID, message string, criteriaContext entity.Criteria) (*chat.Response, error)
	HistoryOf(ctx context.Context, sessionID, keyword string, limit int) ([]entity.ChatRecord, error)
	Clear(ctx context.Context, sessionID string) (int64, error)
	Welcome() string
}

type ChatHandler struct {
	UseCase ChatUseCase
}

func NewChatHandler(u ChatUseCase) *ChatHandler {
	return &ChatHandler{UseCase: u}
}

type chatRequest struct {
	Message  string          `json:"message"`
	Criteria entity.Criteria `json:"criteria"`
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.UseCase.Respond(c.Request.Context(), c.Param("session_id"), req.Message, req.Criteria)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = v
	}

	records, err := h.UseCase.HistoryOf(c.Request.Context(), c.Param("session_id"), c.Query("keyword"), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records, "welcome": h.UseCase.Welcome()})
}

func (h *ChatHandler) ClearHistory(c *gin.Context) {
	deleted, err := h.UseCase.Clear(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
