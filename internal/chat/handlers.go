package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manus-labs/manus-backend/internal/api/http/middleware"
	"github.com/manus-labs/manus-backend/internal/auth"
	"github.com/manus-labs/manus-backend/internal/projects/domain"
)

type Handler struct {
	orchestrator *Orchestrator
}

func NewHandler(orchestrator *Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/send", h.send)
}

func (h *Handler) send(c *gin.Context) {
	userID := auth.UserID(c)

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	result, err := h.orchestrator.Send(c.Request.Context(), userID, req)
	if err != nil {
		var failure *SendFailure
		switch {
		case errors.As(err, &failure):
			c.JSON(http.StatusBadGateway, gin.H{
				"ok":       false,
				"kind":     failure.Kind,
				"error":    failure.Message(),
				"agent_id": failure.AgentID,
			})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		default:
			log.Printf("chat send failed rid=%s user=%s: %v",
				middleware.FromContext(c.Request.Context()), userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		}
		return
	}

	switch {
	case result.Refused:
		c.JSON(http.StatusOK, gin.H{"ok": true, "refused": true})
	case result.NeedsTopup:
		c.JSON(http.StatusPaymentRequired, gin.H{
			"ok":          false,
			"needs_topup": true,
			"text":        result.Text,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"ok":                true,
			"project":           result.Project,
			"user_message":      result.UserMessage,
			"assistant_message": result.AssistantMessage,
		})
	}
}
