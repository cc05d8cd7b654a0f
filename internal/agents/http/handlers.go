package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manus-labs/manus-backend/internal/agents/domain"
	"github.com/manus-labs/manus-backend/internal/agents/registry"
	"github.com/manus-labs/manus-backend/internal/auth"
)

type Handler struct {
	registry *registry.Registry
}

func New(reg *registry.Registry) *Handler {
	return &Handler{registry: reg}
}

// Register attaches agent routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.DELETE("/:id", h.delete)
	rg.POST("/import", h.importBatch)
	rg.GET("/export", h.export)
}

func (h *Handler) list(c *gin.Context) {
	userID := auth.UserID(c)
	items, err := h.registry.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "agents": items, "builtin": domain.BuiltIn()})
}

type createReq struct {
	Name              string `json:"name"`
	SystemInstruction string `json:"systemInstruction"`
	IconType          string `json:"iconType"`
	Color             string `json:"color"`
	Provider          string `json:"provider"`
	APIKey            string `json:"apiKey"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	agent, err := h.registry.Create(c.Request.Context(), userID, registry.CreateInput{
		Name:              req.Name,
		SystemInstruction: req.SystemInstruction,
		IconType:          req.IconType,
		Color:             req.Color,
		Provider:          domain.Provider(req.Provider),
		APIKey:            req.APIKey,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) || errors.Is(err, domain.ErrInstructionRequired) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "agent": agent})
}

func (h *Handler) delete(c *gin.Context) {
	userID := auth.UserID(c)
	if err := h.registry.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrBuiltInImmutable) {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// importBatch accepts either a raw JSON body or an uploaded "file" form
// field holding the roster to merge in.
func (h *Handler) importBatch(c *gin.Context) {
	raw, err := importPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Failed to parse JSON file."})
		return
	}

	userID := auth.UserID(c)
	count, err := h.registry.ImportBatch(c.Request.Context(), userID, raw)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedImport):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Failed to parse JSON file."})
		case errors.Is(err, domain.ErrNoValidAgents):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": "Invalid agent configuration format."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "imported": count})
}

func (h *Handler) export(c *gin.Context) {
	userID := auth.UserID(c)
	data, err := h.registry.ExportAll(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNothingToExport) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	name := fmt.Sprintf("manus-agent-fleet-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", data)
}

func importPayload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}
