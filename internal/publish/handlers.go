package publish

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manus-labs/manus-backend/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/builds", h.startBuild)
	rg.GET("/builds/:id", h.getBuild)
	rg.GET("/builds/:id/download", h.download)
	rg.GET("/preview/boot", h.previewBoot)
}

type startBuildRequest struct {
	Platform    string `json:"platform"`
	Format      string `json:"format"`
	AppName     string `json:"app_name"`
	VersionName string `json:"version_name"`
	VersionCode string `json:"version_code"`
}

func (h *Handler) startBuild(c *gin.Context) {
	var req startBuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	build, err := h.service.Start(auth.UserID(c), BuildSpec{
		Platform:    Platform(req.Platform),
		Format:      AndroidFormat(req.Format),
		AppName:     req.AppName,
		VersionName: req.VersionName,
		VersionCode: req.VersionCode,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "build": buildView(build)})
}

func (h *Handler) getBuild(c *gin.Context) {
	build, ok := h.service.Get(auth.UserID(c), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "build not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "build": buildView(build)})
}

func (h *Handler) download(c *gin.Context) {
	name, payload, ok := h.service.Download(auth.UserID(c), c.Param("id"))
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "build artifact not available"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/octet-stream", payload)
}

func (h *Handler) previewBoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "lines": BootLog(), "ready_at": bootLogLength})
}

func buildView(b *Build) gin.H {
	return gin.H{
		"id":       b.ID,
		"platform": b.Spec.Platform,
		"format":   b.Spec.Format,
		"app_name": b.Spec.AppName,
		"version":  b.Spec.VersionName,
		"status":   b.Status,
		"progress": b.Progress,
		"logs":     b.Logs,
	}
}
