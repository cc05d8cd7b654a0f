package publish

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manus-labs/manus-backend/internal/auth"
)

func setupPublishRouter(t *testing.T) (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)

	svc := NewService(0)
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(auth.DevMiddleware())
	NewHandler(svc).Register(api.Group("/publish"))
	return router, svc
}

func TestPublishHandlers_BuildLifecycle(t *testing.T) {
	router, svc := setupPublishRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/publish/builds",
		strings.NewReader(`{"platform":"Android","format":"AAB","app_name":"Recipe Box","version_name":"2.0.0"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Build struct {
			ID       string `json:"id"`
			Status   string `json:"status"`
			Progress int    `json:"progress"`
		} `json:"build"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.Build.ID)
	assert.Equal(t, string(StatusPreparing), created.Build.Status)

	// Download is gated until the scripted pipeline completes.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/publish/builds/"+created.Build.ID+"/download", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)

	drain(svc, created.Build.ID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/publish/builds/"+created.Build.ID, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"progress":100`)
	assert.Contains(t, rr.Body.String(), string(StatusCompleted))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/publish/builds/"+created.Build.ID+"/download", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "recipe-box-v2.0.0.aab")
}

func TestPublishHandlers_UnknownBuild(t *testing.T) {
	router, _ := setupPublishRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/publish/builds/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPublishHandlers_InvalidPlatform(t *testing.T) {
	router, _ := setupPublishRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/publish/builds",
		strings.NewReader(`{"platform":"Symbian"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPublishHandlers_PreviewBoot(t *testing.T) {
	router, _ := setupPublishRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/publish/preview/boot", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Lines   []string `json:"lines"`
		ReadyAt int      `json:"ready_at"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Lines, 14)
	assert.Equal(t, 14, body.ReadyAt)
}
