package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/manus-labs/manus-backend/config"
	agenthttp "github.com/manus-labs/manus-backend/internal/agents/http"
	httpapi "github.com/manus-labs/manus-backend/internal/api/http"
	"github.com/manus-labs/manus-backend/internal/api/http/middleware"
	"github.com/manus-labs/manus-backend/internal/auth"
	"github.com/manus-labs/manus-backend/internal/chat"
	"github.com/manus-labs/manus-backend/internal/credits"
	projecthttp "github.com/manus-labs/manus-backend/internal/projects/http"
	"github.com/manus-labs/manus-backend/internal/publish"
	"github.com/manus-labs/manus-backend/internal/store"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	AuthCfg      config.AuthConfig
	Store        store.Store
	Ledger       *credits.Ledger
	Agents       *agenthttp.Handler
	Projects     *projecthttp.Handler
	Chat         *chat.Handler
	Publish      *publish.Handler
	FirebaseAuth gin.HandlerFunc
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Debug-User", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	if dep.AuthCfg.Mode == "dev" {
		api.Use(auth.DevMiddleware())
	} else {
		api.Use(dep.FirebaseAuth)
	}

	dep.Projects.Register(api.Group("/projects"))
	dep.Agents.Register(api.Group("/agents"))
	dep.Chat.Register(api.Group("/chat"))
	dep.Publish.Register(api.Group("/publish"))

	creditsHandler := credits.NewHandler(dep.Ledger)
	creditsHandler.Register(api.Group("/credits"))
	creditsHandler.RegisterLogin(api.Group("/auth"))

	return r
}
