package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/manus-labs/manus-backend/config"
	agenthttp "github.com/manus-labs/manus-backend/internal/agents/http"
	"github.com/manus-labs/manus-backend/internal/agents/registry"
	"github.com/manus-labs/manus-backend/internal/auth"
	"github.com/manus-labs/manus-backend/internal/bootstrap"
	"github.com/manus-labs/manus-backend/internal/chat"
	"github.com/manus-labs/manus-backend/internal/chat/llm"
	"github.com/manus-labs/manus-backend/internal/credits"
	projecthttp "github.com/manus-labs/manus-backend/internal/projects/http"
	"github.com/manus-labs/manus-backend/internal/projects/service"
	"github.com/manus-labs/manus-backend/internal/publish"
)

const serviceName = "manus-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	st, closeStore, err := bootstrap.OpenStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	var firebaseAuth gin.HandlerFunc
	if cfg.Auth.Mode == "firebase" {
		authClient, err := auth.InitializeFirebase(&cfg.Auth)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		firebaseAuth = auth.FirebaseMiddleware(authClient)
	}

	ledger := credits.NewLedger()
	agents := registry.New(st)
	projects := service.NewProjectService(st)
	orchestrator := chat.NewOrchestrator(agents, projects, ledger, llm.NewFactory(cfg.LLM))
	builds := publish.NewService(cfg.Publish.StepInterval)

	if cfg.Publish.ProgressCron != "" {
		ticker := service.NewProgressTicker(projects, cfg.Publish.ProgressCron)
		ticker.Start()
		defer ticker.Stop()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:  serviceName,
		Version:      cfg.App.Version,
		AuthCfg:      cfg.Auth,
		Store:        st,
		Ledger:       ledger,
		Agents:       agenthttp.New(agents),
		Projects:     projecthttp.New(projects),
		Chat:         chat.NewHandler(orchestrator),
		Publish:      publish.NewHandler(builds),
		FirebaseAuth: firebaseAuth,
	})

	log.Printf("%s v%s listening on :%s", serviceName, cfg.App.Version, cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
