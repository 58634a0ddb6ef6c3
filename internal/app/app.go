package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/data/filestore"
	apphttp "github.com/yungbote/vamshavali-backend/internal/http"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/observability"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

type App struct {
	Log     *logger.Logger
	Cfg     *config.Config
	Clients Clients
	Engine  *kinship.Engine
	Metrics *observability.Metrics
	Router  *gin.Engine
	Server  *apphttp.Server

	fileStore    *filestore.Store
	otelShutdown func(context.Context) error
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if err := kinship.ValidateTables(); err != nil {
		return nil, fmt.Errorf("kinship tables: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.Service,
		Environment: cfg.Env,
	})
	metrics := observability.NewMetrics()

	clients, err := wireClients(cfg, log)
	if err != nil {
		return nil, err
	}
	source, fileStore, err := wireSource(cfg, clients, log)
	if err != nil {
		clients.close(log)
		return nil, err
	}
	compounds, err := kinship.DefaultCompounds()
	if err != nil {
		clients.close(log)
		return nil, fmt.Errorf("compound table: %w", err)
	}
	augmenter, err := wirePhrasing(cfg.Phrasing, log)
	if err != nil {
		clients.close(log)
		return nil, err
	}

	engine := kinship.NewEngine(source, kinship.NewResolver(compounds), log, kinship.EngineOptions{
		Augmenter: augmenter,
		Observer:  metrics,
	})

	handlers, err := wireHandlers(engine)
	if err != nil {
		clients.close(log)
		return nil, err
	}
	router := wireRouter(cfg, log, metrics, handlers)

	a := &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Engine:       engine,
		Metrics:      metrics,
		Router:       router,
		Server:       apphttp.NewServer(cfg.HTTP, router, log),
		fileStore:    fileStore,
		otelShutdown: otelShutdown,
	}
	if clients.Bus != nil {
		engine.OnSwap(a.announce)
	}
	return a, nil
}

// Run loads the first snapshot, then serves HTTP and the refresh triggers
// until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Engine == nil {
		return fmt.Errorf("app not initialized")
	}
	if _, err := a.refresh(ctx, "startup"); err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	return a.runLoops(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.close(a.Log)
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.HTTP.ShutdownTimeout.Duration)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
