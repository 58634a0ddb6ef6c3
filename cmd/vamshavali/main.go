package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/vamshavali-backend/internal/app"
	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("app init failed", "error", err)
		log.Sync()
		os.Exit(1)
	}
	defer a.Close()

	log.Info("starting vamshavali", "addr", cfg.HTTP.Addr, "store", cfg.Store.Kind, "phrasing", cfg.Phrasing.Engine.Type)
	if err := a.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
