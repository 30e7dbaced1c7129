package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/refranero/hangedgame/internal/api"
	"github.com/refranero/hangedgame/internal/config"
	"github.com/refranero/hangedgame/internal/factory"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app, err := factory.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load the phrase corpus: prefer storage, fall back to the corpus file.
	ctx := context.Background()
	if err := app.PhraseService.LoadFromStorage(ctx); err != nil {
		if err := app.PhraseService.LoadFromFile(ctx, cfg.Storage.PhrasesPath); err != nil {
			logger.Error("could not load phrase corpus", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	logger.Info("phrase corpus loaded", slog.Int("phrases", app.PhraseService.Count()))

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Optional admin API
	var adminServer *api.Server
	if cfg.Admin.Enabled {
		adminCfg := api.DefaultServerConfig()
		adminCfg.Addr = cfg.Admin.Addr
		adminServer = api.NewServer(api.NewRouter(api.RouterConfig{
			Logger:   logger,
			Users:    app.UserService,
			Registry: app.Registry,
		}), adminCfg, logger)

		go func() {
			if err := adminServer.Start(); err != nil {
				logger.Error("admin server error", slog.String("error", err.Error()))
			}
		}()
	}

	// Start the game server
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Server.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if adminServer != nil {
			if err := adminServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("admin shutdown error", slog.String("error", err.Error()))
			}
		}
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}
