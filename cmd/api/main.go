package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plancharts/internal/api"
	"plancharts/internal/charts"
	"plancharts/internal/config"
	"plancharts/internal/defaults"
	"plancharts/internal/format"
	"plancharts/internal/host"
	"plancharts/internal/logging"
	"plancharts/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("PLANCHARTS_CONFIG"), "Path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := defaults.Load()
	if err != nil {
		return err
	}
	if cfg.DatasetsFile != "" {
		if ds, err = defaults.LoadFile(cfg.DatasetsFile); err != nil {
			return fmt.Errorf("load datasets: %w", err)
		}
		logger.Info("loaded datasets override", zap.String("path", cfg.DatasetsFile))
	}
	store := defaults.NewStore(ds)
	if cfg.WatchDatasets {
		if err := defaults.Watch(ctx, cfg.DatasetsFile, store, logger); err != nil {
			return fmt.Errorf("watch datasets: %w", err)
		}
	}

	m := metrics.New().WithRuntime()
	catalog := charts.NewCatalog(store, format.New(cfg.Palette), charts.WithMilestone(cfg.Milestone))
	h := host.New(catalog, host.WithLogger(logger), host.WithMetrics(m))

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.Deps{
		Server:  cfg.Server,
		Host:    h,
		Catalog: catalog,
		Metrics: m,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
