// Package main is the entry point for the patch streaming server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/veldt/internal/config"
	"github.com/Faultbox/veldt/internal/engine/tessellate"
	"github.com/Faultbox/veldt/internal/logger"
	"github.com/Faultbox/veldt/internal/stream"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logCfg := logger.Default(cfg.Logging.Level)
	logCfg.File = cfg.Logging.LogFile
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Veldt Patch Server ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	srv, err := stream.NewServer(cfg.Server.Addr, viewConfig(cfg),
		tessellate.WithDensity(densityPolicy(cfg)),
		tessellate.WithCulling(cfg.LOD.Cull),
		tessellate.WithWorkers(cfg.LOD.Workers),
	)
	if err != nil {
		logger.Error("failed to create server", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
			os.Exit(1)
		}
		<-errCh
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("server closed normally")
}

func viewConfig(cfg *config.Config) tessellate.ViewConfig {
	return tessellate.ViewConfig{
		Scale:           cfg.Terrain.Scale,
		ViewerHeight:    cfg.LOD.ViewerHeight,
		ViewDistance:    cfg.LOD.ViewDistance,
		MaxDepth:        uint32(cfg.Terrain.MaxDepth),
		WorldExtent:     uint32(cfg.Terrain.Extent),
		RootGrid:        uint32(cfg.Terrain.RootGrid),
		SubdivisionBias: cfg.LOD.SubdivisionBias,
		TerrainHeight:   cfg.Terrain.Height,
	}
}

func densityPolicy(cfg *config.Config) tessellate.DensityPolicy {
	if cfg.LOD.Density == "fixed" {
		return tessellate.FixedDensity{Level: uint32(cfg.LOD.FixedLevel)}
	}
	return tessellate.NewProceduralDensity(cfg.Terrain.Seed)
}
