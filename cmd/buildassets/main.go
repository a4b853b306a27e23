// Package main builds render meshes, collision shapes and texture
// descriptors from every OBJ file under the assets root.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/imzadi/assetpipe/internal/config"
	"github.com/imzadi/assetpipe/internal/logger"
	"github.com/imzadi/assetpipe/internal/mesh"
	"github.com/imzadi/assetpipe/internal/watch"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	root, err := cfg.Root()
	if err != nil {
		logger.Error("resolving assets root", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("=== Imzadi asset build ===", zap.String("root", root))

	build := func() error { return mesh.BuildAll(root) }
	if err := build(); err != nil {
		logger.Error("asset build failed", zap.Error(err))
		if !cfg.Watch.Enabled {
			logger.Sync()
			os.Exit(1)
		}
	}

	if cfg.Watch.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watch.Run(ctx, root, []string{".obj", ".png"}, cfg.Watch.Debounce, build); err != nil {
			logger.Error("watch failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
	}
}
