// Package main compiles every shader descriptor under the assets root and
// records the layout of their constant buffers.
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
	"github.com/imzadi/assetpipe/internal/shader"
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
	logger.Info("=== Imzadi shader build ===", zap.String("root", root))
	logger.Sugar.Debugf("Config: %+v", cfg)

	builder, err := shader.NewBuilder(cfg, root)
	if err != nil {
		logger.Error("configuring shader build", zap.Error(err))
		os.Exit(1)
	}
	if err := builder.BuildAll(); err != nil {
		logger.Error("shader build failed", zap.Error(err))
		if !cfg.Watch.Enabled {
			logger.Sync()
			os.Exit(1)
		}
	}

	if cfg.Watch.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		// Descriptors are rewritten by the build, so only sources trigger it.
		if err := watch.Run(ctx, root, []string{".hlsl", ".hlsli"}, cfg.Watch.Debounce, builder.BuildAll); err != nil {
			logger.Error("watch failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
	}
}
