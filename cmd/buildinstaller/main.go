// Package main packages a released game and its assets as an MSIX
// installer. Run it from the engine's Scripts folder.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/imzadi/assetpipe/internal/config"
	"github.com/imzadi/assetpipe/internal/installer"
	"github.com/imzadi/assetpipe/internal/logger"
)

var (
	flagGame        = flag.String("game", "", "Game to package, the folder name under Games")
	flagDisplayName = flag.String("display_name", "", "Name of the game shown to users, may contain spaces")
	flagDescription = flag.String("description", "", "One sentence description of the game")
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

	logger.Info("=== Imzadi installer ===", zap.String("game", *flagGame))

	layout, err := installer.Package(installer.Options{
		Game:        *flagGame,
		DisplayName: *flagDisplayName,
		Description: *flagDescription,
		WinVersion:  cfg.Toolchain.WinVersion,
		SDKBinDir:   cfg.Toolchain.SDKBinDir,
	})
	if err != nil {
		logger.Error("packaging failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("installer ready", zap.String("package", layout.Package))
}
