package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagRoot       = flag.String("root", "", "Assets root (default: working directory)")
	flagRelease    = flag.Bool("release", false, "Compile shaders with the release configuration")
	flagWatch      = flag.Bool("watch", false, "Rebuild whenever a source file changes")
	flagWinVersion = flag.String("win_version", "", "Windows SDK version used to locate fxc.exe and makeappx.exe")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRoot != "" {
		cfg.AssetsRoot = *flagRoot
	}
	if *flagRelease {
		cfg.Shaders.BuildConfig = BuildRelease
	}
	if *flagWatch {
		cfg.Watch.Enabled = true
	}
	if *flagWinVersion != "" {
		cfg.Toolchain.WinVersion = *flagWinVersion
	}
}
