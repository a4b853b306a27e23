// Package config handles build pipeline configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Shader build configurations.
const (
	BuildDebug   = "debug"
	BuildRelease = "release"
)

// Config holds all pipeline settings.
type Config struct {
	AssetsRoot string          `yaml:"assets_root"` // Empty means the working directory
	Toolchain  ToolchainConfig `yaml:"toolchain"`
	Shaders    ShaderConfig    `yaml:"shaders"`
	Watch      WatchConfig     `yaml:"watch"`
	Logging    LoggingConfig   `yaml:"logging"`
}

// ToolchainConfig locates the Windows SDK tools.
type ToolchainConfig struct {
	SDKBinDir  string `yaml:"sdk_bin_dir"`
	WinVersion string `yaml:"win_version"`
}

// ShaderConfig holds shader compilation settings.
type ShaderConfig struct {
	BuildConfig string `yaml:"build_config"` // debug or release
	PDBDir      string `yaml:"pdb_dir"`      // Relative to the assets root
	ExtraArgs   string `yaml:"extra_args"`   // Extra compiler flags, shell quoted
}

// WatchConfig holds settings for -watch mode.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		AssetsRoot: "",
		Toolchain: ToolchainConfig{
			SDKBinDir:  `C:\Program Files (x86)\Windows Kits\10\bin`,
			WinVersion: "10.0.22621.0",
		},
		Shaders: ShaderConfig{
			BuildConfig: BuildDebug,
			PDBDir:      "ShaderPDBs",
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that the builders cannot recover from.
func (c *Config) Validate() error {
	switch c.Shaders.BuildConfig {
	case BuildDebug, BuildRelease:
	default:
		return fmt.Errorf("shaders.build_config must be %q or %q, got %q", BuildDebug, BuildRelease, c.Shaders.BuildConfig)
	}
	if c.Toolchain.WinVersion == "" {
		return fmt.Errorf("toolchain.win_version must not be empty")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// Root returns the absolute assets root.
func (c *Config) Root() (string, error) {
	root := c.AssetsRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}
	return filepath.Abs(root)
}

// PDBPath returns the absolute shader PDB directory for the given assets root.
func (c *Config) PDBPath(root string) string {
	if filepath.IsAbs(c.Shaders.PDBDir) {
		return c.Shaders.PDBDir
	}
	return filepath.Join(root, c.Shaders.PDBDir)
}
