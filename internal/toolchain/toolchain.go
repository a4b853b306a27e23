// Package toolchain locates the Windows SDK tools the pipeline drives.
package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imzadi/assetpipe/internal/config"
)

// ErrMissingTool is returned when an SDK tool is not installed where expected.
var ErrMissingTool = errors.New("could not locate tool")

// Tool executables.
const (
	CompilerExe = "fxc.exe"
	PackagerExe = "makeappx.exe"
)

// SDK identifies one installed Windows SDK version.
type SDK struct {
	BinDir  string // e.g. C:\Program Files (x86)\Windows Kits\10\bin
	Version string // e.g. 10.0.22621.0
}

// FromConfig returns the SDK selected by the toolchain config.
func FromConfig(cfg config.ToolchainConfig) SDK {
	return SDK{BinDir: cfg.SDKBinDir, Version: cfg.WinVersion}
}

// Path returns the expected location of an x64 tool.
func (s SDK) Path(exe string) string {
	return filepath.Join(s.BinDir, s.Version, "x64", exe)
}

// Locate returns the tool path, or ErrMissingTool if it does not exist.
func (s SDK) Locate(exe string) (string, error) {
	path := s.Path(exe)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrMissingTool, path)
	}
	return path, nil
}

// Compiler locates the HLSL compiler. fxc is used rather than dxc: dxc
// output compiles but the engine's DX11 renderer crashes on it.
func (s SDK) Compiler() (string, error) {
	return s.Locate(CompilerExe)
}

// Packager locates the MSIX packaging tool.
func (s SDK) Packager() (string, error) {
	return s.Locate(PackagerExe)
}
