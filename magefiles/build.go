//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace

var tools = []string{"buildassets", "buildshaders", "buildinstaller"}

// Compiles the pipeline tools into bin/.
func (Build) Tools() error {
	if err := os.MkdirAll("bin", 0755); err != nil {
		return err
	}
	for _, tool := range tools {
		out := filepath.Join("bin", tool+exeSuffix())
		if err := sh.RunV("go", "build", "-o", out, "./cmd/"+tool); err != nil {
			return err
		}
	}
	return nil
}

// Builds every OBJ model under the assets root ($ASSETS_ROOT, default: working directory).
func (Build) Assets() error {
	mg.Deps(Build.Tools)
	return runTool("buildassets")
}

// Compiles every shader descriptor under the assets root ($ASSETS_ROOT).
func (Build) Shaders() error {
	mg.Deps(Build.Tools)
	return runTool("buildshaders")
}

// Builds meshes, then shaders.
func (Build) All() {
	mg.SerialDeps(Build.Assets, Build.Shaders)
}

// Packages a released game as an MSIX installer. Run from the engine's Scripts folder.
func (Build) Installer(game, displayName string) error {
	mg.Deps(Build.Tools)
	return sh.RunV(toolPath("buildinstaller"), "-game", game, "-display_name", displayName)
}
