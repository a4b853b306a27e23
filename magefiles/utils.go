//go:build mage

package main

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

func toolPath(tool string) string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return filepath.Join(wd, "bin", tool+exeSuffix())
}

func runTool(tool string) error {
	args := []string{}
	if root := os.Getenv("ASSETS_ROOT"); root != "" {
		args = append(args, "-root", root)
	}
	if mg.Verbose() {
		args = append(args, "-debug")
	}
	return sh.RunV(toolPath(tool), args...)
}
