// Package installer packages a built game and its assets as an MSIX
// installer.
package installer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/imzadi/assetpipe/internal/logger"
	"github.com/imzadi/assetpipe/internal/proc"
	"github.com/imzadi/assetpipe/internal/toolchain"
	"github.com/imzadi/assetpipe/pkg/encoding"
	"github.com/imzadi/assetpipe/pkg/formats"
)

// Installer errors.
var (
	ErrMissingArgument = errors.New("missing argument")
	ErrFileNotFound    = errors.New("file not found")
)

// Options configures one packaging run.
type Options struct {
	Game        string // Short name, the folder under Games and the executable name
	DisplayName string
	Description string // Defaults to DefaultDescription
	WinVersion  string
	SDKBinDir   string
	WorkDir     string // Engine scripts folder; defaults to the working directory
	Out         io.Writer
}

// Layout is the folder structure a package is built from. Everything is
// derived from the working directory, which sits two levels below the root.
type Layout struct {
	Engine   string
	Root     string
	Game     string
	Exe      string
	Manifest string
	FileMap  string
	Package  string
}

// NewLayout derives the layout for a game from the working directory.
func NewLayout(workDir, game string) Layout {
	root := filepath.Clean(filepath.Join(workDir, "..", ".."))
	return Layout{
		Engine:   filepath.Clean(filepath.Join(workDir, "..")),
		Root:     root,
		Game:     filepath.Join(root, "Games", game),
		Exe:      filepath.Join(root, "out", "build", "x64-Release", "Bin", game+".exe"),
		Manifest: filepath.Join(root, "manifest.xml"),
		FileMap:  filepath.Join(root, "mapping.txt"),
		Package:  filepath.Join(root, game+".msix"),
	}
}

// Icon returns the package-relative path of a game icon.
func (l Layout) Icon(name string) (string, error) {
	rel, err := filepath.Rel(l.Root, filepath.Join(l.Game, "Assets", "Icons", name))
	if err != nil {
		return "", err
	}
	return encoding.WindowsPath(rel), nil
}

// Manifest returns the manifest data for a layout.
func (o Options) Manifest(l Layout) (ManifestData, error) {
	data := ManifestData{
		Game:        o.Game,
		DisplayName: o.DisplayName,
		Description: o.Description,
		WinVersion:  o.WinVersion,
	}
	if data.Description == "" {
		data.Description = DefaultDescription
	}
	var err error
	if data.Logo, err = l.Icon("Icon.png"); err != nil {
		return data, err
	}
	if data.Logo150, err = l.Icon("Icon_150x150.png"); err != nil {
		return data, err
	}
	if data.Logo44, err = l.Icon("Icon_44x44.png"); err != nil {
		return data, err
	}
	return data, nil
}

// Validate checks the required arguments.
func (o Options) Validate() error {
	if o.Game == "" {
		return fmt.Errorf("%w: game", ErrMissingArgument)
	}
	if o.DisplayName == "" {
		return fmt.Errorf("%w: display_name", ErrMissingArgument)
	}
	if o.WinVersion == "" {
		return fmt.Errorf("%w: win_version", ErrMissingArgument)
	}
	return nil
}

// Package renders the manifest and file map, runs the packager and removes
// the temporary files once it succeeds.
func Package(opts Options) (*Layout, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sdk := toolchain.SDK{BinDir: opts.SDKBinDir, Version: opts.WinVersion}
	packager, err := sdk.Packager()
	if err != nil {
		return nil, err
	}

	workDir := opts.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	if workDir, err = filepath.Abs(workDir); err != nil {
		return nil, err
	}

	l := NewLayout(workDir, opts.Game)
	logger.Info("package layout",
		zap.String("engine", l.Engine),
		zap.String("root", l.Root),
		zap.String("game", l.Game))

	if info, err := os.Stat(l.Game); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: game folder %s", ErrFileNotFound, l.Game)
	}
	if info, err := os.Stat(l.Exe); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: game executable %s", ErrFileNotFound, l.Exe)
	}

	data, err := opts.Manifest(l)
	if err != nil {
		return nil, err
	}
	manifest, err := RenderManifest(data)
	if err != nil {
		return nil, err
	}
	if err := writeTemp(l.Manifest, []byte(manifest)); err != nil {
		return nil, err
	}

	entries, err := FileMap(l)
	if err != nil {
		return nil, err
	}
	if err := writeFileMap(l.FileMap, entries); err != nil {
		return nil, err
	}

	args := []string{"pack", "/v", "/o", "/m", l.Manifest, "/f", l.FileMap, "/p", l.Package}
	runOpts := []proc.Option{proc.WithDir(workDir)}
	if opts.Out != nil {
		runOpts = append(runOpts, proc.WithOutput(opts.Out))
	}
	if err := proc.Run(packager, args, runOpts...); err != nil {
		return nil, err
	}

	for _, tmp := range []string{l.FileMap, l.Manifest} {
		if err := os.Remove(tmp); err != nil {
			return nil, err
		}
		logger.Deleted(tmp)
	}
	logger.Info("package complete", zap.String("package", l.Package), zap.Int("files", len(entries)))
	return &l, nil
}

func writeTemp(path string, data []byte) error {
	if _, err := formats.RemoveIfExists(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	logger.Wrote(path)
	return nil
}

func writeFileMap(path string, entries []FileEntry) error {
	if _, err := formats.RemoveIfExists(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFileMap(f, entries); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Wrote(path)
	return nil
}
