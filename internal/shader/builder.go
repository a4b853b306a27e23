package shader

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/imzadi/assetpipe/internal/config"
	"github.com/imzadi/assetpipe/internal/logger"
	"github.com/imzadi/assetpipe/internal/proc"
	"github.com/imzadi/assetpipe/internal/toolchain"
	"github.com/imzadi/assetpipe/internal/walk"
	"github.com/imzadi/assetpipe/pkg/formats"
)

// DescriptorExt is the extension of shader descriptors.
const DescriptorExt = ".shader"

// Builder compiles every shader descriptor under an assets root.
type Builder struct {
	AssetsRoot string
	SDK        toolchain.SDK
	Config     string    // config.BuildDebug or config.BuildRelease
	PDBDir     string    // Absolute, or relative to AssetsRoot
	ExtraArgs  []string  // Appended to every compiler invocation
	Out        io.Writer // Compiler output; nil means os.Stdout
}

// NewBuilder returns a builder configured from cfg for the given root.
func NewBuilder(cfg *config.Config, root string) (*Builder, error) {
	extra, err := proc.SplitArgs(cfg.Shaders.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("shaders.extra_args: %w", err)
	}
	return &Builder{
		AssetsRoot: root,
		SDK:        toolchain.FromConfig(cfg.Toolchain),
		Config:     cfg.Shaders.BuildConfig,
		PDBDir:     cfg.PDBPath(root),
		ExtraArgs:  extra,
	}, nil
}

func (b *Builder) pdbDir() string {
	if filepath.IsAbs(b.PDBDir) {
		return b.PDBDir
	}
	return filepath.Join(b.AssetsRoot, b.PDBDir)
}

func (b *Builder) runOptions() []proc.Option {
	if b.Out == nil {
		return nil
	}
	return []proc.Option{proc.WithOutput(b.Out)}
}

// ProcessFile compiles both stages of a descriptor, recomputes its
// constant buffer layout and rewrites it. Descriptors that do not name a
// source and both stage objects are not compiled.
func (b *Builder) ProcessFile(path string) error {
	desc, err := formats.LoadShaderDescriptor(path)
	if err != nil {
		return err
	}

	if desc.Compilable() {
		if err := b.compile(desc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	source, ok := desc.ShaderCode()
	if !ok {
		return nil
	}
	source = filepath.Join(b.AssetsRoot, filepath.FromSlash(source))
	if !exists(source) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, source)
	}
	layout, err := AnalyzeFile(source)
	if err != nil {
		return err
	}
	prev, err := desc.Constants()
	if err != nil {
		logger.Warn("replacing unreadable constants", zap.String("file", path), zap.Error(err))
	} else if !maps.Equal(prev, layout.Constants) {
		logger.Info("constant buffer layout changed",
			zap.String("file", path), zap.Int("fields", len(layout.Fields)))
	}
	desc.SetConstants(layout.Constants)
	if err := desc.Save(path); err != nil {
		return err
	}
	logger.Wrote(path)
	return nil
}

func (b *Builder) compile(desc *formats.ShaderDescriptor) error {
	var stages []CompileOptions
	for _, stage := range []string{formats.StageVertex, formats.StagePixel} {
		opts, err := stageOptions(desc, stage, b)
		if err != nil {
			return err
		}
		if err := opts.Validate(); err != nil {
			return err
		}
		stages = append(stages, opts)
	}

	compiler, err := b.SDK.Compiler()
	if err != nil {
		return err
	}

	for _, opts := range stages {
		removed, err := formats.RemoveIfExists(opts.ObjectPath)
		if err != nil {
			return err
		}
		if removed {
			logger.Deleted(opts.ObjectPath)
		}
		if !exists(opts.SourcePath) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, opts.SourcePath)
		}
		if err := proc.Run(compiler, opts.Args(), b.runOptions()...); err != nil {
			return err
		}
	}
	return nil
}

// BuildAll clears stale debug symbols and processes every descriptor under
// the assets root.
func (b *Builder) BuildAll() error {
	root, err := filepath.Abs(b.AssetsRoot)
	if err != nil {
		return err
	}
	b.AssetsRoot = root

	pdb := b.pdbDir()
	if err := os.MkdirAll(pdb, 0755); err != nil {
		return err
	}
	removed, err := walk.RemoveAll(pdb, ".pdb")
	if err != nil {
		return err
	}
	logger.Info("deleted PDB files", zap.Int("count", removed))

	files, err := walk.Find(root, DescriptorExt)
	if err != nil {
		return err
	}
	logger.Info("processing shader files", zap.Int("count", len(files)), zap.String("config", b.Config))
	for _, f := range files {
		logger.Info("processing", zap.String("file", f))
		if err := b.ProcessFile(f); err != nil {
			return err
		}
	}
	logger.Info("shader build complete")
	return nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
