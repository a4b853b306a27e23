package shader

import (
	"fmt"
	"path/filepath"

	"github.com/imzadi/assetpipe/internal/config"
	"github.com/imzadi/assetpipe/pkg/formats"
)

// ObjectExt is the only accepted extension for compiled shader objects.
const ObjectExt = ".dxbc"

// CompileOptions describes one compiler invocation for one stage.
type CompileOptions struct {
	Stage      string // formats.StageVertex or formats.StagePixel
	SourcePath string
	ObjectPath string
	EntryPoint string // Optional
	Profile    string // Optional, e.g. vs_5_0
	PDBDir     string // Debug symbols directory, used in debug builds
	Config     string // config.BuildDebug or config.BuildRelease
	Extra      []string
}

// Validate checks the options before the compiler is located.
func (o CompileOptions) Validate() error {
	if o.Stage != formats.StageVertex && o.Stage != formats.StagePixel {
		return fmt.Errorf("unknown shader stage %q", o.Stage)
	}
	if filepath.Ext(o.ObjectPath) != ObjectExt {
		return fmt.Errorf("%w: %s", ErrShaderOutputExtension, o.ObjectPath)
	}
	return nil
}

// Args returns the compiler argument vector.
func (o CompileOptions) Args() []string {
	args := []string{o.SourcePath}
	switch o.Config {
	case config.BuildDebug:
		// fxc requires the trailing backslash to treat /Fd as a directory.
		args = append(args, "/Zi", "/Zss", "/Fd", o.PDBDir+`\`)
	case config.BuildRelease:
		args = append(args, "/O4")
	}
	if o.EntryPoint != "" {
		args = append(args, "/E", o.EntryPoint)
	}
	if o.Profile != "" {
		args = append(args, "/T", o.Profile)
	}
	args = append(args, o.Extra...)
	return append(args, "/Fo", o.ObjectPath)
}

// stageOptions builds the options of one stage from a descriptor. Paths in
// the descriptor are relative to assetsRoot.
func stageOptions(d *formats.ShaderDescriptor, stage string, b *Builder) (CompileOptions, error) {
	object, ok := d.ObjectPath(stage)
	if !ok {
		return CompileOptions{}, fmt.Errorf("descriptor has no %s shader object", stage)
	}
	source, _ := d.ShaderCode()
	entry, _ := d.EntryPoint(stage)
	profile, _ := d.Profile(stage)
	return CompileOptions{
		Stage:      stage,
		SourcePath: filepath.Join(b.AssetsRoot, filepath.FromSlash(source)),
		ObjectPath: filepath.Join(b.AssetsRoot, filepath.FromSlash(object)),
		EntryPoint: entry,
		Profile:    profile,
		PDBDir:     b.pdbDir(),
		Config:     b.Config,
		Extra:      b.ExtraArgs,
	}, nil
}
