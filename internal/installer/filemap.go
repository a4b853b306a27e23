package installer

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/imzadi/assetpipe/internal/walk"
	"github.com/imzadi/assetpipe/pkg/encoding"
)

// FileMapHeader is the first line of a packaging file map.
const FileMapHeader = "[Files]"

// FileEntry maps one file on disk to its location inside the package.
type FileEntry struct {
	Source      string
	Destination string // Backslash separated, relative to the package root
}

// Folder is an asset folder copied into the package.
type Folder struct {
	Source      string
	Destination string
}

// Engine and game asset folders included in every package.
var (
	EngineAssetFolders = []string{"Fonts", "Shaders"}
	GameAssetFolders   = []string{"Animations", "Audio", "Dialog", "Icons", "Levels", "Models", "Textures"}
)

// AssetFolders returns the folders packaged for a layout, engine assets
// first.
func AssetFolders(l Layout) []Folder {
	var folders []Folder
	for _, name := range EngineAssetFolders {
		folders = append(folders, Folder{
			Source:      filepath.Join(l.Engine, "Assets", name),
			Destination: encoding.JoinWindows("Engine", "Assets", name),
		})
	}
	for _, name := range GameAssetFolders {
		folders = append(folders, Folder{
			Source:      filepath.Join(l.Game, "Assets", name),
			Destination: encoding.JoinWindows("Game", "Assets", name),
		})
	}
	return folders
}

// CollectFolder lists every file under f.Source, keeping its path relative
// to the folder. A missing folder contributes no entries.
func CollectFolder(f Folder) ([]FileEntry, error) {
	files, err := walk.Files(f.Source)
	if err != nil {
		return nil, err
	}
	entries := make([]FileEntry, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(f.Source, file)
		if err != nil {
			return nil, err
		}
		entries = append(entries, FileEntry{
			Source:      file,
			Destination: encoding.JoinWindows(f.Destination, rel),
		})
	}
	return entries, nil
}

// FileMap returns the package contents: the executable at the root followed
// by every asset folder.
func FileMap(l Layout) ([]FileEntry, error) {
	entries := []FileEntry{{Source: l.Exe, Destination: filepath.Base(l.Exe)}}
	for _, f := range AssetFolders(l) {
		folder, err := CollectFolder(f)
		if err != nil {
			return nil, fmt.Errorf("collecting %s: %w", f.Source, err)
		}
		entries = append(entries, folder...)
	}
	return entries, nil
}

// WriteFileMap writes entries in the packager's file map format.
func WriteFileMap(w io.Writer, entries []FileEntry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, FileMapHeader)
	for _, e := range entries {
		fmt.Fprintf(bw, "\"%s\"\t\"%s\"\n", e.Source, e.Destination)
	}
	return bw.Flush()
}
