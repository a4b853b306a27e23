// Package walk enumerates source files under an assets root.
package walk

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/imzadi/assetpipe/internal/logger"
)

// Find returns the absolute paths of all files under root whose extension
// matches ext, ignoring ASCII case. The leading dot on ext is optional.
// Directories are visited in lexical order, so the result is stable for a
// given filesystem state.
func Find(root, ext string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var found []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ext) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Files returns every regular file under root in lexical order. A missing
// root yields no files.
func Files(root string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// RemoveAll deletes every file under root matching ext and returns how
// many were removed. A missing root is not an error.
func RemoveAll(root, ext string) (int, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return 0, nil
	}
	files, err := Find(root, ext)
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return 0, err
		}
		logger.Deleted(f)
	}
	return len(files), nil
}

// Dirs returns root and every directory below it, in lexical order.
func Dirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}
