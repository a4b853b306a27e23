// Package encoding provides text and path encoding helpers for asset sources.
package encoding

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts source bytes to a UTF-8 string. A UTF-8 or UTF-16
// byte order mark selects the encoding and is stripped; without one the
// data is read as UTF-8.
func DecodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// ReadTextFile reads a file and decodes it with DecodeText.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := DecodeText(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return text, nil
}

// WindowsPath converts a path to backslash separators, as used inside
// installer packages and MSIX manifests.
func WindowsPath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "/", `\`)
}

// JoinWindows joins elements with backslashes, ignoring empty elements.
func JoinWindows(elem ...string) string {
	var parts []string
	for _, e := range elem {
		e = strings.Trim(WindowsPath(e), `\`)
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, `\`)
}

// AssetPath returns target relative to root with forward slashes, the form
// engine descriptors use to reference other assets.
func AssetPath(root, target string) (string, error) {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// TrimBOM removes a leading UTF-8 byte order mark.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}
