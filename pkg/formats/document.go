// Descriptor documents: the small JSON files the engine loads at runtime.
package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imzadi/assetpipe/pkg/encoding"
)

// documentIndent is the indentation of every emitted document.
const documentIndent = "    "

// MarshalDocument encodes v with sorted keys and four-space indentation,
// so identical inputs always produce identical bytes.
func MarshalDocument(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	// Round-trip through generic values so struct field order does not
	// matter: maps are always encoded with sorted keys.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", documentIndent)
	if err := enc.Encode(generic); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RemoveIfExists deletes path, reporting whether a file was removed.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteDocument deletes any existing file at path and writes v as a
// canonical document.
func WriteDocument(path string, v any) error {
	data, err := MarshalDocument(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if _, err := RemoveIfExists(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDocument reads a document as generic values. Numbers are kept as
// json.Number so rewriting the document does not alter them.
func ReadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(encoding.TrimBOM(data)))
	dec.UseNumber()
	doc := map[string]any{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc, nil
}

func unmarshalStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
