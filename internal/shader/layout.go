// Package shader compiles shader descriptors and computes the CPU-side
// layout of their constant buffers.
package shader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/imzadi/assetpipe/pkg/encoding"
	"github.com/imzadi/assetpipe/pkg/formats"
)

// Shader build errors.
var (
	ErrUnknownShaderType     = errors.New("unknown constant buffer field type")
	ErrShaderOutputExtension = errors.New("shader object files must use the .dxbc extension")
	ErrFileNotFound          = errors.New("file not found")
)

const (
	constantsBlock = "cbuffer constants"
	blockEnd       = "};"
	registerSize   = 16
	componentType  = "float"
)

// typeSizes maps HLSL field types to their size in bytes.
var typeSizes = map[string]int{
	"float":    4,
	"float2":   8,
	"float3":   12,
	"float4":   16,
	"float2x2": 16,
	"float3x3": 36,
	"float4x4": 64,
}

var fieldPattern = regexp.MustCompile(`(\w+)\s+(\w+);`)

// Layout is the placement of every field of the "constants" buffer.
type Layout struct {
	Constants map[string]formats.ConstantEntry
	Fields    []string // Declaration order
}

// place returns the offset of a field of the given size. A field that
// would straddle a 16 byte register starts on the next register.
func place(offset, size int) int {
	lo := offset &^ (registerSize - 1)
	hi := (offset + size) &^ (registerSize - 1)
	if lo != hi && hi < offset+size {
		offset = (offset + registerSize - 1) &^ (registerSize - 1)
	}
	return offset
}

// AnalyzeLayout scans HLSL source for the "cbuffer constants" block and
// packs its fields. Source without the block yields an empty layout.
func AnalyzeLayout(r io.Reader) (*Layout, error) {
	layout := &Layout{Constants: make(map[string]formats.ConstantEntry)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	inside := false
	offset := 0
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if !inside {
			inside = strings.Contains(text, constantsBlock)
			continue
		}
		if strings.Contains(text, blockEnd) {
			break
		}

		m := fieldPattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		typeName, name := m[1], m[2]
		size, ok := typeSizes[typeName]
		if !ok {
			return nil, fmt.Errorf("%w: %s %s (line %d)", ErrUnknownShaderType, typeName, name, line)
		}

		offset = place(offset, size)
		if _, dup := layout.Constants[name]; !dup {
			layout.Fields = append(layout.Fields, name)
		}
		layout.Constants[name] = formats.ConstantEntry{Offset: offset, Size: size, Type: componentType}
		offset += size
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return layout, nil
}

// AnalyzeFile decodes an HLSL file and analyzes its constant buffer.
func AnalyzeFile(path string) (*Layout, error) {
	text, err := encoding.ReadTextFile(path)
	if err != nil {
		return nil, err
	}
	layout, err := AnalyzeLayout(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return layout, nil
}
