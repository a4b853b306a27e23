package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imzadi/assetpipe/pkg/formats"
)

func analyze(t *testing.T, src string) *Layout {
	t.Helper()
	layout, err := AnalyzeLayout(strings.NewReader(src))
	require.NoError(t, err)
	return layout
}

func entry(offset, size int) formats.ConstantEntry {
	return formats.ConstantEntry{Offset: offset, Size: size, Type: "float"}
}

func TestAnalyzeLayoutPacking(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		want   map[string]formats.ConstantEntry
	}{
		{
			name:   "fits in first register",
			fields: "float a;\nfloat3 b;\nfloat2 c;\nfloat4 d;",
			want: map[string]formats.ConstantEntry{
				"a": entry(0, 4), "b": entry(4, 12), "c": entry(16, 8), "d": entry(32, 16),
			},
		},
		{
			name:   "straddle",
			fields: "float a;\nfloat3 b;\nfloat c;\nfloat4 d;",
			want: map[string]formats.ConstantEntry{
				"a": entry(0, 4), "b": entry(4, 12), "c": entry(16, 4), "d": entry(32, 16),
			},
		},
		{
			name:   "matrices",
			fields: "float4x4 world;\nfloat3x3 normalMatrix;\nfloat2x2 uvTransform;\nfloat gloss;",
			want: map[string]formats.ConstantEntry{
				"world": entry(0, 64), "normalMatrix": entry(64, 36), "uvTransform": entry(112, 16), "gloss": entry(128, 4),
			},
		},
		{
			name:   "ends exactly on a register",
			fields: "float2 a;\nfloat2 b;\nfloat3 c;\nfloat d;",
			want: map[string]formats.ConstantEntry{
				"a": entry(0, 8), "b": entry(8, 8), "c": entry(16, 12), "d": entry(28, 4),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "cbuffer constants : register(b0)\n{\n" + tt.fields + "\n};\n"
			layout := analyze(t, src)
			assert.Equal(t, tt.want, layout.Constants)
		})
	}
}

func TestAnalyzeLayoutInvariants(t *testing.T) {
	src := `cbuffer constants : register(b0)
{
	float3 lightDirection;
	float4x4 objectToProjection;
	float2 uvScale;
	float3 cameraEye;
	float shininess;
	float3x3 normalTransform;
	float alpha;
	float4 color;
	float2 fog;
	float3 ambient;
};
`
	layout := analyze(t, src)
	require.Len(t, layout.Fields, 10)

	for i, name := range layout.Fields {
		e := layout.Constants[name]
		assert.True(t, e.Offset%16+e.Size <= 16 || e.Offset%16 == 0,
			"%s at %d size %d straddles a register", name, e.Offset, e.Size)
		if i > 0 {
			prev := layout.Constants[layout.Fields[i-1]]
			assert.GreaterOrEqual(t, e.Offset, prev.Offset+prev.Size, "%s overlaps previous field", name)
		}
	}
}

func TestAnalyzeLayoutScope(t *testing.T) {
	src := `struct VSInput
{
	float3 position;
};

cbuffer constants : register(b0)
{
	float4 color;   // tint
	float  alpha;
};

cbuffer other : register(b1)
{
	float4 ignored;
};
`
	layout := analyze(t, src)
	assert.Equal(t, []string{"color", "alpha"}, layout.Fields)
	assert.Equal(t, entry(16, 4), layout.Constants["alpha"])
	assert.NotContains(t, layout.Constants, "ignored")
	assert.NotContains(t, layout.Constants, "position")
}

func TestAnalyzeLayoutNoBlock(t *testing.T) {
	layout := analyze(t, "float4 main() : SV_Target { return 1; }\n")
	assert.Empty(t, layout.Constants)
	assert.Empty(t, layout.Fields)
}

func TestAnalyzeLayoutUnknownType(t *testing.T) {
	src := "cbuffer constants\n{\n\tfloat a;\n\tint count;\n};\n"
	_, err := AnalyzeLayout(strings.NewReader(src))
	assert.ErrorIs(t, err, ErrUnknownShaderType)
	assert.Contains(t, err.Error(), "int count")
}

func TestAnalyzeFileBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Standard.hlsl")
	src := "\xEF\xBB\xBFcbuffer constants\r\n{\r\n\tfloat3 eye;\r\n\tfloat4 tint;\r\n};\r\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	layout, err := AnalyzeFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]formats.ConstantEntry{"eye": entry(0, 12), "tint": entry(16, 16)}, layout.Constants)
}

func TestAnalyzeLayoutMatrixSize(t *testing.T) {
	layout := analyze(t, "cbuffer constants\n{\n\tfloat3x3 basis;\n\tfloat w;\n};\n")
	assert.Equal(t, entry(0, 36), layout.Constants["basis"])
	assert.Equal(t, entry(36, 4), layout.Constants["w"])
}

func TestAnalyzeLayoutLongLine(t *testing.T) {
	src := "// " + strings.Repeat("x", 200*1024) + "\n" +
		"cbuffer constants\n{\n" +
		"\t// " + strings.Repeat("y", 100*1024) + "\n" +
		"\tfloat4 tint;\n};\n"
	layout, err := AnalyzeLayout(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, map[string]formats.ConstantEntry{"tint": entry(0, 16)}, layout.Constants)
}
