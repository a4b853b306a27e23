package encoding

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain utf-8", []byte("v 1 2 3\n"), "v 1 2 3\n"},
		{"utf-8 bom", []byte("\xEF\xBB\xBFo Tri\n"), "o Tri\n"},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'f', 0, 'l', 0, 'o', 0, 'a', 0, 't', 0}, "float"},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0, 'c', 0, 'b'}, "cb"},
		{"empty", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindowsPath(t *testing.T) {
	assert.Equal(t, `Game\Assets\Models\ship.obj`, WindowsPath("Game/Assets/Models/ship.obj"))
	assert.Equal(t, `Engine\Assets\Fonts\a.ttf`, JoinWindows("Engine", `Assets\Fonts`, "", "a.ttf"))
}

func TestAssetPath(t *testing.T) {
	root := filepath.Join("assets", "root")
	got, err := AssetPath(root, filepath.Join(root, "Models", "Ship_Hull.render_mesh"))
	require.NoError(t, err)
	assert.Equal(t, "Models/Ship_Hull.render_mesh", got)
}

func TestTrimBOM(t *testing.T) {
	assert.Equal(t, []byte("{}"), TrimBOM([]byte("\xEF\xBB\xBF{}")))
	assert.Equal(t, []byte("{}"), TrimBOM([]byte("{}")))
}
