// Shader descriptor documents (.shader).
package formats

import "fmt"

// Shader descriptor keys.
const (
	KeyShaderCode = "shader_code"
	KeyConstants  = "constants"
)

// Shader pipeline stages.
const (
	StageVertex = "vs"
	StagePixel  = "ps"
)

// ConstantEntry is the CPU-side placement of one constant buffer field.
type ConstantEntry struct {
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Type   string `json:"type"`
}

// ShaderDescriptor is a .shader document. Keys the pipeline does not know
// are preserved when the descriptor is rewritten.
type ShaderDescriptor struct {
	doc map[string]any
}

// LoadShaderDescriptor reads a .shader document.
func LoadShaderDescriptor(path string) (*ShaderDescriptor, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return &ShaderDescriptor{doc: doc}, nil
}

// String returns the value of a string key.
func (d *ShaderDescriptor) String(key string) (string, bool) {
	v, ok := d.doc[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has reports whether key is present.
func (d *ShaderDescriptor) Has(key string) bool {
	_, ok := d.doc[key]
	return ok
}

// ShaderCode returns the HLSL source path, relative to the assets root.
func (d *ShaderDescriptor) ShaderCode() (string, bool) {
	return d.String(KeyShaderCode)
}

// ObjectPath returns the compiled object path for a stage.
func (d *ShaderDescriptor) ObjectPath(stage string) (string, bool) {
	return d.String(stage + "_shader_object")
}

// EntryPoint returns the entry point for a stage, if set.
func (d *ShaderDescriptor) EntryPoint(stage string) (string, bool) {
	return d.String(stage + "_entry_point")
}

// Profile returns the target profile (e.g. vs_5_0) for a stage, if set.
func (d *ShaderDescriptor) Profile(stage string) (string, bool) {
	return d.String(stage + "_model")
}

// Compilable reports whether the descriptor names a source and both stage
// objects.
func (d *ShaderDescriptor) Compilable() bool {
	return d.Has(KeyShaderCode) && d.Has(StageVertex+"_shader_object") && d.Has(StagePixel+"_shader_object")
}

// SetConstants stores the constant buffer layout.
func (d *ShaderDescriptor) SetConstants(layout map[string]ConstantEntry) {
	constants := make(map[string]any, len(layout))
	for name, entry := range layout {
		constants[name] = entry
	}
	d.doc[KeyConstants] = constants
}

// Constants returns the stored layout, converting generic document values.
func (d *ShaderDescriptor) Constants() (map[string]ConstantEntry, error) {
	raw, ok := d.doc[KeyConstants]
	if !ok {
		return nil, nil
	}
	data, err := MarshalDocument(raw)
	if err != nil {
		return nil, err
	}
	var out map[string]ConstantEntry
	if err := unmarshalStrict(data, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyConstants, err)
	}
	return out, nil
}

// Save writes the descriptor as a canonical document.
func (d *ShaderDescriptor) Save(path string) error {
	return WriteDocument(path, d.doc)
}
