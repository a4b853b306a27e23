// Mesh artifact documents produced from OBJ sources.
package formats

import "github.com/imzadi/assetpipe/pkg/math"

// Fixed values of mesh artifacts.
const (
	VertexStride         = 8 // position.xyz, texcoord.uv, normal.xyz
	StandardShader       = "Shaders/Standard.shader"
	StandardShadowShader = "Shaders/StandardShadow.shader"
	PrimitiveTriangles   = "TRIANGLE_LIST"
	MaxIndex             = 0xFFFF
)

// Artifact file suffixes, appended to "<base>_<model>".
const (
	VertexBufferSuffix = "_Vertices.buffer"
	IndexBufferSuffix  = "_Indices.buffer"
	RenderMeshExt      = ".render_mesh"
	CollisionExt       = ".collision"
	TextureExt         = ".texture"
	ImageExt           = ".png"
)

// VertexBuffer is an interleaved float vertex buffer document.
type VertexBuffer struct {
	Buffer []float64 `json:"buffer"`
	Type   string    `json:"type"`
	Bind   string    `json:"bind"`
	Stride int       `json:"stride"`
}

// NewVertexBuffer wraps interleaved vertex data.
func NewVertexBuffer(data []float64) VertexBuffer {
	if data == nil {
		data = []float64{}
	}
	return VertexBuffer{Buffer: data, Type: "float", Bind: "vertex", Stride: VertexStride}
}

// IndexBuffer is an unsigned 16-bit index buffer document.
type IndexBuffer struct {
	Buffer []uint16 `json:"buffer"`
	Type   string   `json:"type"`
	Bind   string   `json:"bind"`
	Stride int      `json:"stride"`
}

// NewIndexBuffer wraps triangle list indices.
func NewIndexBuffer(indices []uint16) IndexBuffer {
	if indices == nil {
		indices = []uint16{}
	}
	return IndexBuffer{Buffer: indices, Type: "ushort", Bind: "index", Stride: 1}
}

// RenderMesh binds buffers, shaders and bounds for the renderer.
type RenderMesh struct {
	VertexBuffer  string    `json:"vertex_buffer"`
	IndexBuffer   string    `json:"index_buffer"`
	Shader        string    `json:"shader"`
	ShadowShader  string    `json:"shadow_shader"`
	PrimitiveType string    `json:"primitive_type"`
	BoundingBox   math.Box3 `json:"bounding_box"`
	Texture       string    `json:"texture,omitempty"`
}

// CollisionShape is one polygon of a collision shape set.
type CollisionShape struct {
	Type        string       `json:"type"`
	VertexArray [][3]float64 `json:"vertex_array"`
}

// Collision is the per-triangle polygon list used by the collision system.
type Collision struct {
	ShapeSet []CollisionShape `json:"shape_set"`
}

// PolygonShape builds a polygon collision shape from positions.
func PolygonShape(points ...math.Vec3) CollisionShape {
	shape := CollisionShape{Type: "polygon", VertexArray: make([][3]float64, len(points))}
	for i, p := range points {
		shape.VertexArray[i] = p.Array()
	}
	return shape
}

// Texture references an image file.
type Texture struct {
	ImageFile    string `json:"image_file"`
	FlipVertical bool   `json:"flip_vertical"`
}
