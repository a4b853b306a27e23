// Package mesh converts OBJ models into engine render mesh, collision and
// texture descriptors.
package mesh

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/imzadi/assetpipe/internal/logger"
	"github.com/imzadi/assetpipe/internal/walk"
	"github.com/imzadi/assetpipe/pkg/encoding"
	"github.com/imzadi/assetpipe/pkg/formats"
	"github.com/imzadi/assetpipe/pkg/math"
)

// Mesh build errors.
var (
	ErrEmptyModel    = errors.New("model has no triangles")
	ErrIndexOverflow = errors.New("model has more unique vertices than a ushort index buffer can address")
)

// Paths names every artifact of one model.
type Paths struct {
	VertexBuffer string
	IndexBuffer  string
	RenderMesh   string
	Collision    string
	Texture      string
	Image        string // Optional source image, <base>_<model>.png
}

// ArtifactPaths returns the artifact paths for a model of a source file.
func ArtifactPaths(outDir, baseName, modelName string) Paths {
	stem := filepath.Join(outDir, baseName+"_"+modelName)
	return Paths{
		VertexBuffer: stem + formats.VertexBufferSuffix,
		IndexBuffer:  stem + formats.IndexBufferSuffix,
		RenderMesh:   stem + formats.RenderMeshExt,
		Collision:    stem + formats.CollisionExt,
		Texture:      stem + formats.TextureExt,
		Image:        stem + formats.ImageExt,
	}
}

// removeArtifacts deletes every generated artifact. The source image is
// left alone.
func (p Paths) removeArtifacts() error {
	for _, path := range []string{p.VertexBuffer, p.IndexBuffer, p.RenderMesh, p.Collision, p.Texture} {
		removed, err := formats.RemoveIfExists(path)
		if err != nil {
			return err
		}
		if removed {
			logger.Deleted(path)
		}
	}
	return nil
}

// Geometry is the deduplicated render data of a model.
type Geometry struct {
	Vertices []float64 // Interleaved, formats.VertexStride floats per vertex
	Indices  []uint16
	Bounds   math.Box3
}

// VertexCount returns the number of unique vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices) / formats.VertexStride
}

// Deduplicate builds interleaved vertex and index buffers. Face corners
// with equal vertex keys share one index; indices are assigned in order of
// first appearance.
func Deduplicate(model formats.OBJModel) (*Geometry, error) {
	if len(model.Triangles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyModel, model.Name)
	}

	g := &Geometry{
		Indices: make([]uint16, 0, 3*len(model.Triangles)),
	}
	seen := make(map[string]int)
	positions := make([]math.Vec3, 0, 3*len(model.Triangles))

	for _, tri := range model.Triangles {
		for _, v := range tri {
			positions = append(positions, v.Position)

			key := v.Key()
			index, ok := seen[key]
			if !ok {
				index = len(g.Vertices) / formats.VertexStride
				if index > formats.MaxIndex {
					return nil, fmt.Errorf("%w: %s", ErrIndexOverflow, model.Name)
				}
				g.Vertices = append(g.Vertices,
					v.Position.X, v.Position.Y, v.Position.Z,
					v.TexCoord.X, v.TexCoord.Y,
					v.Normal.X, v.Normal.Y, v.Normal.Z)
				seen[key] = index
			}
			g.Indices = append(g.Indices, uint16(index))
		}
	}

	g.Bounds, _ = math.BoundsOf(positions)
	return g, nil
}

// CollisionOf returns one polygon per triangle, with no sharing.
func CollisionOf(model formats.OBJModel) formats.Collision {
	shapes := make([]formats.CollisionShape, 0, len(model.Triangles))
	for _, tri := range model.Triangles {
		shapes = append(shapes, formats.PolygonShape(tri[0].Position, tri[1].Position, tri[2].Position))
	}
	return formats.Collision{ShapeSet: shapes}
}

// Stats summarizes one built model.
type Stats struct {
	Name      string
	Triangles int
	Vertices  int
	Textured  bool
}

// Build writes every artifact of model next to the source file. Descriptor
// references are relative to assetsRoot. Existing artifacts are deleted
// before anything is written, so a failed build leaves none of them behind.
func Build(model formats.OBJModel, baseName, outDir, assetsRoot string) (*Stats, error) {
	paths := ArtifactPaths(outDir, baseName, model.Name)

	if err := paths.removeArtifacts(); err != nil {
		return nil, err
	}

	geom, err := Deduplicate(model)
	if err != nil {
		return nil, err
	}

	if err := writeArtifact(paths.Collision, CollisionOf(model)); err != nil {
		return nil, err
	}

	rm := formats.RenderMesh{
		Shader:        formats.StandardShader,
		ShadowShader:  formats.StandardShadowShader,
		PrimitiveType: formats.PrimitiveTriangles,
		BoundingBox:   geom.Bounds,
	}
	if rm.VertexBuffer, err = encoding.AssetPath(assetsRoot, paths.VertexBuffer); err != nil {
		return nil, err
	}
	if rm.IndexBuffer, err = encoding.AssetPath(assetsRoot, paths.IndexBuffer); err != nil {
		return nil, err
	}

	textured, err := fileExists(paths.Image)
	if err != nil {
		return nil, err
	}
	if textured {
		image, err := encoding.AssetPath(assetsRoot, paths.Image)
		if err != nil {
			return nil, err
		}
		if err := writeArtifact(paths.Texture, formats.Texture{ImageFile: image, FlipVertical: true}); err != nil {
			return nil, err
		}
		if rm.Texture, err = encoding.AssetPath(assetsRoot, paths.Texture); err != nil {
			return nil, err
		}
	}

	if err := writeArtifact(paths.VertexBuffer, formats.NewVertexBuffer(geom.Vertices)); err != nil {
		return nil, err
	}
	if err := writeArtifact(paths.IndexBuffer, formats.NewIndexBuffer(geom.Indices)); err != nil {
		return nil, err
	}
	if err := writeArtifact(paths.RenderMesh, rm); err != nil {
		return nil, err
	}

	return &Stats{
		Name:      model.Name,
		Triangles: len(model.Triangles),
		Vertices:  geom.VertexCount(),
		Textured:  textured,
	}, nil
}

// ProcessFile parses an OBJ source and builds every model in it. Models
// without triangles are skipped with a warning.
func ProcessFile(objPath, assetsRoot string) ([]Stats, error) {
	objPath, err := filepath.Abs(objPath)
	if err != nil {
		return nil, err
	}
	if assetsRoot, err = filepath.Abs(assetsRoot); err != nil {
		return nil, err
	}

	obj, err := formats.LoadOBJ(objPath)
	if err != nil {
		return nil, err
	}

	outDir, name := filepath.Split(objPath)
	baseName := strings.TrimSuffix(name, filepath.Ext(name))

	var all []Stats
	for _, model := range obj.Models {
		if len(model.Triangles) == 0 {
			logger.Warn("skipping model without triangles",
				zap.String("file", objPath), zap.String("model", model.Name))
			continue
		}
		stats, err := Build(model, baseName, filepath.Clean(outDir), assetsRoot)
		if err != nil {
			return nil, fmt.Errorf("building model %s of %s: %w", model.Name, objPath, err)
		}
		logger.Info("built model",
			zap.String("model", stats.Name),
			zap.Int("triangles", stats.Triangles),
			zap.Int("vertices", stats.Vertices),
			zap.Bool("textured", stats.Textured))
		all = append(all, *stats)
	}
	return all, nil
}

// BuildAll builds every .obj file under assetsRoot.
func BuildAll(assetsRoot string) error {
	assetsRoot, err := filepath.Abs(assetsRoot)
	if err != nil {
		return err
	}
	files, err := walk.Find(assetsRoot, ".obj")
	if err != nil {
		return err
	}
	logger.Info("processing OBJ files", zap.Int("count", len(files)))
	for _, f := range files {
		logger.Info("processing", zap.String("file", f))
		if _, err := ProcessFile(f, assetsRoot); err != nil {
			return err
		}
	}
	logger.Info("asset build complete")
	return nil
}

func writeArtifact(path string, v any) error {
	if err := formats.WriteDocument(path, v); err != nil {
		return err
	}
	logger.Wrote(path)
	return nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
