// OBJ (Wavefront) mesh source parser, restricted to the subset the asset
// pipeline consumes: positions, texture coordinates, normals, triangle faces
// and object names.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	stdmath "math"
	"strconv"
	"strings"

	"github.com/imzadi/assetpipe/pkg/encoding"
	"github.com/imzadi/assetpipe/pkg/math"
)

// OBJ format errors.
var (
	ErrBadVertex           = errors.New("bad vertex reference: expected a/b/c")
	ErrUnsupportedGeometry = errors.New("only triangles are supported")
	ErrDegenerateNormal    = errors.New("normal has zero length")
	ErrIndexOutOfRange     = errors.New("vertex reference index out of range")
	ErrBadNumber           = errors.New("malformed number")
)

// ParseError locates a failure within a source file.
type ParseError struct {
	Path string // Source file, empty when parsing a bare reader
	Line int    // 1-based line number
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OBJVertex is a resolved face corner.
type OBJVertex struct {
	Position math.Vec3
	TexCoord math.Vec2
	Normal   math.Vec3 // Unit length
}

// Key returns the deduplication fingerprint of the vertex: all eight
// components formatted with %f.
func (v OBJVertex) Key() string {
	return fmt.Sprintf("%f-%f-%f/%f-%f/%f-%f-%f",
		v.Position.X, v.Position.Y, v.Position.Z,
		v.TexCoord.X, v.TexCoord.Y,
		v.Normal.X, v.Normal.Y, v.Normal.Z)
}

// OBJTriangle is one face of exactly three vertices.
type OBJTriangle [3]OBJVertex

// OBJModel is a named group of triangles.
type OBJModel struct {
	Name      string
	Triangles []OBJTriangle
}

// OBJ holds every named model of a source file.
type OBJ struct {
	Models []OBJModel
}

// LoadOBJ reads and parses an OBJ file. UTF-8 and UTF-16 byte order marks
// are honoured.
func LoadOBJ(path string) (*OBJ, error) {
	text, err := encoding.ReadTextFile(path)
	if err != nil {
		return nil, err
	}
	obj, err := ParseOBJ(strings.NewReader(text))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return obj, nil
}

// objParser holds the global attribute tables while reading a file.
type objParser struct {
	positions []math.Vec3
	texcoords []math.Vec2
	normals   []math.Vec3

	current OBJModel
	models  []OBJModel
}

// ParseOBJ parses OBJ source text.
//
// Attribute tables are global to the file. A model is closed when a "v" or
// "o" directive follows a named model that already has triangles; models
// without a name are discarded.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	p := &objParser{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	p.commit()
	return &OBJ{Models: p.models}, nil
}

func (p *objParser) parseLine(text string) error {
	tokens := strings.Fields(text)
	if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
		return nil
	}

	switch tokens[0] {
	case "v":
		if len(tokens) != 4 {
			return nil
		}
		if p.current.Name != "" && len(p.current.Triangles) > 0 {
			p.commit()
		}
		v, err := parseFloats(tokens[1:4])
		if err != nil {
			return err
		}
		p.positions = append(p.positions, math.Vec3{X: v[0], Y: v[1], Z: v[2]})

	case "vt":
		if len(tokens) < 3 {
			return nil
		}
		// Only u and v are used; a third component is discarded.
		v, err := parseFloats(tokens[1:3])
		if err != nil {
			return err
		}
		p.texcoords = append(p.texcoords, math.Vec2{X: v[0], Y: v[1]})

	case "vn":
		if len(tokens) != 4 {
			return nil
		}
		v, err := parseFloats(tokens[1:4])
		if err != nil {
			return err
		}
		n, ok := math.Vec3{X: v[0], Y: v[1], Z: v[2]}.Normalize()
		if !ok {
			return ErrDegenerateNormal
		}
		p.normals = append(p.normals, n)

	case "f":
		if len(tokens) != 4 {
			return fmt.Errorf("%w: face has %d vertices", ErrUnsupportedGeometry, len(tokens)-1)
		}
		var tri OBJTriangle
		for i := 0; i < 3; i++ {
			vertex, err := p.parseVertex(tokens[i+1])
			if err != nil {
				return err
			}
			tri[i] = vertex
		}
		p.current.Triangles = append(p.current.Triangles, tri)

	case "o":
		if len(tokens) != 2 {
			return nil
		}
		if p.current.Name != "" && len(p.current.Triangles) > 0 {
			p.commit()
		}
		p.current.Name = tokens[1]
	}
	return nil
}

// commit stores the current model if it is named and starts a new one.
func (p *objParser) commit() {
	if p.current.Name != "" {
		p.models = append(p.models, p.current)
	}
	p.current = OBJModel{}
}

// parseVertex resolves a "a/b/c" reference against the attribute tables.
func (p *objParser) parseVertex(token string) (OBJVertex, error) {
	parts := strings.Split(token, "/")
	if len(parts) != 3 {
		return OBJVertex{}, fmt.Errorf("%w: %q", ErrBadVertex, token)
	}

	var idx [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return OBJVertex{}, fmt.Errorf("%w: %q", ErrBadVertex, token)
		}
		idx[i] = n
	}

	pos, err := lookup(p.positions, idx[0], "position")
	if err != nil {
		return OBJVertex{}, err
	}
	tc, err := lookup(p.texcoords, idx[1], "texcoord")
	if err != nil {
		return OBJVertex{}, err
	}
	nrm, err := lookup(p.normals, idx[2], "normal")
	if err != nil {
		return OBJVertex{}, err
	}
	return OBJVertex{Position: pos, TexCoord: tc, Normal: nrm}, nil
}

// lookup returns table[index-1] for a 1-based index.
func lookup[T any](table []T, index int, kind string) (T, error) {
	var zero T
	if index < 1 || index > len(table) {
		return zero, fmt.Errorf("%w: %s %d of %d", ErrIndexOutOfRange, kind, index, len(table))
	}
	return table[index-1], nil
}

func parseFloats(tokens []string) ([]float64, error) {
	out := make([]float64, len(tokens))
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil || stdmath.IsNaN(f) || stdmath.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %q", ErrBadNumber, tok)
		}
		out[i] = f
	}
	return out, nil
}
