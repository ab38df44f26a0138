// Package meshio reads Wavefront OBJ geometry into xatlas mesh declarations
// and writes unwrapped meshes back out as OBJ.
package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/xatlas-go/pkg/xatlas"
)

// OBJ errors.
var (
	ErrSyntax     = errors.New("malformed statement")
	ErrIndexRange = errors.New("index out of range")
	ErrNoFaces    = errors.New("no faces")
)

// ParseError reports the line an OBJ statement failed on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obj line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Mesh is one OBJ object with its corners welded into indexed vertices.
// Normals and UVs are either empty or hold one entry per vertex.
type Mesh struct {
	Name      string
	Positions []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	UVs       []float32 // uv per vertex
	Indices   []uint32  // three per triangle
}

// VertexCount returns the number of welded vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Indices) / 3
}

// Decl declares the mesh to xatlas. Meshes with at most 65536 vertices use
// 16-bit indices. The declaration aliases the mesh's slices.
func (m *Mesh) Decl() *xatlas.MeshDecl {
	d := &xatlas.MeshDecl{
		VertexCount:          uint32(m.VertexCount()),
		VertexPositionData:   xatlas.Float32Bytes(m.Positions),
		VertexPositionStride: 12,
		IndexCount:           uint32(len(m.Indices)),
	}
	if len(m.Normals) > 0 {
		d.VertexNormalData = xatlas.Float32Bytes(m.Normals)
		d.VertexNormalStride = 12
	}
	if len(m.UVs) > 0 {
		d.VertexUVData = xatlas.Float32Bytes(m.UVs)
		d.VertexUVStride = 8
	}

	if m.VertexCount() <= 1<<16 {
		idx := make([]uint16, len(m.Indices))
		for i, v := range m.Indices {
			idx[i] = uint16(v)
		}
		d.IndexData = xatlas.Uint16Bytes(idx)
		d.IndexFormat = xatlas.IndexFormatUint16
	} else {
		d.IndexData = xatlas.Uint32Bytes(m.Indices)
		d.IndexFormat = xatlas.IndexFormatUint32
	}
	return d
}

// corner is one v/vt/vn reference of a face, zero-based; -1 when absent.
type corner struct {
	v, vt, vn int
}

type objReader struct {
	positions [][3]float32
	uvs       [][2]float32
	normals   [][3]float32

	meshes  []*Mesh
	cur     *Mesh
	weld    map[corner]uint32
	hasUV   bool
	hasNorm bool
}

// ReadOBJ parses OBJ text. Every "o" or "g" statement that follows faces
// starts a new mesh; polygons are fan-triangulated. Statements other than
// v, vt, vn, f, o and g are ignored.
func ReadOBJ(r io.Reader) ([]*Mesh, error) {
	p := &objReader{}
	p.begin("")

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if err := p.statement(fields[0], fields[1:]); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}

	p.finish()
	if len(p.meshes) == 0 {
		return nil, ErrNoFaces
	}
	return p.meshes, nil
}

// ReadOBJFile parses the OBJ file at path.
func ReadOBJFile(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meshes, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meshes, nil
}

func (p *objReader) statement(keyword string, args []string) error {
	switch keyword {
	case "v":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(args, 1)
		if err != nil {
			return err
		}
		uv := [2]float32{v[0]}
		if len(v) > 1 {
			uv[1] = v[1]
		}
		p.uvs = append(p.uvs, uv)
	case "vn":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, [3]float32{v[0], v[1], v[2]})
	case "f":
		return p.face(args)
	case "o", "g":
		name := strings.Join(args, " ")
		if len(p.cur.Indices) > 0 {
			p.finish()
			p.begin(name)
		} else if name != "" {
			p.cur.Name = name
		}
	}
	return nil
}

func (p *objReader) face(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: face with %d vertices", ErrSyntax, len(args))
	}

	idx := make([]uint32, len(args))
	for i, arg := range args {
		c, err := p.parseCorner(arg)
		if err != nil {
			return err
		}
		idx[i] = p.vertex(c)
	}
	for i := 1; i+1 < len(idx); i++ {
		p.cur.Indices = append(p.cur.Indices, idx[0], idx[i], idx[i+1])
	}
	return nil
}

func (p *objReader) parseCorner(s string) (corner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 || parts[0] == "" {
		return corner{}, fmt.Errorf("%w: face vertex %q", ErrSyntax, s)
	}

	c := corner{v: -1, vt: -1, vn: -1}
	var err error
	if c.v, err = resolveIndex(parts[0], len(p.positions)); err != nil {
		return corner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolveIndex(parts[1], len(p.uvs)); err != nil {
			return corner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.vn, err = resolveIndex(parts[2], len(p.normals)); err != nil {
			return corner{}, err
		}
	}
	return c, nil
}

// resolveIndex turns a one-based or negative (relative) OBJ index into a
// zero-based one.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrSyntax, s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	default:
		return 0, fmt.Errorf("%w: %d with %d elements defined", ErrIndexRange, i, n)
	}
}

func (p *objReader) vertex(c corner) uint32 {
	if i, ok := p.weld[c]; ok {
		return i
	}

	i := uint32(len(p.cur.Positions) / 3)
	p.weld[c] = i

	pos := p.positions[c.v]
	p.cur.Positions = append(p.cur.Positions, pos[0], pos[1], pos[2])

	var uv [2]float32
	if c.vt >= 0 {
		uv = p.uvs[c.vt]
		p.hasUV = true
	}
	p.cur.UVs = append(p.cur.UVs, uv[0], uv[1])

	var n [3]float32
	if c.vn >= 0 {
		n = p.normals[c.vn]
		p.hasNorm = true
	}
	p.cur.Normals = append(p.cur.Normals, n[0], n[1], n[2])
	return i
}

func (p *objReader) begin(name string) {
	p.cur = &Mesh{Name: name}
	p.weld = make(map[corner]uint32)
	p.hasUV = false
	p.hasNorm = false
}

func (p *objReader) finish() {
	if len(p.cur.Indices) == 0 {
		return
	}
	if !p.hasUV {
		p.cur.UVs = nil
	}
	if !p.hasNorm {
		p.cur.Normals = nil
	}
	p.meshes = append(p.meshes, p.cur)
}

func parseFloats(args []string, want int) ([]float32, error) {
	if len(args) < want {
		return nil, fmt.Errorf("%w: expected at least %d values, got %d", ErrSyntax, want, len(args))
	}
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrSyntax, a)
		}
		out[i] = float32(f)
	}
	return out, nil
}
