package meshio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/xatlas-go/pkg/xatlas"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestReadOBJ_Quad(t *testing.T) {
	meshes, err := ReadOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}

	m := meshes[0]
	if m.Name != "quad" {
		t.Errorf("expected name quad, got %q", m.Name)
	}
	if m.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", m.VertexCount())
	}
	if diff := cmp.Diff([]uint32{0, 1, 2, 0, 2, 3}, m.Indices); diff != "" {
		t.Errorf("fan triangulation mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{0, 0, 1, 0, 1, 1, 0, 1}, m.UVs); diff != "" {
		t.Errorf("uv mismatch (-want +got):\n%s", diff)
	}
	if len(m.Normals) != 12 {
		t.Errorf("expected 12 normal components, got %d", len(m.Normals))
	}
}

func TestReadOBJ_Welding(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vt 0 0
vt 0.5 0.5
f 1/1 2/1 3/1
f 2/1 4/1 3/2
`
	meshes, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}

	m := meshes[0]
	// 1/1 2/1 3/1 4/1 and 3/2 are distinct corners.
	if m.VertexCount() != 5 {
		t.Errorf("expected 5 welded vertices, got %d", m.VertexCount())
	}
	if diff := cmp.Diff([]uint32{0, 1, 2, 1, 3, 4}, m.Indices); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
	if m.Normals != nil {
		t.Errorf("expected no normals, got %v", m.Normals)
	}
}

func TestReadOBJ_NegativeIndices(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	meshes, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}
	if diff := cmp.Diff([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, meshes[0].Positions); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if meshes[0].UVs != nil {
		t.Errorf("expected no uvs, got %v", meshes[0].UVs)
	}
}

func TestReadOBJ_MultipleObjects(t *testing.T) {
	src := `o first
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
f 1 2 3
g second
f 2 4 3
f 2//1 4 3
`
	// The last face references a normal that does not exist.
	_, err := ReadOBJ(strings.NewReader(src))
	if !errors.Is(err, ErrIndexRange) {
		t.Fatalf("expected ErrIndexRange, got %v", err)
	}

	src = strings.Replace(src, "f 2//1 4 3\n", "", 1)
	meshes, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if meshes[0].Name != "first" || meshes[1].Name != "second" {
		t.Errorf("expected names first/second, got %q/%q", meshes[0].Name, meshes[1].Name)
	}
	// Welding restarts per mesh.
	if diff := cmp.Diff([]uint32{0, 1, 2}, meshes[1].Indices); diff != "" {
		t.Errorf("second mesh indices (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{1, 0, 0, 1, 1, 0, 0, 1, 0}, meshes[1].Positions); diff != "" {
		t.Errorf("second mesh positions (-want +got):\n%s", diff)
	}
}

func TestReadOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		want error
	}{
		{"short vertex", "v 1 2\n", 1, ErrSyntax},
		{"bad number", "v 1 2 x\n", 1, ErrSyntax},
		{"two vertex face", "v 0 0 0\nv 1 0 0\nf 1 2\n", 3, ErrSyntax},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\n\nf 0 1 2\n", 5, ErrIndexRange},
		{"forward reference", "v 0 0 0\nv 1 0 0\nf 1 2 3\nv 0 1 0\n", 3, ErrIndexRange},
		{"bad corner", "v 0 0 0\nf 1/2/3/4 1 1\n", 2, ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, perr.Line)
			}
		})
	}
}

func TestReadOBJ_NoFaces(t *testing.T) {
	_, err := ReadOBJ(strings.NewReader("v 0 0 0\n# nothing else\n"))
	if !errors.Is(err, ErrNoFaces) {
		t.Errorf("expected ErrNoFaces, got %v", err)
	}
}

func TestReadOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0644); err != nil {
		t.Fatal(err)
	}

	meshes, err := ReadOBJFile(path)
	if err != nil {
		t.Fatalf("ReadOBJFile failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Errorf("expected 1 mesh, got %d", len(meshes))
	}

	_, err = ReadOBJFile(filepath.Join(t.TempDir(), "missing.obj"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestMeshDecl(t *testing.T) {
	meshes, err := ReadOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}

	d := meshes[0].Decl()
	if err := d.Validate(); err != nil {
		t.Fatalf("declaration invalid: %v", err)
	}
	if d.IndexFormat != xatlas.IndexFormatUint16 {
		t.Errorf("expected uint16 indices, got %s", d.IndexFormat)
	}
	if d.VertexCount != 4 || d.IndexCount != 6 {
		t.Errorf("expected 4 vertices and 6 indices, got %d and %d", d.VertexCount, d.IndexCount)
	}
	if d.VertexNormalStride != 12 || d.VertexUVStride != 8 {
		t.Errorf("unexpected strides: normal %d, uv %d", d.VertexNormalStride, d.VertexUVStride)
	}
}

func TestMeshDecl_LargeMeshUsesUint32(t *testing.T) {
	n := 1<<16 + 1
	m := &Mesh{
		Positions: make([]float32, 3*n),
		Indices:   []uint32{0, 1, uint32(n - 1)},
	}

	d := m.Decl()
	if d.IndexFormat != xatlas.IndexFormatUint32 {
		t.Errorf("expected uint32 indices, got %s", d.IndexFormat)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("declaration invalid: %v", err)
	}
	if d.VertexNormalData != nil || d.VertexUVData != nil {
		t.Error("expected no optional attributes")
	}
}
