package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/xatlas-go/pkg/xatlas"
)

// WriteOBJ writes the generated meshes as OBJ. src holds the input meshes in
// AddMesh order and supplies the position of every Vertex.Xref. Texture
// coordinates are divided by the atlas width and height.
func WriteOBJ(w io.Writer, src []*Mesh, out []xatlas.Mesh, width, height uint32) error {
	if len(src) != len(out) {
		return fmt.Errorf("writing obj: %d input meshes for %d generated meshes", len(src), len(out))
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("writing obj: empty atlas %dx%d", width, height)
	}

	bw := bufio.NewWriter(w)
	base := 1
	for i, m := range out {
		name := src[i].Name
		if name == "" {
			name = fmt.Sprintf("mesh%d", i)
		}
		fmt.Fprintf(bw, "o %s\n", name)

		for _, v := range m.Vertices.All() {
			if int(v.Xref) >= src[i].VertexCount() {
				return fmt.Errorf("writing obj: mesh %d: xref %d outside %d input vertices", i, v.Xref, src[i].VertexCount())
			}
			p := src[i].Positions[3*v.Xref:]
			fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
		}
		for _, v := range m.Vertices.All() {
			fmt.Fprintf(bw, "vt %g %g\n", v.UV[0]/float32(width), v.UV[1]/float32(height))
		}

		indices := m.Indices.Copy()
		for f := 0; f+2 < len(indices); f += 3 {
			a, b, c := base+int(indices[f]), base+int(indices[f+1]), base+int(indices[f+2])
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
		}
		base += m.Vertices.Len()
	}
	return bw.Flush()
}

// WriteOBJFile writes the generated meshes to path.
func WriteOBJFile(path string, src []*Mesh, out []xatlas.Mesh, width, height uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, src, out, width, height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
