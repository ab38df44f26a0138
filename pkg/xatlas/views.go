package xatlas

import (
	"fmt"
	"iter"
	"slices"
	"unsafe"

	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

// Vertex is one generated vertex. Its layout matches abi.Vertex so vertex
// views alias the engine array directly.
type Vertex struct {
	AtlasIndex uint32     // atlas page the vertex was packed into
	UV         [2]float32 // texel coordinates within the page
	Xref       uint32     // index of the source vertex in the input mesh
}

// guard ties a view to the atlas state it was built from.
type guard struct {
	atlas *Atlas
	epoch uint64
}

func (g guard) valid() bool {
	return g.atlas == nil || g.atlas.epoch.Load() == g.epoch
}

// acquire holds the atlas read lock until the returned func is called, so
// Close and the mutating calls cannot free the data mid-read. It panics when
// a mutation is running or already happened.
func (g guard) acquire() (release func()) {
	if g.atlas == nil {
		return func() {}
	}
	if !g.atlas.mu.TryRLock() {
		panic(fmt.Errorf("xatlas: %w: %w", ErrStaleView, ErrBusy))
	}
	if g.atlas.epoch.Load() != g.epoch {
		g.atlas.mu.RUnlock()
		panic(fmt.Errorf("xatlas: %w", ErrStaleView))
	}
	return g.atlas.mu.RUnlock
}

// View is a read-only window onto an engine-owned array. Every accessor
// panics with ErrStaleView once the owning Atlas was closed or mutated.
// While an accessor runs, Close, AddMesh and Generate on the owning Atlas
// return ErrBusy.
type View[T any] struct {
	g    guard
	data []T
}

// Indices is a view of uint32 vertex indices.
type Indices = View[uint32]

// Vertices is a view of generated vertices.
type Vertices = View[Vertex]

// Valid reports whether the view may still be read.
func (v View[T]) Valid() bool {
	return v.g.valid()
}

// Len returns the number of elements.
func (v View[T]) Len() int {
	defer v.g.acquire()()
	return len(v.data)
}

// At returns element i.
func (v View[T]) At(i int) T {
	defer v.g.acquire()()
	return v.data[i]
}

// All iterates over the elements in order. Each element is read under the
// lock; the loop body runs without it.
func (v View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range v.data {
			release := v.g.acquire()
			e := v.data[i]
			release()
			if !yield(i, e) {
				return
			}
		}
	}
}

// Copy returns the elements in Go memory; the copy outlives the Atlas.
func (v View[T]) Copy() []T {
	defer v.g.acquire()()
	return slices.Clone(v.data)
}

// Chart is one chart of a generated mesh.
type Chart struct {
	AtlasIndex uint32  // atlas page holding the chart
	Indices    Indices // triangles of the chart, indexing Mesh.Vertices
}

// Mesh is the generated counterpart of one input mesh.
type Mesh struct {
	Charts   []Chart
	Indices  Indices
	Vertices Vertices
}

// Meshes returns views over the generated meshes, in AddMesh order. The
// views stay valid until Close or the next AddMesh or Generate.
func (a *Atlas) Meshes() ([]Mesh, error) {
	if err := a.rlock(); err != nil {
		return nil, err
	}
	defer a.mu.RUnlock()

	if !a.generated {
		return nil, ErrNotGenerated
	}

	out := a.engine.Output(a.handle)
	g := guard{atlas: a, epoch: a.epoch.Load()}

	raw := foreignSlice[abi.Mesh](out.Meshes, out.MeshCount)
	meshes := make([]Mesh, len(raw))
	for i, m := range raw {
		charts := foreignSlice[abi.Chart](m.ChartArray, m.ChartCount)
		mesh := Mesh{
			Charts:   make([]Chart, len(charts)),
			Indices:  Indices{g: g, data: foreignSlice[uint32](m.IndexArray, m.IndexCount)},
			Vertices: Vertices{g: g, data: foreignSlice[Vertex](m.VertexArray, m.VertexCount)},
		}
		for j, c := range charts {
			mesh.Charts[j] = Chart{
				AtlasIndex: c.AtlasIndex,
				Indices:    Indices{g: g, data: foreignSlice[uint32](c.IndexArray, c.IndexCount)},
			}
		}
		meshes[i] = mesh
	}

	return meshes, nil
}

// foreignSlice aliases n elements at p. A null pointer yields an empty
// slice whatever n says.
func foreignSlice[T any](p unsafe.Pointer, n uint32) []T {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(p), n)
}
