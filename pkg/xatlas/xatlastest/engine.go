// Package xatlastest provides an in-memory abi.Engine for tests.
//
// The engine reads mesh declarations through the same raw pointers the
// native library would, so marshalling bugs surface as wrong output or
// faults in tests. Its "atlas" is deliberately simple: one chart per
// connected group of faces, each chart projected on its dominant plane and
// placed on a row of square cells in atlas page 0.
package xatlastest

import (
	"encoding/binary"
	"math"
	"sync"
	"unsafe"

	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

// Report is one scripted progress callback.
type Report struct {
	Category int32
	Progress int32
}

// Engine implements abi.Engine in Go memory. The zero value is ready to use.
type Engine struct {
	// Script replaces the default progress reports emitted by Generate.
	Script []Report

	mu        sync.Mutex
	live      map[*atlas]struct{}
	created   int
	destroyed int
	addCalls  int
	genCalls  int
	lastFunc  abi.ProgressFunc
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{}
}

type inputMesh struct {
	positions [][3]float32
	indices   []uint32
	ignore    []bool
}

type atlas struct {
	inputs []inputMesh
	out    abi.Atlas

	// Go memory referenced by out; kept reachable through the atlas.
	meshes  []abi.Mesh
	charts  [][]abi.Chart
	indices [][]uint32
	verts   [][]abi.Vertex
}

func (e *Engine) get(h abi.Handle) *atlas {
	a := (*atlas)(unsafe.Pointer(h))
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.live[a]; !ok {
		panic("xatlastest: use of a destroyed or foreign atlas handle")
	}
	return a
}

// Create allocates an atlas.
func (e *Engine) Create() abi.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live == nil {
		e.live = make(map[*atlas]struct{})
	}
	a := &atlas{}
	e.live[a] = struct{}{}
	e.created++
	return abi.Handle(unsafe.Pointer(a))
}

// Destroy releases an atlas. Destroying a handle twice panics.
func (e *Engine) Destroy(h abi.Handle) {
	a := e.get(h)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.live, a)
	e.destroyed++
}

// AddMesh copies the declared mesh out of the caller's buffers.
func (e *Engine) AddMesh(h abi.Handle, decl *abi.MeshDecl) {
	a := e.get(h)

	e.mu.Lock()
	e.addCalls++
	e.mu.Unlock()

	in := inputMesh{positions: make([][3]float32, decl.VertexCount)}
	pos := unsafe.Slice((*byte)(decl.VertexPositionData), int(decl.VertexCount)*int(decl.VertexPositionStride))
	for i := range in.positions {
		base := i * int(decl.VertexPositionStride)
		for k := 0; k < 3; k++ {
			bits := binary.NativeEndian.Uint32(pos[base+4*k:])
			in.positions[i][k] = math.Float32frombits(bits)
		}
	}

	if decl.IndexCount == 0 {
		in.indices = make([]uint32, decl.VertexCount)
		for i := range in.indices {
			in.indices[i] = uint32(i)
		}
	} else {
		in.indices = make([]uint32, decl.IndexCount)
		switch decl.IndexFormat {
		case abi.IndexFormatUint16:
			src := unsafe.Slice((*byte)(decl.IndexData), int(decl.IndexCount)*2)
			for i := range in.indices {
				in.indices[i] = uint32(int32(binary.NativeEndian.Uint16(src[2*i:])) + decl.IndexOffset)
			}
		case abi.IndexFormatUint32:
			src := unsafe.Slice((*byte)(decl.IndexData), int(decl.IndexCount)*4)
			for i := range in.indices {
				in.indices[i] = uint32(int32(binary.NativeEndian.Uint32(src[4*i:])) + decl.IndexOffset)
			}
		default:
			panic("xatlastest: unknown index format code")
		}
	}

	if decl.FaceIgnoreData != nil {
		faces := len(in.indices) / 3
		in.ignore = make([]bool, faces)
		copy(in.ignore, unsafe.Slice((*bool)(decl.FaceIgnoreData), faces))
	}

	a.inputs = append(a.inputs, in)
}

// Generate builds the output and emits progress for all four stages.
func (e *Engine) Generate(h abi.Handle, chart abi.ChartOptions, pack abi.PackOptions, progress abi.ProgressFunc) {
	a := e.get(h)

	e.mu.Lock()
	e.genCalls++
	e.lastFunc = progress
	script := e.Script
	e.mu.Unlock()

	emit := func(category int32, pct int32) {
		if progress != nil && script == nil {
			progress(category, pct)
		}
	}

	emit(abi.ProgressComputeCharts, 0)
	groups := make([][][]int, len(a.inputs))
	for i, in := range a.inputs {
		groups[i] = connectedFaces(in)
	}
	emit(abi.ProgressComputeCharts, 100)

	emit(abi.ProgressParameterizeCharts, 0)
	emit(abi.ProgressParameterizeCharts, 100)

	emit(abi.ProgressPackCharts, 0)
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	cell := uint32(64)
	if pack.MaxChartSize > 0 && pack.MaxChartSize < cell {
		cell = pack.MaxChartSize
	}
	emit(abi.ProgressPackCharts, 100)

	emit(abi.ProgressBuildOutputMeshes, 0)
	a.build(groups, cell, pack.Padding)
	a.out.Width = cell * uint32(max(total, 1))
	a.out.Height = cell
	a.out.AtlasCount = 1
	a.out.ChartCount = uint32(total)
	a.out.TexelsPerUnit = pack.TexelsPerUnit
	emit(abi.ProgressBuildOutputMeshes, 100)

	if progress != nil {
		for _, r := range script {
			progress(r.Category, r.Progress)
		}
	}
}

// Output returns the generated atlas.
func (e *Engine) Output(h abi.Handle) *abi.Atlas {
	return &e.get(h).out
}

// connectedFaces groups the non-ignored faces of in by shared vertices.
func connectedFaces(in inputMesh) [][]int {
	parent := make([]int, len(in.positions))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	faces := len(in.indices) / 3
	for f := 0; f < faces; f++ {
		if f < len(in.ignore) && in.ignore[f] {
			continue
		}
		a := find(int(in.indices[3*f]))
		for k := 1; k < 3; k++ {
			parent[find(int(in.indices[3*f+k]))] = a
		}
	}

	var groups [][]int
	byRoot := make(map[int]int)
	for f := 0; f < faces; f++ {
		if f < len(in.ignore) && in.ignore[f] {
			continue
		}
		root := find(int(in.indices[3*f]))
		g, ok := byRoot[root]
		if !ok {
			g = len(groups)
			byRoot[root] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], f)
	}
	return groups
}

func (a *atlas) build(groups [][][]int, cell, padding uint32) {
	a.meshes = make([]abi.Mesh, len(a.inputs))
	a.charts = make([][]abi.Chart, len(a.inputs))
	a.indices = nil
	a.verts = make([][]abi.Vertex, len(a.inputs))

	slot := 0
	for m, in := range a.inputs {
		var verts []abi.Vertex
		var meshIndices []uint32
		charts := make([]abi.Chart, 0, len(groups[m]))

		for _, faces := range groups[m] {
			remap := make(map[uint32]uint32)
			var chartIndices []uint32
			for _, f := range faces {
				for k := 0; k < 3; k++ {
					src := in.indices[3*f+k]
					dst, ok := remap[src]
					if !ok {
						dst = uint32(len(verts))
						remap[src] = dst
						verts = append(verts, abi.Vertex{Xref: src})
					}
					chartIndices = append(chartIndices, dst)
				}
			}
			project(in, verts, remap, float32(slot)*float32(cell), float32(cell), float32(padding))
			meshIndices = append(meshIndices, chartIndices...)
			a.indices = append(a.indices, chartIndices)
			charts = append(charts, abi.Chart{
				AtlasIndex: 0,
				IndexCount: uint32(len(chartIndices)),
				IndexArray: unsafe.Pointer(unsafe.SliceData(chartIndices)),
			})
			slot++
		}

		a.charts[m] = charts
		a.verts[m] = verts
		a.indices = append(a.indices, meshIndices)
		a.meshes[m] = abi.Mesh{
			ChartArray:  sliceData(charts),
			ChartCount:  uint32(len(charts)),
			IndexCount:  uint32(len(meshIndices)),
			IndexArray:  sliceData(meshIndices),
			VertexArray: sliceData(verts),
			VertexCount: uint32(len(verts)),
		}
	}

	a.out.MeshCount = uint32(len(a.meshes))
	a.out.Meshes = sliceData(a.meshes)
}

// project maps the chart's vertices onto the plane spanned by the two axes
// with the largest extent, scaled into one cell.
func project(in inputMesh, verts []abi.Vertex, remap map[uint32]uint32, x0, size, padding float32) {
	var lo, hi [3]float32
	first := true
	for src := range remap {
		p := in.positions[src]
		for k := 0; k < 3; k++ {
			if first || p[k] < lo[k] {
				lo[k] = p[k]
			}
			if first || p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
		first = false
	}

	drop := 0
	for k := 1; k < 3; k++ {
		if hi[k]-lo[k] < hi[drop]-lo[drop] {
			drop = k
		}
	}
	u, v := (drop+1)%3, (drop+2)%3

	extent := max(hi[u]-lo[u], hi[v]-lo[v])
	if extent == 0 {
		extent = 1
	}
	scale := (size - 2*padding) / extent

	for src, dst := range remap {
		p := in.positions[src]
		verts[dst].UV = [2]float32{
			x0 + padding + (p[u]-lo[u])*scale,
			padding + (p[v]-lo[v])*scale,
		}
	}
}

func sliceData[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(s))
}

// Live returns the number of atlases created and not yet destroyed.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// Created returns the number of Create calls.
func (e *Engine) Created() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created
}

// Destroyed returns the number of Destroy calls.
func (e *Engine) Destroyed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// AddMeshCalls returns the number of meshes that reached the engine.
func (e *Engine) AddMeshCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addCalls
}

// GenerateCalls returns the number of Generate calls.
func (e *Engine) GenerateCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.genCalls
}

// CallStaleProgress invokes the progress function of the last Generate call
// after it returned, the way a misbehaving engine might.
func (e *Engine) CallStaleProgress(category, progress int32) {
	e.mu.Lock()
	fn := e.lastFunc
	e.mu.Unlock()
	if fn != nil {
		fn(category, progress)
	}
}
