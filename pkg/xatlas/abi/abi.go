// Package abi mirrors the fixed-layout structs and integer codes of the
// xatlas C interface (see cxatlas/xatlas_c.h).
//
// Every struct here has the same field order, field sizes and padding as its
// C counterpart so a pointer to one can be handed across the cgo boundary
// without copying. Nothing in this package uses cgo; engines implement
// Engine on top of these types.
package abi

import "unsafe"

// Handle is the opaque foreign atlas pointer returned by Engine.Create.
type Handle unsafe.Pointer

// Index format codes (xatlasIndexFormat).
const (
	IndexFormatUint16 uint32 = 0
	IndexFormatUint32 uint32 = 1
)

// Progress category codes (xatlasProgressCategory).
const (
	ProgressComputeCharts      int32 = 0
	ProgressParameterizeCharts int32 = 1
	ProgressPackCharts         int32 = 2
	ProgressBuildOutputMeshes  int32 = 3
)

// MeshDecl mirrors xatlasMeshDecl.
type MeshDecl struct {
	VertexCount          uint32
	VertexPositionData   unsafe.Pointer
	VertexPositionStride uint32
	VertexNormalData     unsafe.Pointer
	VertexNormalStride   uint32
	VertexUVData         unsafe.Pointer
	VertexUVStride       uint32
	IndexCount           uint32
	IndexData            unsafe.Pointer
	IndexOffset          int32
	IndexFormat          uint32
	FaceIgnoreData       unsafe.Pointer // const bool *
}

// ChartOptions mirrors xatlasChartOptions.
type ChartOptions struct {
	ProxyFitMetricWeight     float32
	RoundnessMetricWeight    float32
	StraightnessMetricWeight float32
	NormalSeamMetricWeight   float32
	TextureSeamMetricWeight  float32
	MaxChartArea             float32
	MaxBoundaryLength        float32
	MaxThreshold             float32
	GrowFaceCount            uint32
	MaxIterations            uint32
}

// PackOptions mirrors xatlasPackOptions.
type PackOptions struct {
	Attempts      int32
	TexelsPerUnit float32
	Resolution    uint32
	MaxChartSize  uint32
	BlockAlign    bool
	Conservative  bool
	Padding       uint32
}

// Chart mirrors xatlasChart.
type Chart struct {
	AtlasIndex uint32
	IndexCount uint32
	IndexArray unsafe.Pointer // uint32_t *
}

// Vertex mirrors xatlasVertex.
type Vertex struct {
	AtlasIndex uint32
	UV         [2]float32
	Xref       uint32
}

// Mesh mirrors xatlasMesh.
type Mesh struct {
	ChartArray  unsafe.Pointer // xatlasChart *
	ChartCount  uint32
	IndexCount  uint32
	IndexArray  unsafe.Pointer // uint32_t *
	VertexArray unsafe.Pointer // xatlasVertex *
	VertexCount uint32
}

// Atlas mirrors xatlasAtlas, the public part of the foreign handle.
type Atlas struct {
	Width         uint32
	Height        uint32
	AtlasCount    uint32
	ChartCount    uint32
	MeshCount     uint32
	TexelsPerUnit float32
	Meshes        unsafe.Pointer // xatlasMesh *
}

// ProgressFunc receives raw progress reports from the engine. It is only
// called synchronously from within Engine.Generate.
type ProgressFunc func(category int32, progress int32)

// Engine is the foreign boundary: the four entry points of the C library
// plus access to the output struct behind a handle.
//
// Implementations never return errors: the C library reports none. A failure
// inside the engine surfaces as degenerate output.
type Engine interface {
	Create() Handle
	// AddMesh copies the data referenced by decl; the pointers only need to
	// stay valid until it returns.
	AddMesh(h Handle, decl *MeshDecl)
	// Generate blocks until charts are computed, parameterized and packed.
	// progress may be nil.
	Generate(h Handle, chart ChartOptions, pack PackOptions, progress ProgressFunc)
	// Output returns the engine-owned result struct. It stays valid until
	// the next AddMesh, Generate or Destroy on h.
	Output(h Handle) *Atlas
	Destroy(h Handle)
}
