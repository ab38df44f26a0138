// Package xatlas is a memory-safe API over the native xatlas mesh atlas
// generator.
//
// A typical session:
//
//	atlas := xatlas.New()
//	defer atlas.Close()
//
//	if err := atlas.AddMesh(decl); err != nil {
//		return err
//	}
//	if err := atlas.Generate(xatlas.DefaultChartOptions(), xatlas.DefaultPackOptions(), nil); err != nil {
//		return err
//	}
//	meshes, err := atlas.Meshes()
//
// # Boundary rules
//
// Mesh declarations are validated before anything reaches the engine; the
// engine copies the data, so the caller's buffers are free once AddMesh
// returns. Views returned by Meshes alias engine memory and panic with
// ErrStaleView if touched after Close or after a further AddMesh/Generate;
// use Copy to keep data around.
//
// The engine reports no status. A failure inside it shows up only as
// degenerate output (no meshes, empty chart lists) and cannot be told apart
// from a trivial input.
//
// An Atlas must be used from one goroutine at a time. Overlapping calls fail
// with ErrBusy instead of racing on the native state.
//
// The native engine lives in package cxatlas, which registers itself when
// imported. Tests can substitute any abi.Engine with WithEngine.
package xatlas
