//go:build cgo

package cxatlas

/*
#cgo CFLAGS: -I${SRCDIR}
#include "xatlas_c.h"

extern void xatlasProgressTrampoline(xatlasProgressCategory category, int progress, void *userData);
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"unsafe"

	"github.com/Faultbox/xatlas-go/pkg/xatlas"
	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

func init() {
	for _, l := range layouts() {
		checkLayout(l.name, l.cSize, l.goSize)
	}

	xatlas.Register(Engine{})
}

type layout struct {
	name   string
	cSize  uintptr
	goSize uintptr
}

func layouts() []layout {
	return []layout{
		{"xatlasMeshDecl", uintptr(C.sizeof_xatlasMeshDecl), unsafe.Sizeof(abi.MeshDecl{})},
		{"xatlasChartOptions", uintptr(C.sizeof_xatlasChartOptions), unsafe.Sizeof(abi.ChartOptions{})},
		{"xatlasPackOptions", uintptr(C.sizeof_xatlasPackOptions), unsafe.Sizeof(abi.PackOptions{})},
		{"xatlasChart", uintptr(C.sizeof_xatlasChart), unsafe.Sizeof(abi.Chart{})},
		{"xatlasVertex", uintptr(C.sizeof_xatlasVertex), unsafe.Sizeof(abi.Vertex{})},
		{"xatlasMesh", uintptr(C.sizeof_xatlasMesh), unsafe.Sizeof(abi.Mesh{})},
		{"xatlasAtlas", uintptr(C.sizeof_xatlasAtlas), unsafe.Sizeof(abi.Atlas{})},
	}
}

// checkLayout aborts start-up when the Go mirror of a C struct drifted from
// the header; every later pointer cast depends on it.
func checkLayout(name string, cSize, goSize uintptr) {
	if cSize != goSize {
		panic(fmt.Sprintf("cxatlas: %s is %d bytes in C but %d bytes in package abi", name, cSize, goSize))
	}
}

// Engine calls into the native library.
type Engine struct{}

func atlasPtr(h abi.Handle) *C.xatlasAtlas {
	return (*C.xatlasAtlas)(unsafe.Pointer(h))
}

// Create allocates a native atlas. xatlas aborts the process if it cannot.
func (Engine) Create() abi.Handle {
	return abi.Handle(unsafe.Pointer(C.xatlasCreate()))
}

// AddMesh passes decl through unchanged. The caller pins every buffer decl
// points to for the duration of the call.
func (Engine) AddMesh(h abi.Handle, decl *abi.MeshDecl) {
	C.xatlasAddMesh(atlasPtr(h), (*C.xatlasMeshDecl)(unsafe.Pointer(decl)))
}

// Generate runs the native pipeline. When progress is set it is reached
// through a cgo.Handle whose address is the callback's user data; the handle
// is released before Generate returns. A panic raised by progress stops
// further reports and is re-raised after the native call has returned.
func (Engine) Generate(h abi.Handle, chart abi.ChartOptions, pack abi.PackOptions, progress abi.ProgressFunc) {
	cChart := *(*C.xatlasChartOptions)(unsafe.Pointer(&chart))
	cPack := *(*C.xatlasPackOptions)(unsafe.Pointer(&pack))

	if progress == nil {
		C.xatlasGenerate(atlasPtr(h), cChart, nil, cPack, nil, nil)
		return
	}

	call := &progressCall{fn: progress}
	handle := cgo.NewHandle(call)
	defer handle.Delete()

	C.xatlasGenerate(
		atlasPtr(h),
		cChart,
		nil,
		cPack,
		C.xatlasProgressFunc(C.xatlasProgressTrampoline),
		unsafe.Pointer(&handle),
	)

	if call.panicked {
		panic(call.value)
	}
}

// Output exposes the public prefix of the native atlas struct.
func (Engine) Output(h abi.Handle) *abi.Atlas {
	return (*abi.Atlas)(unsafe.Pointer(h))
}

// Destroy frees the native atlas and everything it owns.
func (Engine) Destroy(h abi.Handle) {
	C.xatlasDestroy(atlasPtr(h))
}
