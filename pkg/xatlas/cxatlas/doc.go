// Package cxatlas binds the native xatlas library through cgo.
//
// Importing the package for its side effect registers the native engine as
// the default for package xatlas:
//
//	import _ "github.com/Faultbox/xatlas-go/pkg/xatlas/cxatlas"
//
// The binding is written against xatlas_c.h in this directory, which is not
// the xatlas_c.h shipped by current upstream xatlas. It describes the older
// C++ API whose Generate takes ChartOptions and PackOptions by value, a
// ParameterizeFunc, and the progress callback with its user data, and whose
// AddMesh returns nothing. libxatlas must export these four symbols with C
// linkage, as an extern "C" wrapper compiled together with an xatlas.cpp of
// that API. Builds against the newer upstream API (option pointers,
// xatlasAddMesh returning xatlasAddMeshError, xatlasSetProgressCallback)
// link but mismatch at run time and are not supported. Struct sizes are
// checked against package abi at start-up.
//
// The library is linked with -lxatlas; set CGO_CFLAGS/CGO_LDFLAGS when it is
// installed outside the default search paths. Without cgo the package is
// empty and nothing is registered.
//
// Building with the xatlas_stub tag replaces libxatlas with a small C
// stand-in (stub.c) that scripts progress reports and echoes its input, so
// the cgo boundary can be tested without the native library:
//
//	go test -tags xatlas_stub ./pkg/xatlas/cxatlas
package cxatlas
