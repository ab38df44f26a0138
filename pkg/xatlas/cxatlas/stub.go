//go:build cgo && xatlas_stub

package cxatlas

// #include "stub.h"
import "C"

// setStubScript replaces the progress reports the stand-in engine emits
// from every Generate call.
func setStubScript(reports [][2]int32) {
	codes := make([]C.int, len(reports)+1)
	values := make([]C.int, len(reports)+1)
	for i, r := range reports {
		codes[i] = C.int(r[0])
		values[i] = C.int(r[1])
	}
	C.xatlasStubSetScript(&codes[0], &values[0], C.int(len(reports)))
}

func stubLive() int {
	return int(C.xatlasStubLive())
}

func stubGenerated() int {
	return int(C.xatlasStubGenerated())
}
