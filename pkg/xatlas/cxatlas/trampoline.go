//go:build cgo

package cxatlas

// #include "xatlas_c.h"
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

// progressCall carries one Generate's progress func across the C boundary.
// A panic in fn must not unwind through native frames, so it is parked here
// and raised again once the engine has returned.
type progressCall struct {
	fn       abi.ProgressFunc
	panicked bool
	value    any
}

func (c *progressCall) report(category, progress int32) {
	if c.panicked {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.panicked = true
			c.value = r
		}
	}()
	c.fn(category, progress)
}

//export goXatlasProgress
func goXatlasProgress(category C.int, progress C.int, userData unsafe.Pointer) {
	h := *(*cgo.Handle)(userData)
	h.Value().(*progressCall).report(int32(category), int32(progress))
}
