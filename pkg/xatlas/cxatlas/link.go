//go:build cgo && !xatlas_stub

package cxatlas

// #cgo LDFLAGS: -lxatlas -lstdc++ -lm
import "C"
