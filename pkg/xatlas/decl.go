package xatlas

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

// IndexFormat is the element type of MeshDecl.IndexData.
type IndexFormat int

const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)

// Size returns the size of one index in bytes.
func (f IndexFormat) Size() int {
	switch f {
	case IndexFormatUint16:
		return 2
	case IndexFormatUint32:
		return 4
	default:
		panic(fmt.Sprintf("xatlas: unknown index format %d", int(f)))
	}
}

// String returns "uint16" or "uint32".
func (f IndexFormat) String() string {
	switch f {
	case IndexFormatUint16:
		return "uint16"
	case IndexFormatUint32:
		return "uint32"
	default:
		return fmt.Sprintf("IndexFormat(%d)", int(f))
	}
}

func (f IndexFormat) code() uint32 {
	switch f {
	case IndexFormatUint16:
		return abi.IndexFormatUint16
	case IndexFormatUint32:
		return abi.IndexFormatUint32
	default:
		panic(fmt.Sprintf("xatlas: unknown index format %d", int(f)))
	}
}

// Minimum bytes per vertex read by the engine for each attribute.
const (
	positionElemSize = 3 * 4
	normalElemSize   = 3 * 4
	uvElemSize       = 2 * 4
)

// MeshDecl describes one input mesh. Attribute buffers hold float32
// components in native byte order; each stride is the distance in bytes
// between consecutive vertices. Normals, UVs and FaceIgnore are optional.
//
// With IndexCount zero the mesh is unindexed and every three vertices form a
// triangle.
type MeshDecl struct {
	VertexCount uint32

	VertexPositionData   []byte
	VertexPositionStride uint32

	VertexNormalData   []byte
	VertexNormalStride uint32

	VertexUVData   []byte
	VertexUVStride uint32

	IndexCount  uint32
	IndexData   []byte
	IndexFormat IndexFormat
	IndexOffset int32 // added to every index

	// FaceIgnore marks faces the engine should skip, one entry per face.
	FaceIgnore []bool
}

// FaceCount returns the number of triangles the declaration describes.
func (d *MeshDecl) FaceCount() uint32 {
	if d.IndexCount > 0 {
		return d.IndexCount / 3
	}
	return d.VertexCount / 3
}

// Validate checks every buffer against its declared count and stride, and
// every index against the vertex range. Nothing that passes Validate can make
// the engine read outside a caller buffer.
func (d *MeshDecl) Validate() error {
	if d.VertexCount == 0 {
		return invalid("VertexCount", "must be positive")
	}

	attrs := []struct {
		data     []byte
		stride   uint32
		elem     uint32
		name     string
		required bool
	}{
		{d.VertexPositionData, d.VertexPositionStride, positionElemSize, "VertexPosition", true},
		{d.VertexNormalData, d.VertexNormalStride, normalElemSize, "VertexNormal", false},
		{d.VertexUVData, d.VertexUVStride, uvElemSize, "VertexUV", false},
	}
	for _, a := range attrs {
		if len(a.data) == 0 {
			if a.required {
				return invalid(a.name+"Data", "required")
			}
			continue
		}
		if a.stride < a.elem {
			return invalid(a.name+"Stride", "%d bytes is smaller than one element (%d bytes)", a.stride, a.elem)
		}
		need := uint64(d.VertexCount) * uint64(a.stride)
		if uint64(len(a.data)) < need {
			return invalid(a.name+"Data", "%d bytes, need at least %d (%d vertices × stride %d)",
				len(a.data), need, d.VertexCount, a.stride)
		}
	}

	size := d.IndexFormat.Size()

	if d.IndexCount == 0 {
		if len(d.IndexData) > 0 {
			return invalid("IndexData", "%d bytes given but IndexCount is 0", len(d.IndexData))
		}
		if d.VertexCount%3 != 0 {
			return invalid("VertexCount", "unindexed mesh needs a multiple of 3 vertices, got %d", d.VertexCount)
		}
	} else {
		if d.IndexCount%3 != 0 {
			return invalid("IndexCount", "must be a multiple of 3, got %d", d.IndexCount)
		}
		need := uint64(d.IndexCount) * uint64(size)
		if uint64(len(d.IndexData)) < need {
			return invalid("IndexData", "%d bytes, need at least %d (%d indices × %s)",
				len(d.IndexData), need, d.IndexCount, d.IndexFormat)
		}
		if err := d.checkIndexRange(size); err != nil {
			return err
		}
	}

	if n := len(d.FaceIgnore); n > 0 && uint64(n) < uint64(d.FaceCount()) {
		return invalid("FaceIgnore", "%d entries, need one per face (%d)", n, d.FaceCount())
	}

	return nil
}

func (d *MeshDecl) checkIndexRange(size int) error {
	for i := 0; i < int(d.IndexCount); i++ {
		var raw uint32
		if size == 2 {
			raw = uint32(binary.NativeEndian.Uint16(d.IndexData[i*2:]))
		} else {
			raw = binary.NativeEndian.Uint32(d.IndexData[i*4:])
		}
		v := int64(raw) + int64(d.IndexOffset)
		if v < 0 || v >= int64(d.VertexCount) {
			return invalid("IndexData", "index %d resolves to vertex %d, outside [0, %d)", i, v, d.VertexCount)
		}
	}
	return nil
}

// marshal fills the fixed-layout declaration. Every non-empty buffer is
// pinned on p; the caller unpins once the engine call returned.
func (d *MeshDecl) marshal(p *runtime.Pinner) abi.MeshDecl {
	return abi.MeshDecl{
		VertexCount:          d.VertexCount,
		VertexPositionData:   pin(p, d.VertexPositionData),
		VertexPositionStride: d.VertexPositionStride,
		VertexNormalData:     pin(p, d.VertexNormalData),
		VertexNormalStride:   d.VertexNormalStride,
		VertexUVData:         pin(p, d.VertexUVData),
		VertexUVStride:       d.VertexUVStride,
		IndexCount:           d.IndexCount,
		IndexData:            pin(p, d.IndexData),
		IndexOffset:          d.IndexOffset,
		IndexFormat:          d.IndexFormat.code(),
		FaceIgnoreData:       pin(p, d.FaceIgnore),
	}
}

// pin returns nil for an empty slice so optional attributes reach the
// engine as null pointers.
func pin[T any](p *runtime.Pinner, s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	ptr := unsafe.Pointer(unsafe.SliceData(s))
	p.Pin(ptr)
	return ptr
}
