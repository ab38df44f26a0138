package xatlas

import "unsafe"

// Float32Bytes reinterprets s as its native-endian bytes without copying.
func Float32Bytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*4)
}

// Uint16Bytes reinterprets s as its native-endian bytes without copying.
func Uint16Bytes(s []uint16) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*2)
}

// Uint32Bytes reinterprets s as its native-endian bytes without copying.
func Uint32Bytes(s []uint32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*4)
}

// NewMeshDeclFloat32 declares tightly packed xyz positions with 32-bit
// indices. The returned declaration aliases both slices.
func NewMeshDeclFloat32(positions []float32, indices []uint32) *MeshDecl {
	return &MeshDecl{
		VertexCount:          uint32(len(positions) / 3),
		VertexPositionData:   Float32Bytes(positions),
		VertexPositionStride: positionElemSize,
		IndexCount:           uint32(len(indices)),
		IndexData:            Uint32Bytes(indices),
		IndexFormat:          IndexFormatUint32,
	}
}
