// internal/od/scalar.go
package od

import (
	"encoding/binary"
	"unsafe"
)

// Integer is the set of native scalar types an object can hold.
type Integer interface {
	~uint8 | ~uint16 | ~uint32 | ~int8 | ~int16 | ~int32
}

// Blob values use little-endian order, the native order of the targets
// this dictionary is laid out for.
var byteOrder = binary.LittleEndian

// TypeOf returns the DataType matching T.
func TypeOf[T Integer]() DataType {
	var zero T
	signed := zero-1 < 0
	switch unsafe.Sizeof(zero) {
	case 1:
		if signed {
			return I8
		}
		return U8
	case 2:
		if signed {
			return I16
		}
		return U16
	case 4:
		if signed {
			return I32
		}
		return U32
	}
	return Invalid
}

// Encode stores v into a new slice of its native width.
func Encode[T Integer](v T) []byte {
	b := make([]byte, TypeSize(TypeOf[T]()))
	Put(b, v)
	return b
}

// Put stores v into b, which must be at least the native width of T.
func Put[T Integer](b []byte, v T) {
	putScalar(b, TypeOf[T](), int64(v))
}

// Decode reads a T from the first bytes of b.
func Decode[T Integer](b []byte) T {
	return T(loadScalar(b, TypeOf[T]()))
}

// loadScalar reads an integer of type t from b, sign-extending signed types.
func loadScalar(b []byte, t DataType) int64 {
	switch t {
	case U8:
		return int64(b[0])
	case I8:
		return int64(int8(b[0]))
	case U16:
		return int64(byteOrder.Uint16(b))
	case I16:
		return int64(int16(byteOrder.Uint16(b)))
	case U32:
		return int64(byteOrder.Uint32(b))
	case I32:
		return int64(int32(byteOrder.Uint32(b)))
	}
	return 0
}

// putScalar stores the low bytes of v as type t into b.
func putScalar(b []byte, t DataType, v int64) {
	switch t {
	case U8, I8:
		b[0] = byte(v)
	case U16, I16:
		byteOrder.PutUint16(b, uint16(v))
	case U32, I32:
		byteOrder.PutUint32(b, uint32(v))
	}
}

// LoadInt decodes an integer element of type t; ok is false for non-integer
// types or short input.
func LoadInt(b []byte, t DataType) (v int64, ok bool) {
	if !t.Integer() || len(b) < TypeSize(t) {
		return 0, false
	}
	return loadScalar(b, t), true
}

// StoreInt encodes v as type t into b.
func StoreInt(b []byte, t DataType, v int64) bool {
	if !t.Integer() || len(b) < TypeSize(t) {
		return false
	}
	putScalar(b, t, v)
	return true
}
