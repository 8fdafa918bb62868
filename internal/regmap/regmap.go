// internal/regmap/regmap.go
package regmap

import (
	"errors"
	"fmt"

	"github.com/tamzrod/modbus-od/internal/od"
)

// Register layout of object values on the field bus.
//
//   u8/i8/u16/i16   one register (8-bit values sign- or zero-extended)
//   u32/i32         two registers, high word first
//   string/bstring  two bytes per register, big-endian, NUL padded
//
// Arrays and records concatenate their elements in sub-index order.

// Count returns the number of registers one element of type dt
// and size bytes occupies.
func Count(dt od.DataType, size int) int {
	switch dt {
	case od.U8, od.I8, od.U16, od.I16:
		return 1
	case od.U32, od.I32:
		return 2
	case od.String, od.BinString:
		return (size + 1) / 2
	}
	return 0
}

// ObjectCount returns the number of registers the whole object occupies.
func ObjectCount(obj od.Object) int {
	if obj.Class() == od.ClassVariable {
		return Count(obj.Type(), obj.Size())
	}
	n := 0
	for f := range obj.Fields() {
		el := f.Info()
		n += Count(el.Info.Base().Type, int(el.Size))
	}
	return n
}

// Encode reads the current value of obj and converts it to registers.
func Encode(obj od.Object) ([]uint16, error) {
	regs := make([]uint16, 0, ObjectCount(obj))

	if obj.Class() == od.ClassVariable {
		return appendElement(regs, obj, 0, obj.Type(), obj.Size())
	}

	var err error
	for f := range obj.Fields() {
		el := f.Info()
		regs, err = appendElement(regs, obj, f.SubIndex(), el.Info.Base().Type, int(el.Size))
		if err != nil {
			return nil, err
		}
	}
	return regs, nil
}

// Decode converts regs and stores them into obj through its validated
// setters, one element at a time. regs must hold exactly ObjectCount(obj)
// registers. Elements already stored before a failing one stay stored.
func Decode(obj od.Object, regs []uint16) error {
	if want := ObjectCount(obj); len(regs) != want {
		return fmt.Errorf("regmap: %s needs %d registers, got %d", obj.Name(), want, len(regs))
	}

	if obj.Class() == od.ClassVariable {
		return storeElement(obj, 0, obj.Type(), obj.Size(), regs)
	}

	for f := range obj.Fields() {
		el := f.Info()
		dt := el.Info.Base().Type
		n := Count(dt, int(el.Size))
		if err := storeElement(obj, f.SubIndex(), dt, int(el.Size), regs[:n]); err != nil {
			return err
		}
		regs = regs[n:]
	}
	return nil
}

func appendElement(dst []uint16, obj od.Object, sub uint8, dt od.DataType, size int) ([]uint16, error) {
	buf := make([]byte, size)
	n, e := od.Result(obj.Get(sub, buf))
	if e != od.OK {
		return nil, fmt.Errorf("regmap: read %s sub %d: %w", obj.Name(), sub, e)
	}
	buf = buf[:n]

	switch dt {
	case od.String, od.BinString:
		for i := 0; i < size; i += 2 {
			var hi, lo byte
			if i < len(buf) {
				hi = buf[i]
			}
			if i+1 < len(buf) {
				lo = buf[i+1]
			}
			dst = append(dst, uint16(hi)<<8|uint16(lo))
		}
		return dst, nil
	}

	v, ok := od.LoadInt(buf, dt)
	if !ok {
		return nil, fmt.Errorf("regmap: %s sub %d: unsupported type %s", obj.Name(), sub, dt)
	}
	if Count(dt, size) == 2 {
		return append(dst, uint16(uint32(v)>>16), uint16(v)), nil
	}
	return append(dst, uint16(v)), nil
}

func storeElement(obj od.Object, sub uint8, dt od.DataType, size int, regs []uint16) error {
	data, err := elementBytes(dt, size, regs)
	if err != nil {
		return fmt.Errorf("regmap: %s sub %d: %w", obj.Name(), sub, err)
	}
	if e := obj.Set(sub, data); e != od.OK {
		return fmt.Errorf("regmap: write %s sub %d: %w", obj.Name(), sub, e)
	}
	return nil
}

// elementBytes converts registers into the native encoding of one element.
func elementBytes(dt od.DataType, size int, regs []uint16) ([]byte, error) {
	switch dt {
	case od.String, od.BinString:
		b := make([]byte, 0, len(regs)*2)
		for _, r := range regs {
			b = append(b, byte(r>>8), byte(r))
		}
		b = b[:size]
		if dt == od.String {
			// the setter pads again; a full-length value without NUL is rejected there
			for i, c := range b {
				if c == 0 {
					b = b[:i]
					break
				}
			}
		}
		return b, nil
	}

	if !dt.Integer() {
		return nil, errors.New("unsupported type " + dt.String())
	}

	var v int64
	switch Count(dt, size) {
	case 2:
		u := uint32(regs[0])<<16 | uint32(regs[1])
		if dt.Signed() {
			v = int64(int32(u))
		} else {
			v = int64(u)
		}
	default:
		if dt.Signed() {
			v = int64(int16(regs[0]))
		} else {
			v = int64(regs[0])
		}
	}

	if e := fits(dt, v); e != od.OK {
		return nil, e
	}
	b := make([]byte, od.TypeSize(dt))
	od.StoreInt(b, dt, v)
	return b, nil
}

// fits reports whether v is representable as dt.
func fits(dt od.DataType, v int64) od.Error {
	var lo, hi int64
	switch dt {
	case od.U8:
		lo, hi = 0, 0xFF
	case od.I8:
		lo, hi = -0x80, 0x7F
	default:
		return od.OK
	}
	if v < lo {
		return od.ValueTooLow
	}
	if v > hi {
		return od.ValueTooHigh
	}
	return od.OK
}
