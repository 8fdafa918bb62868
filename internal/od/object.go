// internal/od/object.go
package od

import "iter"

// Object binds a name and a descriptor to an externally owned blob.
// It owns nothing and is cheap to copy. A nil blob marks a write-only object.
type Object struct {
	name string
	desc Descriptor
	data []byte
}

// NewObject creates a handle. desc must outlive every copy of the handle.
func NewObject(name string, desc Descriptor, data []byte) Object {
	return Object{name: name, desc: desc, data: data}
}

func (o Object) Name() string { return o.name }
func (o Object) Descriptor() Descriptor { return o.desc }
func (o Object) Data() []byte { return o.data }

// Info returns the common metadata header.
func (o Object) Info() *Info { return o.desc.Base() }

func (o Object) Class() ClassID { return o.Info().Class }
func (o Object) Type() DataType { return o.Info().Type }
func (o Object) Count() uint8 { return o.Info().NElem }
func (o Object) Perm() Permissions { return o.Info().Perm }
func (o Object) Size() int { return int(o.Info().DataSize) }
func (o Object) WriteOnly() bool { return o.data == nil }
func (o Object) Valid() bool { return o.desc != nil }

// view returns blob[off:off+size] or nil when it does not fit.
func (o Object) view(off, size int) []byte {
	if off < 0 || size < 0 || off+size > len(o.data) {
		return nil
	}
	return o.data[off : off+size]
}

// Get copies element sub into buf and returns the number of bytes written,
// or a negative Error.
//
// Sub-index 0 of an array or record yields its element count as one byte;
// elements are addressed 1..Count(). A variable only accepts sub-index 0.
func (o Object) Get(sub uint8, buf []byte) int32 {
	if o.data == nil {
		return int32(WriteOnly)
	}
	info := o.Info()

	switch info.Class {
	case ClassVariable:
		if sub != 0 {
			return int32(FieldNotFound)
		}
		return o.GetAll(buf)

	case ClassArray, ClassRecord:
		if sub > info.NElem {
			return int32(FieldNotFound)
		}
		if sub == 0 {
			if len(buf) < 1 {
				return int32(ParamTooShort)
			}
			buf[0] = info.NElem
			return 1
		}
		el := o.Element(sub)
		if len(buf) < int(el.Size) {
			return int32(ParamTooShort)
		}
		src := o.view(int(el.Offset), int(el.Size))
		if src == nil {
			return int32(FieldNotFound)
		}
		return int32(copy(buf, src))
	}
	return int32(ObjectNotFound)
}

// GetAll copies the object's whole region into buf.
// It fails with ParamTooShort rather than truncating.
func (o Object) GetAll(buf []byte) int32 {
	if o.data == nil {
		return int32(WriteOnly)
	}
	info := o.Info()
	if len(buf) < int(info.DataSize) {
		return int32(ParamTooShort)
	}
	src := o.view(int(info.DataOffset), int(info.DataSize))
	if src == nil {
		return int32(ObjectNotFound)
	}
	return int32(copy(buf, src))
}

// Set validates data and stores it as element sub.
func (o Object) Set(sub uint8, data []byte) Error {
	if o.desc == nil {
		return ObjectNotFound
	}
	info := o.Info()
	if info.Set == nil {
		return ReadOnly
	}
	if info.Class == ClassVariable && sub != 0 {
		return FieldNotFound
	}
	return info.Set(o, sub, data)
}

// Element resolves the metadata of sub-index sub.
// Sub-index 0, and any sub-index out of range, yields the object's
// own descriptor without a name.
func (o Object) Element(sub uint8) ElementInfo {
	info := o.Info()
	el := ElementInfo{Info: o.desc, Offset: info.DataOffset, Size: info.DataSize}
	if sub == 0 || sub > info.NElem {
		return el
	}

	switch d := o.desc.(type) {
	case *RecordInfo:
		f := &d.Fields[sub-1]
		el.Info = f
		el.Name = f.Name
		el.Offset = f.DataOffset
		el.Size = f.DataSize
	case *ArrayInfo:
		size := uint16(d.ElementSize())
		el.Name = d.Name(sub - 1)
		el.Size = size
		el.Offset = info.DataOffset + size*uint16(sub-1)
	}
	return el
}

// Field is one enumerated element of an object.
//
// Enumeration positions are zero-based: position p addresses the element
// at sub-index p+1. Position 0 is therefore the first element, never the
// element count reported by Get(0).
type Field struct {
	Object Object
	Pos    uint8
}

// SubIndex returns the 1-based sub-index used by Get and Set.
func (f Field) SubIndex() uint8 { return f.Pos + 1 }

func (f Field) Info() ElementInfo { return f.Object.Element(f.SubIndex()) }
func (f Field) Get(buf []byte) int32 { return f.Object.Get(f.SubIndex(), buf) }
func (f Field) Set(data []byte) Error { return f.Object.Set(f.SubIndex(), data) }

// Fields enumerates positions 0..Count()-1 of an array or record.
// Variables yield nothing.
func (o Object) Fields() iter.Seq[Field] {
	return func(yield func(Field) bool) {
		info := o.Info()
		if info.Class != ClassArray && info.Class != ClassRecord {
			return
		}
		for p := uint8(0); p < info.NElem; p++ {
			if !yield(Field{Object: o, Pos: p}) {
				return
			}
		}
	}
}
