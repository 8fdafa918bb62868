// internal/od/builder.go
package od

import (
	"errors"
	"fmt"
	"math"
)

// RangeOf builds an inclusive range from typed bounds.
func RangeOf[T Integer](min, max T) Range {
	return Range{Min: int64(min), Max: int64(max)}
}

// NewVariable describes a scalar of type T stored at offset 0.
func NewVariable[T Integer](perm Permissions, r Range) *VariableInfo {
	return NewScalar(TypeOf[T](), perm, 0, r)
}

// NewScalar describes a scalar of type t stored at off.
func NewScalar(t DataType, perm Permissions, off uint16, r Range) *VariableInfo {
	size := uint16(TypeSize(t))
	return &VariableInfo{
		Info: Info{
			Class:      ClassVariable,
			Type:       t,
			NElem:      1,
			Perm:       perm,
			DataOffset: off,
			DataSize:   size,
			Set:        ScalarSetter(t, off, r),
		},
		Range: r,
	}
}

// NewVariableFunc describes a scalar whose writes are handed to fn
// after validation. Combine with a nil blob for write-only objects.
func NewVariableFunc[T Integer](perm Permissions, r Range, fn func(T) Error) *VariableInfo {
	v := NewVariable[T](perm, r)
	v.Set = WrapSetter(r, fn)
	return v
}

// NewString describes a NUL padded text of length bytes stored at off.
func NewString(perm Permissions, off, length uint16) *VariableInfo {
	return &VariableInfo{Info: Info{
		Class:      ClassVariable,
		Type:       String,
		NElem:      1,
		Perm:       perm,
		DataOffset: off,
		DataSize:   length,
		Set:        StringSetter(off, length),
	}}
}

// NewBinString describes length raw bytes stored at off.
func NewBinString(perm Permissions, off, length uint16) *VariableInfo {
	return &VariableInfo{Info: Info{
		Class:      ClassVariable,
		Type:       BinString,
		NElem:      1,
		Perm:       perm,
		DataOffset: off,
		DataSize:   length,
		Set:        BinStringSetter(off, length),
	}}
}

// NewArray describes count elements of type t starting at off.
// names is either empty or holds exactly count entries.
func NewArray(t DataType, perm Permissions, off uint16, count uint8, r Range, names ...string) (*ArrayInfo, error) {
	if !t.Integer() {
		return nil, fmt.Errorf("od: array element type %s not supported", t)
	}
	if count == 0 {
		return nil, errors.New("od: array needs at least one element")
	}
	if len(names) != 0 && len(names) != int(count) {
		return nil, fmt.Errorf("od: array has %d elements but %d names", count, len(names))
	}
	size := TypeSize(t) * int(count)
	if int(off)+size > math.MaxUint16 {
		return nil, fmt.Errorf("od: array of %d bytes at offset %d exceeds blob limit", size, off)
	}
	a := &ArrayInfo{
		Info: Info{
			Class:      ClassArray,
			Type:       t,
			NElem:      count,
			Perm:       perm,
			DataOffset: off,
			DataSize:   uint16(size),
			Set:        ArraySetter,
		},
		Range: r,
	}
	if len(names) != 0 {
		a.Names = append([]string(nil), names...)
	}
	return a, nil
}

// MustArray is NewArray for package-level schemas. It panics on layout errors.
func MustArray(t DataType, perm Permissions, off uint16, count uint8, r Range, names ...string) *ArrayInfo {
	a, err := NewArray(t, perm, off, count, r, names...)
	if err != nil {
		panic(err)
	}
	return a
}

// FieldSpec declares one record field.
type FieldSpec struct {
	Name   string
	Type   DataType
	Perm   Permissions
	Offset uint16 // absolute offset inside the blob
	Length uint16 // byte length for String/BinString; ignored otherwise
	Range  Range
	Set    SetFunc // optional; derived from Type when nil
}

// FieldOf declares an integer field of type T at off.
func FieldOf[T Integer](perm Permissions, name string, off uint16, r Range) FieldSpec {
	return FieldSpec{Name: name, Type: TypeOf[T](), Perm: perm, Offset: off, Range: r}
}

// FuncField declares an integer field whose writes go to fn after validation.
func FuncField[T Integer](perm Permissions, name string, off uint16, r Range, fn func(T) Error) FieldSpec {
	f := FieldOf[T](perm, name, off, r)
	f.Set = WrapSetter(r, fn)
	return f
}

// StringField declares a fixed-length text field.
func StringField(perm Permissions, name string, off, length uint16) FieldSpec {
	return FieldSpec{Name: name, Type: String, Perm: perm, Offset: off, Length: length}
}

func (f FieldSpec) size() uint16 {
	if f.Type == String || f.Type == BinString {
		return f.Length
	}
	return uint16(TypeSize(f.Type))
}

func (f FieldSpec) setter() SetFunc {
	if f.Set != nil {
		return f.Set
	}
	switch f.Type {
	case String:
		return StringSetter(f.Offset, f.Length)
	case BinString:
		return BinStringSetter(f.Offset, f.Length)
	}
	return ScalarSetter(f.Type, f.Offset, f.Range)
}

// LayoutError reports a record field whose offset does not follow
// the previous field.
type LayoutError struct {
	Field string
	Index int
	Got   uint16
	Want  uint16
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf(
		"od: gap in record layout at field %d %q: offset=%d want=%d",
		e.Index, e.Field, e.Got, e.Want,
	)
}

// NewRecord assembles a record from an ordered field list.
// Field offsets must tile the record region: each one equals the running
// total of the previous sizes, starting at the first field's offset.
func NewRecord(perm Permissions, fields ...FieldSpec) (*RecordInfo, error) {
	if len(fields) == 0 {
		return nil, errors.New("od: record needs at least one field")
	}
	if len(fields) > math.MaxUint8 {
		return nil, fmt.Errorf("od: record has %d fields, max %d", len(fields), math.MaxUint8)
	}

	start := fields[0].Offset
	next := int(start)
	out := make([]FieldInfo, len(fields))

	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("od: record field %d has no name", i)
		}
		if !f.Type.Integer() && f.Type != String && f.Type != BinString {
			return nil, fmt.Errorf("od: record field %q has unsupported type %s", f.Name, f.Type)
		}
		size := f.size()
		if size == 0 {
			return nil, fmt.Errorf("od: record field %q has zero size", f.Name)
		}
		if int(f.Offset) != next {
			return nil, &LayoutError{Field: f.Name, Index: i, Got: f.Offset, Want: uint16(next)}
		}
		for j := 0; j < i; j++ {
			if equalFold(fields[j].Name, f.Name) {
				return nil, fmt.Errorf("od: duplicate record field %q", f.Name)
			}
		}

		out[i] = FieldInfo{
			VariableInfo: VariableInfo{
				Info: Info{
					Class:      ClassVariable,
					Type:       f.Type,
					NElem:      1,
					Perm:       f.Perm,
					DataOffset: f.Offset,
					DataSize:   size,
					Set:        f.setter(),
				},
				Range: f.Range,
			},
			Name: f.Name,
		}

		next += int(size)
		if next > math.MaxUint16 {
			return nil, fmt.Errorf("od: record exceeds blob limit at field %q", f.Name)
		}
	}

	return &RecordInfo{
		Info: Info{
			Class:      ClassRecord,
			Type:       Record,
			NElem:      uint8(len(fields)),
			Perm:       perm,
			DataOffset: start,
			DataSize:   uint16(next - int(start)),
			Set:        RecordSetter,
		},
		Fields: out,
	}, nil
}

// MustRecord is NewRecord for package-level schemas. It panics on layout errors.
func MustRecord(perm Permissions, fields ...FieldSpec) *RecordInfo {
	r, err := NewRecord(perm, fields...)
	if err != nil {
		panic(err)
	}
	return r
}
