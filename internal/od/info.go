// internal/od/info.go
package od

// SetFunc validates data and stores it into the object's blob.
// sub is the sub-index the caller addressed.
type SetFunc func(obj Object, sub uint8, data []byte) Error

// Descriptor is implemented by every metadata variant.
// Base exposes the common header used for class dispatch.
type Descriptor interface {
	Base() *Info
}

// Info is the metadata common to every object class.
// It is immutable once built.
type Info struct {
	Class      ClassID
	Type       DataType
	NElem      uint8 // number of elements/fields; 1 for variables
	Perm       Permissions
	DataOffset uint16 // offset of the object's region inside the blob
	DataSize   uint16 // size of the object's region in bytes
	Set        SetFunc
}

func (i *Info) Base() *Info { return i }

// Range is an inclusive [Min, Max] bound.
// Min == Max means no bound.
type Range struct {
	Min int64
	Max int64
}

// Bounded reports whether the range constrains values.
func (r Range) Bounded() bool { return r.Min != r.Max }

// Check classifies v against the range.
func (r Range) Check(v int64) Error {
	if !r.Bounded() {
		return OK
	}
	if v < r.Min {
		return ValueTooLow
	}
	if v > r.Max {
		return ValueTooHigh
	}
	return OK
}

// VariableInfo describes a single-valued object.
type VariableInfo struct {
	Info
	Range Range
}

// ArrayInfo describes a fixed count of same-typed elements.
type ArrayInfo struct {
	Info
	Range Range
	Names []string // empty, or exactly NElem entries
}

// Find returns the zero-based index of the element called name, or NElem.
func (a *ArrayInfo) Find(name string) uint8 {
	for i, n := range a.Names {
		if n != "" && equalFold(n, name) {
			return uint8(i)
		}
	}
	return a.NElem
}

// Name returns the name of element id (zero-based) or "".
func (a *ArrayInfo) Name(id uint8) string {
	if int(id) < len(a.Names) {
		return a.Names[id]
	}
	return ""
}

// ElementSize is the byte width of one element.
func (a *ArrayInfo) ElementSize() int { return TypeSize(a.Type) }

// FieldInfo describes one field of a record.
// Its DataOffset is absolute within the blob.
type FieldInfo struct {
	VariableInfo
	Name string
}

// RecordInfo describes an ordered list of independently typed fields.
type RecordInfo struct {
	Info
	Fields []FieldInfo
}

// Find returns the zero-based index of the field called name, or NElem.
func (r *RecordInfo) Find(name string) uint8 {
	for i := range r.Fields {
		if equalFold(r.Fields[i].Name, name) {
			return uint8(i)
		}
	}
	return r.NElem
}

// Field returns the descriptor of field id (zero-based).
func (r *RecordInfo) Field(id uint8) *FieldInfo {
	if int(id) >= len(r.Fields) {
		return nil
	}
	return &r.Fields[id]
}

// ElementInfo is the resolved view of one addressable element of an object.
type ElementInfo struct {
	Info   Descriptor
	Name   string
	Offset uint16
	Size   uint16
}

// Valid reports whether the element carries a name.
func (e ElementInfo) Valid() bool { return e.Name != "" }
