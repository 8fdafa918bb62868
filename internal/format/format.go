// internal/format/format.go
package format

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/tamzrod/modbus-od/internal/od"
)

// minBuffer is the smallest read buffer used when rendering an element.
const minBuffer = 64

// Format renders b as a value of type dt.
// Integers are decimal, strings are quoted with trailing NULs dropped,
// binary strings are hex and records render as "{...}".
func Format(dt od.DataType, b []byte) string {
	switch {
	case dt.Integer():
		v, ok := od.LoadInt(b, dt)
		if !ok {
			return "null"
		}
		return strconv.FormatInt(v, 10)
	case dt == od.String:
		if i := strings.IndexByte(string(b), 0); i >= 0 {
			b = b[:i]
		}
		return strconv.Quote(string(b))
	case dt == od.BinString:
		return "0x" + hex.EncodeToString(b)
	case dt == od.Record:
		return "{...}"
	}
	return "Type Invalid"
}

// Read gets element sub of obj and renders it as dt.
// A failed read renders the error text instead.
func Read(obj od.Object, sub uint8, dt od.DataType) string {
	buf := make([]byte, max(obj.Size(), minBuffer))
	n, e := od.Result(obj.Get(sub, buf))
	if e != od.OK {
		return e.String()
	}
	return Format(dt, buf[:n])
}

// Object renders the current value of obj.
// Variables render as " value"; arrays and records render one
// "\n\tname: value" line per element, in enumeration order.
func Object(obj od.Object) string {
	if obj.Class() == od.ClassVariable {
		return " " + Read(obj, 0, obj.Type())
	}

	var sb strings.Builder
	for f := range obj.Fields() {
		el := f.Info()
		name := el.Name
		if name == "" {
			name = strconv.Itoa(int(f.SubIndex()))
		}
		sb.WriteString("\n\t")
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(Read(obj, f.SubIndex(), el.Info.Base().Type))
	}
	return sb.String()
}

// Describe renders the shape of desc, e.g. "Variable:u32",
// "Array:u16(4)" or "Record:{min:i16, max:i16}".
func Describe(desc od.Descriptor) string {
	if desc == nil {
		return "Object:"
	}
	info := desc.Base()
	prefix := info.Class.String() + ":"

	switch d := desc.(type) {
	case *od.ArrayInfo:
		return prefix + d.Type.String() + "(" + strconv.Itoa(int(d.NElem)) + ")"
	case *od.RecordInfo:
		parts := make([]string, 0, len(d.Fields))
		for _, f := range d.Fields {
			parts = append(parts, f.Name+":"+typeName(&f.Info))
		}
		return prefix + "{" + strings.Join(parts, ", ") + "}"
	}

	if info.Class == od.ClassVariable || info.Class == od.ClassInvalid {
		return prefix + typeName(info)
	}
	return prefix
}

func typeName(info *od.Info) string {
	if info.Type == od.String || info.Type == od.BinString {
		return info.Type.String() + "(" + strconv.Itoa(int(info.DataSize)) + ")"
	}
	return info.Type.String()
}
