// internal/od/query.go
package od

import "strings"

// WholeObject is the SubIndex of a query that selected no element.
const WholeObject int16 = -1

// Query is a textual request of the form object[sep subobject],
// sep being one of '.', ':' or '/'.
type Query struct {
	ObjectName    string
	SubobjectName string

	// Set by Dictionary.Query.
	Item     *Item
	Info     Descriptor
	SubIndex int16
}

// IsSeparator reports whether c separates object and subobject names.
func IsSeparator(c rune) bool { return c == '.' || c == ':' || c == '/' }

// ParseQuery splits path on the first separator and trims both tokens.
// A path without separator selects the whole object.
func ParseQuery(path string) Query {
	q := Query{SubIndex: WholeObject}
	if i := strings.IndexFunc(path, IsSeparator); i >= 0 {
		q.ObjectName = strings.TrimSpace(path[:i])
		q.SubobjectName = strings.TrimSpace(path[i+1:])
	} else {
		q.ObjectName = strings.TrimSpace(path)
	}
	return q
}

// Whole reports whether the query resolved to the whole object.
func (q *Query) Whole() bool { return q.SubIndex < 0 }

// Sub returns the resolved sub-index for Get/Set.
// A whole-object query maps to 0.
func (q *Query) Sub() uint8 {
	if q.SubIndex < 0 {
		return 0
	}
	return uint8(q.SubIndex)
}

// Type returns the data type of the resolved element.
func (q *Query) Type() DataType {
	if q.Info == nil {
		return Invalid
	}
	return q.Info.Base().Type
}

// Path renders the query back as object[.subobject].
func (q *Query) Path() string {
	name := q.ObjectName
	if q.Item != nil {
		name = q.Item.Object.Name()
	}
	if q.SubobjectName == "" {
		return name
	}
	return name + "." + q.SubobjectName
}
