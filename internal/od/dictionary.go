// internal/od/dictionary.go
package od

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Item is one addressable entry of a Dictionary.
type Item struct {
	Address uint16
	Mapping uint16 // protocol mapping tag, opaque to the dictionary
	Object  Object
}

// Dictionary is an immutable index of objects sorted by address.
// It is built once and then shared read-only by every consumer.
type Dictionary struct {
	items []Item
}

// NewDictionary sorts items by address and rejects duplicate addresses
// and handles without a descriptor.
func NewDictionary(items ...Item) (*Dictionary, error) {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b Item) int { return cmp.Compare(a.Address, b.Address) })

	for i := range sorted {
		if !sorted[i].Object.Valid() {
			return nil, fmt.Errorf("od: object at address 0x%04X has no descriptor", sorted[i].Address)
		}
		if i > 0 && sorted[i].Address == sorted[i-1].Address {
			return nil, fmt.Errorf(
				"od: duplicate address 0x%04X used by %q and %q",
				sorted[i].Address,
				sorted[i-1].Object.Name(),
				sorted[i].Object.Name(),
			)
		}
	}
	return &Dictionary{items: sorted}, nil
}

// MustDictionary is NewDictionary for package-level schemas.
func MustDictionary(items ...Item) *Dictionary {
	d, err := NewDictionary(items...)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.items) }

// Items returns the entries in address order. The slice must not be modified.
func (d *Dictionary) Items() []Item { return d.items }

// Get looks up the object at address with a binary search.
func (d *Dictionary) Get(address uint16) (*Object, bool) {
	i, found := slices.BinarySearchFunc(d.items, address, func(it Item, a uint16) int {
		return cmp.Compare(it.Address, a)
	})
	if !found {
		return nil, false
	}
	return &d.items[i].Object, true
}

// Find looks up an entry by object name, ignoring case.
func (d *Dictionary) Find(name string) (*Item, bool) {
	for i := range d.items {
		if equalFold(d.items[i].Object.Name(), name) {
			return &d.items[i], true
		}
	}
	return nil, false
}

// Read gets element sub of the object at address.
func (d *Dictionary) Read(address uint16, sub uint8, buf []byte) int32 {
	o, ok := d.Get(address)
	if !ok {
		return int32(ObjectNotFound)
	}
	return o.Get(sub, buf)
}

// Write sets element sub of the object at address.
func (d *Dictionary) Write(address uint16, sub uint8, data []byte) Error {
	o, ok := d.Get(address)
	if !ok {
		return ObjectNotFound
	}
	return o.Set(sub, data)
}

// Query resolves q.ObjectName and q.SubobjectName into q.Item, q.Info
// and q.SubIndex.
func (d *Dictionary) Query(q *Query) Error {
	q.Item = nil
	q.Info = nil
	q.SubIndex = WholeObject

	item, ok := d.Find(q.ObjectName)
	if !ok {
		return ObjectNotFound
	}
	q.Item = item

	if q.SubobjectName == "" {
		q.Info = item.Object.Descriptor()
		return OK
	}

	switch desc := item.Object.Descriptor().(type) {
	case *RecordInfo:
		if id := desc.Find(q.SubobjectName); id < desc.NElem {
			q.Info = &desc.Fields[id]
			q.SubIndex = int16(id) + 1
			return OK
		}
	case *ArrayInfo:
		if id := desc.Find(q.SubobjectName); id < desc.NElem {
			// all elements share the array's descriptor
			q.Info = desc
			q.SubIndex = int16(id) + 1
			return OK
		}
	}
	return FieldNotFound
}

func equalFold(a, b string) bool { return strings.EqualFold(a, b) }
