// internal/registry/registry.go
package registry

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/tamzrod/modbus-od/internal/config"
	"github.com/tamzrod/modbus-od/internal/od"
)

// Handler receives a validated write to a write-only object.
type Handler func(v int64) od.Error

// Options tune Build.
type Options struct {
	// Handlers are keyed by object name. A write-only object without
	// a handler validates and discards writes.
	Handlers map[string]Handler

	// Extra items are added to the dictionary as-is.
	Extra []od.Item
}

// Build turns a validated, normalized schema into a dictionary.
// Every object gets its own zeroed blob; defaults are applied through
// the objects' own setters so they obey the same checks as any write.
func Build(cfg *config.Config, opts Options) (*od.Dictionary, error) {
	if cfg == nil {
		return nil, errors.New("registry: nil configuration")
	}

	items := make([]od.Item, 0, len(cfg.Dictionary.Objects)+len(opts.Extra))

	for i := range cfg.Dictionary.Objects {
		o := &cfg.Dictionary.Objects[i]

		obj, err := buildObject(o, opts.Handlers[o.Name])
		if err != nil {
			return nil, fmt.Errorf("registry: object %q: %w", o.Name, err)
		}

		item := od.Item{Address: o.Address, Object: obj}
		if o.Mapping != nil {
			item.Mapping = *o.Mapping
		}
		items = append(items, item)
	}

	items = append(items, opts.Extra...)

	d, err := od.NewDictionary(items...)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return d, nil
}

func buildObject(o *config.ObjectConfig, h Handler) (od.Object, error) {
	perm, err := config.ParsePerm(o.Perm)
	if err != nil {
		return od.Object{}, err
	}
	class, err := config.ParseClass(o.Class)
	if err != nil {
		return od.Object{}, err
	}

	switch class {
	case config.ClassArray:
		return buildArray(o, perm)
	case config.ClassRecord:
		return buildRecord(o, perm)
	}
	return buildVariable(o, perm, h)
}

func buildVariable(o *config.ObjectConfig, perm od.Permissions, h Handler) (od.Object, error) {
	dt, err := config.ParseDataType(o.Type)
	if err != nil {
		return od.Object{}, err
	}
	r := rangeOf(o.Min, o.Max)

	var info *od.VariableInfo
	switch dt {
	case od.String:
		info = od.NewString(perm, 0, o.Length)
	case od.BinString:
		info = od.NewBinString(perm, 0, o.Length)
	default:
		info = od.NewScalar(dt, perm, 0, r)
	}

	if o.WriteOnly {
		if h == nil {
			h = func(int64) od.Error { return od.OK }
		}
		info.Set = od.HandlerSetter(dt, r, h)
		return od.NewObject(o.Name, info, nil), nil
	}

	obj := od.NewObject(o.Name, info, make([]byte, info.DataSize))
	if err := applyDefault(obj, 0, dt, o.Default); err != nil {
		return od.Object{}, err
	}
	return obj, nil
}

func buildArray(o *config.ObjectConfig, perm od.Permissions) (od.Object, error) {
	dt, err := config.ParseDataType(o.Type)
	if err != nil {
		return od.Object{}, err
	}

	info, err := od.NewArray(dt, perm, 0, o.Count, rangeOf(o.Min, o.Max), o.Names...)
	if err != nil {
		return od.Object{}, err
	}

	obj := od.NewObject(o.Name, info, make([]byte, info.DataSize))
	for i, d := range o.Defaults {
		if err := applyDefault(obj, uint8(i+1), dt, d); err != nil {
			return od.Object{}, fmt.Errorf("element %d: %w", i+1, err)
		}
	}
	return obj, nil
}

func buildRecord(o *config.ObjectConfig, perm od.Permissions) (od.Object, error) {
	specs := make([]od.FieldSpec, 0, len(o.Fields))
	var off uint16

	for _, f := range o.Fields {
		dt, err := config.ParseDataType(f.Type)
		if err != nil {
			return od.Object{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fperm := perm
		if f.Perm != "" {
			if fperm, err = config.ParsePerm(f.Perm); err != nil {
				return od.Object{}, fmt.Errorf("field %q: %w", f.Name, err)
			}
		}

		spec := od.FieldSpec{
			Name:   f.Name,
			Type:   dt,
			Perm:   fperm,
			Offset: off,
			Range:  rangeOf(f.Min, f.Max),
		}
		if dt == od.String || dt == od.BinString {
			spec.Length = f.Length
			off += f.Length
		} else {
			off += uint16(od.TypeSize(dt))
		}
		specs = append(specs, spec)
	}

	info, err := od.NewRecord(perm, specs...)
	if err != nil {
		return od.Object{}, err
	}

	obj := od.NewObject(o.Name, info, make([]byte, info.DataSize))
	for i, f := range o.Fields {
		dt := info.Fields[i].Type
		if err := applyDefault(obj, uint8(i+1), dt, f.Default); err != nil {
			return od.Object{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return obj, nil
}

// applyDefault stores v as element sub through the object's setter.
func applyDefault(obj od.Object, sub uint8, dt od.DataType, v config.Value) error {
	if !v.Set() {
		return nil
	}

	var data []byte
	switch dt {
	case od.String:
		data = []byte(v)
	case od.BinString:
		b, err := hex.DecodeString(string(v))
		if err != nil {
			return fmt.Errorf("default %q: %w", string(v), err)
		}
		data = b
	default:
		n, err := v.Int()
		if err != nil {
			return fmt.Errorf("default %q: %w", string(v), err)
		}
		data = make([]byte, od.TypeSize(dt))
		if !od.StoreInt(data, dt, n) {
			return fmt.Errorf("default %q: unsupported type %s", string(v), dt)
		}
	}

	if e := obj.Set(sub, data); e != od.OK {
		return fmt.Errorf("default %q: %w", string(v), e)
	}
	return nil
}

func rangeOf(min, max *int64) od.Range {
	if min == nil || max == nil {
		return od.Range{}
	}
	return od.Range{Min: *min, Max: *max}
}
