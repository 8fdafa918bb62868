// internal/config/validate.go
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/tamzrod/modbus-od/internal/od"
	"github.com/tamzrod/modbus-od/internal/regmap"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil configuration")
	}
	if len(cfg.Dictionary.Objects) == 0 {
		return errors.New("dictionary: no objects defined")
	}

	// ------------------------------------------------------------
	// OBJECT DECLARATIONS
	// ------------------------------------------------------------

	// key = folded name
	byName := make(map[string]*ObjectConfig)
	// key = dictionary address
	byAddr := make(map[uint16]string)

	for i := range cfg.Dictionary.Objects {
		o := &cfg.Dictionary.Objects[i]

		if err := validateObject(o); err != nil {
			return err
		}

		key := foldName(o.Name)
		if prev, exists := byName[key]; exists {
			return fmt.Errorf("object name collision: %q and %q", prev.Name, o.Name)
		}
		byName[key] = o

		if prev, exists := byAddr[o.Address]; exists {
			return fmt.Errorf(
				"address collision: 0x%04X used by objects %q and %q",
				o.Address,
				prev,
				o.Name,
			)
		}
		byAddr[o.Address] = o.Name
	}

	if cfg.Sync == nil {
		return nil
	}
	return validateSync(cfg.Sync, byName, byAddr)
}

func validateObject(o *ObjectConfig) error {
	if err := validateName(o.Name); err != nil {
		return fmt.Errorf("object at 0x%04X: %w", o.Address, err)
	}

	class, err := ParseClass(o.Class)
	if err != nil {
		return fmt.Errorf("object %q: %w", o.Name, err)
	}
	if _, err := ParsePerm(o.Perm); err != nil {
		return fmt.Errorf("object %q: %w", o.Name, err)
	}
	if o.WriteOnly && class != ClassVariable {
		return fmt.Errorf("object %q: write_only is only supported on variables", o.Name)
	}

	switch class {
	case ClassVariable:
		err = validateVariable(o)
	case ClassArray:
		err = validateArray(o)
	case ClassRecord:
		err = validateRecord(o)
	}
	if err != nil {
		return fmt.Errorf("object %q: %w", o.Name, err)
	}
	return nil
}

func validateVariable(o *ObjectConfig) error {
	if o.Count != 0 || len(o.Names) != 0 || len(o.Defaults) != 0 || len(o.Fields) != 0 {
		return errors.New("count, names, defaults and fields apply to arrays and records only")
	}
	dt, err := ParseDataType(o.Type)
	if err != nil {
		return err
	}
	if o.WriteOnly {
		if !dt.Integer() {
			return errors.New("write_only requires an integer type")
		}
		if o.Default.Set() {
			return errors.New("write_only objects cannot have a default")
		}
	}
	return validateElement(dt, o.Length, o.Min, o.Max, o.Default)
}

func validateArray(o *ObjectConfig) error {
	if len(o.Fields) != 0 || o.Default.Set() {
		return errors.New("arrays take defaults, not default or fields")
	}
	dt, err := ParseDataType(o.Type)
	if err != nil {
		return err
	}
	if !dt.Integer() {
		return fmt.Errorf("array element type %s not supported", dt)
	}
	if o.Count == 0 {
		return errors.New("array count must be > 0")
	}
	if len(o.Names) != 0 && len(o.Names) != int(o.Count) {
		return fmt.Errorf("array has %d elements but %d names", o.Count, len(o.Names))
	}
	if len(o.Defaults) > int(o.Count) {
		return fmt.Errorf("array has %d elements but %d defaults", o.Count, len(o.Defaults))
	}

	seen := make(map[string]string)
	for _, n := range o.Names {
		if err := validateName(n); err != nil {
			return fmt.Errorf("element: %w", err)
		}
		key := foldName(n)
		if prev, exists := seen[key]; exists {
			return fmt.Errorf("element name collision: %q and %q", prev, n)
		}
		seen[key] = n
	}

	if err := validateRange(dt, o.Min, o.Max); err != nil {
		return err
	}
	for i, d := range o.Defaults {
		if err := validateDefault(dt, 0, o.Min, o.Max, d); err != nil {
			return fmt.Errorf("element %d: %w", i+1, err)
		}
	}
	return nil
}

func validateRecord(o *ObjectConfig) error {
	if o.Type != "" || o.Length != 0 || o.Count != 0 || len(o.Names) != 0 {
		return errors.New("records declare their types per field")
	}
	if o.Min != nil || o.Max != nil || o.Default.Set() || len(o.Defaults) != 0 {
		return errors.New("records declare ranges and defaults per field")
	}
	if len(o.Fields) == 0 {
		return errors.New("record needs at least one field")
	}
	if len(o.Fields) > math.MaxUint8 {
		return fmt.Errorf("record has %d fields, max %d", len(o.Fields), math.MaxUint8)
	}

	seen := make(map[string]string)
	size := 0
	for _, f := range o.Fields {
		if err := validateName(f.Name); err != nil {
			return fmt.Errorf("field: %w", err)
		}
		key := foldName(f.Name)
		if prev, exists := seen[key]; exists {
			return fmt.Errorf("field name collision: %q and %q", prev, f.Name)
		}
		seen[key] = f.Name

		if _, err := ParsePerm(f.Perm); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		dt, err := ParseDataType(f.Type)
		if err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		if err := validateElement(dt, f.Length, f.Min, f.Max, f.Default); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		size += elementSize(dt, f.Length)
	}
	if size > math.MaxUint16 {
		return fmt.Errorf("record of %d bytes exceeds blob limit", size)
	}
	return nil
}

// validateElement checks one scalar or text element declaration.
func validateElement(dt od.DataType, length uint16, min, max *int64, def Value) error {
	if isText(dt) {
		if length == 0 {
			return fmt.Errorf("%s needs length > 0", dt)
		}
		if min != nil || max != nil {
			return fmt.Errorf("%s cannot have a range", dt)
		}
	} else if length != 0 {
		return fmt.Errorf("length does not apply to %s", dt)
	}
	if err := validateRange(dt, min, max); err != nil {
		return err
	}
	return validateDefault(dt, length, min, max, def)
}

func validateRange(dt od.DataType, min, max *int64) error {
	if min == nil && max == nil {
		return nil
	}
	if min == nil || max == nil {
		return errors.New("min and max must be given together")
	}
	if *min > *max {
		return fmt.Errorf("min %d > max %d", *min, *max)
	}
	lo, hi := typeBounds(dt)
	if *min < lo || *max > hi {
		return fmt.Errorf("range %d..%d does not fit %s", *min, *max, dt)
	}
	return nil
}

func validateDefault(dt od.DataType, length uint16, min, max *int64, def Value) error {
	if !def.Set() {
		return nil
	}

	switch dt {
	case od.String:
		// room for the terminating NUL
		if len(def) >= int(length) {
			return fmt.Errorf("default %q does not fit string(%d)", string(def), length)
		}
		return nil
	case od.BinString:
		b, err := hex.DecodeString(string(def))
		if err != nil {
			return fmt.Errorf("default %q: %w", string(def), err)
		}
		if len(b) > int(length) {
			return fmt.Errorf("default has %d bytes, bstring(%d)", len(b), length)
		}
		return nil
	}

	v, err := def.Int()
	if err != nil {
		return fmt.Errorf("default %q: %w", string(def), err)
	}
	lo, hi := typeBounds(dt)
	if v < lo || v > hi {
		return fmt.Errorf("default %d does not fit %s", v, dt)
	}
	if min != nil && max != nil && *min != *max && (v < *min || v > *max) {
		return fmt.Errorf("default %d outside range %d..%d", v, *min, *max)
	}
	return nil
}

func validateSync(s *SyncConfig, byName map[string]*ObjectConfig, byAddr map[uint16]string) error {
	type span struct {
		start int
		end   int
		name  string
	}

	if s.Endpoint == "" {
		return errors.New("sync: endpoint required")
	}
	if s.IntervalMs <= 0 {
		return errors.New("sync: interval_ms must be > 0")
	}
	if s.TimeoutMs < 0 {
		return errors.New("sync: timeout_ms must be >= 0")
	}
	if len(s.Pull) == 0 && len(s.Push) == 0 {
		return errors.New("sync: at least one pull or push object required")
	}

	if owner, exists := byAddr[s.EffectiveStatusAddress()]; exists {
		return fmt.Errorf(
			"sync: status_address 0x%04X collides with object %q",
			s.EffectiveStatusAddress(),
			owner,
		)
	}

	if o, exists := byName[foldName(StatusObjectName)]; exists {
		return fmt.Errorf("sync: object name %q is reserved for the status record", o.Name)
	}

	// ------------------------------------------------------------
	// REGISTER GEOMETRY VALIDATION
	// ------------------------------------------------------------

	// key = folded name
	direction := make(map[string]string)
	var spans []span

	check := func(dir string, names []string) error {
		for _, n := range names {
			key := foldName(n)
			o, ok := byName[key]
			if !ok {
				return fmt.Errorf("sync: %s object %q not declared", dir, n)
			}
			if prev, exists := direction[key]; exists {
				return fmt.Errorf("sync: object %q listed in %s and %s", o.Name, prev, dir)
			}
			direction[key] = dir

			if o.Mapping == nil {
				return fmt.Errorf("sync: %s object %q has no mapping", dir, o.Name)
			}
			if dir == "push" && o.WriteOnly {
				return fmt.Errorf("sync: push object %q is write_only", o.Name)
			}

			start := int(*o.Mapping)
			end := start + registerCount(o) - 1
			if end > math.MaxUint16 {
				return fmt.Errorf("sync: object %q mapping %d-%d exceeds register space", o.Name, start, end)
			}

			for _, sp := range spans {
				// overlap check (inclusive)
				if !(end < sp.start || start > sp.end) {
					return fmt.Errorf(
						"register overlap: object=%s range=%d-%d overlaps with object=%s range=%d-%d",
						o.Name,
						start,
						end,
						sp.name,
						sp.start,
						sp.end,
					)
				}
			}
			spans = append(spans, span{start: start, end: end, name: o.Name})
		}
		return nil
	}

	if err := check("pull", s.Pull); err != nil {
		return err
	}
	return check("push", s.Push)
}

// validateName rejects names the query syntax could not address.
func validateName(name string) error {
	if name == "" {
		return errors.New("name required")
	}
	for _, r := range name {
		if od.IsSeparator(r) || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("name %q contains %q", name, r)
		}
	}
	return nil
}

// foldName is the key used for case-insensitive uniqueness checks.
func foldName(name string) string {
	return cases.Fold().String(norm.NFC.String(name))
}

func typeBounds(dt od.DataType) (int64, int64) {
	switch dt {
	case od.U8:
		return 0, math.MaxUint8
	case od.U16:
		return 0, math.MaxUint16
	case od.U32:
		return 0, math.MaxUint32
	case od.I8:
		return math.MinInt8, math.MaxInt8
	case od.I16:
		return math.MinInt16, math.MaxInt16
	case od.I32:
		return math.MinInt32, math.MaxInt32
	}
	return 0, 0
}

func elementSize(dt od.DataType, length uint16) int {
	if isText(dt) {
		return int(length)
	}
	return od.TypeSize(dt)
}

// registerCount is the field-bus footprint of o. o must be valid.
func registerCount(o *ObjectConfig) int {
	class, _ := ParseClass(o.Class)
	switch class {
	case ClassArray:
		dt, _ := ParseDataType(o.Type)
		return int(o.Count) * regmap.Count(dt, od.TypeSize(dt))
	case ClassRecord:
		n := 0
		for _, f := range o.Fields {
			dt, _ := ParseDataType(f.Type)
			n += regmap.Count(dt, elementSize(dt, f.Length))
		}
		return n
	}
	dt, _ := ParseDataType(o.Type)
	return regmap.Count(dt, elementSize(dt, o.Length))
}
