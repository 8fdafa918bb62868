// internal/config/value.go
package config

import (
	"fmt"
	"strconv"
)

// Value is a default written either as a number or as text.
// The empty Value means "no default".
type Value string

// UnmarshalTOML accepts integers as well as strings.
func (v *Value) UnmarshalTOML(data any) error {
	switch d := data.(type) {
	case string:
		*v = Value(d)
	case int64:
		*v = Value(strconv.FormatInt(d, 10))
	default:
		return fmt.Errorf("default: unsupported value %v (%T)", data, data)
	}
	return nil
}

// Set reports whether a default was given.
func (v Value) Set() bool { return v != "" }

// Int parses the value as an integer in any base strconv understands.
func (v Value) Int() (int64, error) {
	return strconv.ParseInt(string(v), 0, 64)
}
