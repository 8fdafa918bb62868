// internal/config/types.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-od/internal/od"
)

const (
	ClassVariable = "variable"
	ClassArray    = "array"
	ClassRecord   = "record"
)

// DefaultStatusAddress is where the sync status record lives when
// sync.status_address is not set.
const DefaultStatusAddress uint16 = 0x1F00

// StatusObjectName is reserved for the sync status record.
const StatusObjectName = "sync"

// DefaultTimeoutMs applies when sync.timeout_ms is not set.
const DefaultTimeoutMs = 1000

var dataTypes = map[string]od.DataType{
	"u8":      od.U8,
	"u16":     od.U16,
	"u32":     od.U32,
	"i8":      od.I8,
	"i16":     od.I16,
	"i32":     od.I32,
	"string":  od.String,
	"bstring": od.BinString,
}

var permissions = map[string]od.Permissions{
	"factory_hidden": od.FactoryHidden,
	"factory_config": od.FactoryConfig,
	"hidden":         od.Hidden,
	"user_config":    od.UserConfig,
	"info":           od.InfoOnly,
	"status":         od.Status,
	"dynamic":        od.Dynamic,
}

// ParseDataType maps a schema type name to its DataType.
func ParseDataType(s string) (od.DataType, error) {
	if dt, ok := dataTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return dt, nil
	}
	return od.Invalid, fmt.Errorf("unknown type %q", s)
}

// ParsePerm maps a schema permission name to its level.
// The empty string means user_config.
func ParsePerm(s string) (od.Permissions, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return od.UserConfig, nil
	}
	if p, ok := permissions[s]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("unknown perm %q", s)
}

// ParseClass normalizes a schema class name. The empty string means variable.
func ParseClass(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return ClassVariable, nil
	case ClassVariable, ClassArray, ClassRecord:
		return s, nil
	}
	return "", fmt.Errorf("unknown class %q", s)
}

// isText reports whether dt is stored as a fixed-length byte string.
func isText(dt od.DataType) bool { return dt == od.String || dt == od.BinString }

// EffectiveStatusAddress returns the address of the sync status record.
func (s *SyncConfig) EffectiveStatusAddress() uint16 {
	if s.StatusAddress != nil {
		return *s.StatusAddress
	}
	return DefaultStatusAddress
}
