// internal/config/config.go
package config

type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary" toml:"dictionary"`
	Sync       *SyncConfig      `yaml:"sync" toml:"sync"` // optional
}

type DictionaryConfig struct {
	Objects []ObjectConfig `yaml:"objects" toml:"objects"`
}

// ---- OBJECT ----

type ObjectConfig struct {
	Name    string  `yaml:"name" toml:"name"`
	Address uint16  `yaml:"address" toml:"address"`
	Mapping *uint16 `yaml:"mapping" toml:"mapping"` // first holding register on the sync endpoint

	Class string `yaml:"class" toml:"class"` // variable (default) | array | record
	Type  string `yaml:"type" toml:"type"`   // u8 u16 u32 i8 i16 i32 string bstring
	Perm  string `yaml:"perm" toml:"perm"`   // default user_config

	Length uint16   `yaml:"length" toml:"length"` // string, bstring
	Count  uint8    `yaml:"count" toml:"count"`   // array
	Names  []string `yaml:"names" toml:"names"`   // array, optional

	Min *int64 `yaml:"min" toml:"min"`
	Max *int64 `yaml:"max" toml:"max"`

	Default  Value   `yaml:"default" toml:"default"`   // variable
	Defaults []Value `yaml:"defaults" toml:"defaults"` // array, leading elements

	// No storage; writes are validated and handed to a registered handler.
	WriteOnly bool `yaml:"write_only" toml:"write_only"`

	Fields []FieldConfig `yaml:"fields" toml:"fields"` // record
}

type FieldConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Type    string `yaml:"type" toml:"type"`
	Perm    string `yaml:"perm" toml:"perm"` // defaults to the record's perm
	Length  uint16 `yaml:"length" toml:"length"`
	Min     *int64 `yaml:"min" toml:"min"`
	Max     *int64 `yaml:"max" toml:"max"`
	Default Value  `yaml:"default" toml:"default"`
}

// ---- SYNC ----

type SyncConfig struct {
	Endpoint   string `yaml:"endpoint" toml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id" toml:"unit_id"`
	TimeoutMs  int    `yaml:"timeout_ms" toml:"timeout_ms"`
	IntervalMs int    `yaml:"interval_ms" toml:"interval_ms"`

	// Dictionary address of the sync status record (optional).
	StatusAddress *uint16 `yaml:"status_address" toml:"status_address"`

	Pull []string `yaml:"pull" toml:"pull"` // objects read from the endpoint
	Push []string `yaml:"push" toml:"push"` // objects written to the endpoint
}
