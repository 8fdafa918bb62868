// internal/registry/registry_test.go
package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modbus-od/internal/config"
	"github.com/tamzrod/modbus-od/internal/od"
)

func i64(v int64) *int64 { return &v }
func u16(v uint16) *uint16 { return &v }

func schema() *config.Config {
	cfg := &config.Config{
		Dictionary: config.DictionaryConfig{
			Objects: []config.ObjectConfig{
				{Name: "limits", Address: 0x2001, Class: "record", Mapping: u16(10), Fields: []config.FieldConfig{
					{Name: "min", Type: "i16", Min: i64(-100), Max: i64(100), Default: "-50"},
					{Name: "max", Type: "i16", Min: i64(0), Max: i64(500), Default: "100"},
					{Name: "tag", Type: "string", Length: 6, Perm: "info", Default: "abc"},
				}},
				{Name: "status", Address: 0x2000, Type: "u32", Perm: "status"},
				{Name: "gains", Address: 0x2002, Class: "array", Type: "u16", Count: 3,
					Names: []string{"p", "i", "d"}, Defaults: []config.Value{"10", "0x2"}},
				{Name: "key", Address: 0x2003, Type: "bstring", Length: 2, Default: "beef"},
				{Name: "cmd", Address: 0x2004, Type: "u8", WriteOnly: true, Min: i64(1), Max: i64(3)},
			},
		},
	}
	config.Normalize(cfg)
	return cfg
}

func TestBuild_Scenario(t *testing.T) {
	d, err := Build(schema(), Options{})
	require.NoError(t, err)
	require.Equal(t, 5, d.Len())

	o, ok := d.Get(0x2001)
	require.True(t, ok)
	assert.Equal(t, "limits", o.Name())

	q := od.ParseQuery("limits.max")
	require.Equal(t, od.OK, d.Query(&q))
	assert.Equal(t, int16(2), q.SubIndex)

	buf := make([]byte, 8)
	n, e := od.Result(o.Get(2, buf))
	require.Equal(t, od.OK, e)
	assert.Equal(t, 2, n)
	assert.Equal(t, int16(100), od.Decode[int16](buf))

	assert.Equal(t, od.ValueTooHigh, o.Set(2, od.Encode[int16](600)))
	require.Equal(t, od.OK, o.Set(2, od.Encode[int16](300)))
	o.Get(2, buf)
	assert.Equal(t, int16(300), od.Decode[int16](buf))

	item, ok := d.Find("LIMITS")
	require.True(t, ok)
	assert.Equal(t, uint16(10), item.Mapping)
}

func TestBuild_RecordLayoutAndDefaults(t *testing.T) {
	d, err := Build(schema(), Options{})
	require.NoError(t, err)

	o, _ := d.Get(0x2001)
	rec := o.Descriptor().(*od.RecordInfo)
	assert.Equal(t, uint16(10), rec.DataSize)
	assert.Equal(t, od.InfoOnly, rec.Fields[2].Perm)
	assert.Equal(t, od.UserConfig, rec.Fields[0].Perm, "inherits the record's perm")

	blob := o.Data()
	assert.Equal(t, int16(-50), od.Decode[int16](blob[0:]))
	assert.Equal(t, []byte{'a', 'b', 'c', 0, 0, 0}, blob[4:])

	g, _ := d.Get(0x2002)
	assert.Equal(t, []byte{10, 0, 2, 0, 0, 0}, g.Data())

	k, _ := d.Get(0x2003)
	assert.Equal(t, []byte{0xBE, 0xEF}, k.Data())
}

func TestBuild_WriteOnlyHandler(t *testing.T) {
	var got []int64
	d, err := Build(schema(), Options{Handlers: map[string]Handler{
		"cmd": func(v int64) od.Error { got = append(got, v); return od.OK },
	}})
	require.NoError(t, err)

	o, _ := d.Get(0x2004)
	assert.True(t, o.WriteOnly())
	assert.Equal(t, int32(od.WriteOnly), o.Get(0, make([]byte, 1)))
	assert.Equal(t, od.ValueTooHigh, o.Set(0, []byte{4}))
	require.Equal(t, od.OK, o.Set(0, []byte{2}))
	assert.Equal(t, []int64{2}, got)
}

func TestBuild_DefaultOutsideRangeFails(t *testing.T) {
	cfg := schema()
	cfg.Dictionary.Objects[0].Fields[1].Default = "501"

	_, err := Build(cfg, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, od.ValueTooHigh))
}

func TestBuild_ExtraItems(t *testing.T) {
	extra := od.Item{
		Address: 0x1F00,
		Object:  od.NewObject("sync", od.NewVariable[uint16](od.Status, od.Range{}), make([]byte, 2)),
	}
	d, err := Build(schema(), Options{Extra: []od.Item{extra}})
	require.NoError(t, err)

	_, ok := d.Find("sync")
	assert.True(t, ok)

	extra.Address = 0x2000
	_, err = Build(schema(), Options{Extra: []od.Item{extra}})
	assert.Error(t, err, "duplicate address")
}
