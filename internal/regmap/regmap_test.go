// internal/regmap/regmap_test.go
package regmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modbus-od/internal/od"
)

func TestCount(t *testing.T) {
	assert.Equal(t, 1, Count(od.U8, 1))
	assert.Equal(t, 1, Count(od.I16, 2))
	assert.Equal(t, 2, Count(od.U32, 4))
	assert.Equal(t, 3, Count(od.String, 5))
	assert.Equal(t, 4, Count(od.BinString, 8))
	assert.Equal(t, 0, Count(od.Record, 0))
}

func TestEncodeDecode_Scalars(t *testing.T) {
	obj := od.NewObject("v", od.NewVariable[int32](od.UserConfig, od.Range{}), od.Encode[int32](-2))

	regs, err := Encode(obj)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0xFFFF, 0xFFFE}, regs)

	require.NoError(t, Decode(obj, []uint16{0x0001, 0x0002}))
	assert.Equal(t, int32(0x00010002), od.Decode[int32](obj.Data()))
}

func TestEncodeDecode_Record(t *testing.T) {
	rec := od.MustRecord(od.UserConfig,
		od.FieldOf[int8](od.UserConfig, "a", 0, od.Range{}),
		od.FieldOf[uint32](od.UserConfig, "b", 1, od.Range{}),
		od.StringField(od.UserConfig, "c", 5, 3),
	)
	blob := make([]byte, 8)
	obj := od.NewObject("r", rec, blob)
	require.Equal(t, 5, ObjectCount(obj))

	require.NoError(t, Decode(obj, []uint16{0xFFFF, 0x1234, 0x5678, 'h'<<8 | 'i', 0}))

	assert.Equal(t, int8(-1), od.Decode[int8](blob[0:]))
	assert.Equal(t, uint32(0x12345678), od.Decode[uint32](blob[1:]))
	assert.Equal(t, []byte{'h', 'i', 0}, blob[5:])

	regs, err := Encode(obj)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0xFFFF, 0x1234, 0x5678, 'h'<<8 | 'i', 0}, regs)
}

func TestDecode_RangeAndWidth(t *testing.T) {
	obj := od.NewObject("v", od.NewVariable[uint8](od.UserConfig, od.RangeOf[uint8](0, 10)), []byte{0})

	err := Decode(obj, []uint16{300})
	require.Error(t, err)
	assert.True(t, errors.Is(err, od.ValueTooHigh))

	err = Decode(obj, []uint16{11})
	assert.True(t, errors.Is(err, od.ValueTooHigh))

	assert.Error(t, Decode(obj, []uint16{1, 2}), "register count")

	require.NoError(t, Decode(obj, []uint16{10}))
	assert.Equal(t, byte(10), obj.Data()[0])
}

func TestEncode_WriteOnly(t *testing.T) {
	obj := od.NewObject("cmd", od.NewVariable[uint16](od.Dynamic, od.Range{}), nil)
	_, err := Encode(obj)
	assert.True(t, errors.Is(err, od.WriteOnly))
}
