// internal/format/parse.go
package format

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/tamzrod/modbus-od/internal/od"
)

// Parse converts text into the native encoding of dt and stores it in buf.
// It returns the number of bytes used.
//
// Integers accept any base strconv understands ("42", "-7", "0x1F").
// Strings must be double-quoted. Binary strings are hex, with or
// without a "0x" prefix.
func Parse(dt od.DataType, text string, buf []byte) (int, od.Error) {
	text = strings.TrimSpace(text)

	switch {
	case dt.Integer():
		return parseInt(dt, text, buf)
	case dt == od.String:
		return parseString(text, buf)
	case dt == od.BinString:
		return parseHex(text, buf)
	}
	return 0, od.DataTypeError
}

func parseInt(dt od.DataType, text string, buf []byte) (int, od.Error) {
	size := od.TypeSize(dt)
	if size > len(buf) {
		return 0, od.ParamTooLong
	}
	bits := size * 8

	var v int64
	if dt.Signed() {
		n, err := strconv.ParseInt(text, 0, bits)
		if err != nil {
			return 0, od.DataTypeError
		}
		v = n
	} else {
		n, err := strconv.ParseUint(text, 0, bits)
		if err != nil {
			return 0, od.DataTypeError
		}
		v = int64(n)
	}

	if !od.StoreInt(buf, dt, v) {
		return 0, od.DataTypeError
	}
	return size, od.OK
}

func parseString(text string, buf []byte) (int, od.Error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return 0, od.DataTypeError
	}
	s, err := strconv.Unquote(text)
	if err != nil {
		return 0, od.DataTypeError
	}
	if len(s) > len(buf) {
		return 0, od.ParamTooLong
	}
	return copy(buf, s), od.OK
}

func parseHex(text string, buf []byte) (int, od.Error) {
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	b, err := hex.DecodeString(text)
	if err != nil {
		return 0, od.DataTypeError
	}
	if len(b) > len(buf) {
		return 0, od.ParamTooLong
	}
	return copy(buf, b), od.OK
}
