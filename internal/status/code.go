// internal/status/code.go
package status

import (
	"errors"

	"github.com/tamzrod/modbus-od/internal/fieldbus"
	"github.com/tamzrod/modbus-od/internal/od"
)

// ErrorCode extracts a best-effort uint16 code from an error without assuming concrete types.
//
//   od.Error                  low 16 bits of the abort code
//   Modbus exception          the exception code
//   Code/ErrorCode/ModbusCode whatever the error exposes
//
// If the error does not expose a code, returns 1 (generic error).
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var oe od.Error
	if errors.As(err, &oe) && oe != od.OK {
		return uint16(oe.Code())
	}
	if c := fieldbus.ExceptionCode(err); c != 0 {
		return uint16(c)
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }
	type coderC interface{ ModbusCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}
	var c coderC
	if errors.As(err, &c) {
		return c.ModbusCode()
	}

	return 1
}
