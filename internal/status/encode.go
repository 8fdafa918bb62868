// internal/status/encode.go
package status

import "github.com/tamzrod/modbus-od/internal/od"

// blobSize is the byte size of the status record.
const blobSize = 6

// Encode converts a Snapshot into the status record blob.
// No IO. No side effects.
func Encode(s Snapshot) []byte {
	b := make([]byte, blobSize)
	encodeInto(b, s)
	return b
}

func encodeInto(b []byte, s Snapshot) {
	od.Put(b[0:], s.Health)
	od.Put(b[2:], s.LastErrorCode)
	od.Put(b[4:], s.SecondsInError)
}

// Decode is the inverse of Encode.
func Decode(b []byte) Snapshot {
	return Snapshot{
		Health:         od.Decode[uint16](b[0:]),
		LastErrorCode:  od.Decode[uint16](b[2:]),
		SecondsInError: od.Decode[uint16](b[4:]),
	}
}
