// internal/status/constants.go
package status

import "github.com/tamzrod/modbus-od/internal/config"

// Sync status record layout.
// These values define the object seen by console users and MUST NOT be configurable.

// ---- OBJECT ----

// ObjectName is the dictionary name of the sync status record.
const ObjectName = config.StatusObjectName

// ---- SUB-INDICES ----

// SubHealthCode holds the sync health state.
const SubHealthCode = 1

// SubLastErrorCode holds the last error code.
const SubLastErrorCode = 2

// SubSecondsInError holds the duration (in seconds) sync has been in error.
const SubSecondsInError = 3

// ---- LIMITS ----

// MaxSecondsInError is where seconds_in_error saturates.
const MaxSecondsInError = 65535

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy link.
const HealthOK uint16 = 1

// HealthError represents a link error state.
const HealthError uint16 = 2

// HealthStale represents a stale data state.
const HealthStale uint16 = 3

// HealthDisabled represents a disabled link.
const HealthDisabled uint16 = 4

// HealthName returns the display name of a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	case HealthDisabled:
		return "disabled"
	}
	return "invalid"
}
