// internal/status/snapshot.go
package status

import "fmt"

// Snapshot is the current sync state.
// It contains no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Observe returns the snapshot that follows one sync cycle ending in err.
// Recovery clears the error code and seconds; seconds never advance here.
func (s Snapshot) Observe(err error) Snapshot {
	if err == nil {
		return Snapshot{Health: HealthOK}
	}
	s.Health = HealthError
	s.LastErrorCode = ErrorCode(err)
	return s
}

// Tick returns the snapshot after one second has passed.
// seconds_in_error advances while not OK and never wraps.
func (s Snapshot) Tick() Snapshot {
	if s.Health != HealthOK && s.SecondsInError < MaxSecondsInError {
		s.SecondsInError++
	}
	return s
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"health=%s last_error=%d seconds_in_error=%d",
		HealthName(s.Health), s.LastErrorCode, s.SecondsInError,
	)
}
