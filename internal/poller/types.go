// internal/poller/types.go
package poller

import "time"

// PullTarget is one dictionary object read from the endpoint.
// Geometry only: the object itself decides what the registers mean.
type PullTarget struct {
	Name     string
	Address  uint16 // first holding register
	Quantity uint16
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	At time.Time

	// Applied lists the objects updated by this cycle, in pull order.
	// It is empty whenever Err is set.
	Applied []string

	Err error // non-nil means the poll cycle failed and nothing was applied
}
