// internal/writer/types.go
package writer

import "github.com/tamzrod/modbus-od/internal/poller"

// PushTarget is one dictionary object written to the endpoint.
type PushTarget struct {
	Name    string
	Address uint16 // first holding register
}

// Plan is the fully-built write plan for one endpoint.
type Plan struct {
	UnitID  uint8
	Targets []PushTarget
}

// Writer writes dictionary objects to the endpoint after each poll.
type Writer interface {
	Write(res poller.PollResult) error
}
