// internal/poller/builder.go
package poller

import (
	"errors"
	"sync"
	"time"

	cfg "github.com/tamzrod/modbus-od/internal/config"
	"github.com/tamzrod/modbus-od/internal/od"
)

// Build constructs a Poller for the sync section of a schema.
// The client is shared with the writer; its lifecycle belongs to the caller.
// No retries, no loops, no semantics.
func Build(s *cfg.SyncConfig, dict *od.Dictionary, client Client, lock sync.Locker) (*Poller, error) {
	if s == nil {
		return nil, errors.New("poller: sync not configured")
	}

	return New(
		Config{
			UnitID:   s.UnitID,
			Interval: time.Duration(s.IntervalMs) * time.Millisecond,
			Objects:  s.Pull,
		},
		dict,
		client,
		lock,
	)
}
