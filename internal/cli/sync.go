// internal/cli/sync.go
package cli

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tamzrod/modbus-od/internal/poller"
	"github.com/tamzrod/modbus-od/internal/status"
	"github.com/tamzrod/modbus-od/internal/writer"
)

// syncLoop is the orchestrator between poller and writer.
// It owns the status record: outcome per cycle, seconds on a 1 Hz ticker.
type syncLoop struct {
	endpoint string
	writer   writer.Writer
	rec      *status.Recorder
	lock     sync.Locker
}

func (l *syncLoop) Run(ctx context.Context, in <-chan poller.PollResult) {
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			l.handle(res)

		case <-secTicker.C:
			l.tick()
		}
	}
}

// handle delivers pushes for one poll cycle and records the outcome.
func (l *syncLoop) handle(res poller.PollResult) {
	err := res.Err
	if err != nil {
		log.Printf("poller error (endpoint=%s): %v", l.endpoint, err)
	}

	// --- data delivery ---
	if werr := l.writer.Write(res); werr != nil {
		log.Printf("writer error (endpoint=%s): %v", l.endpoint, werr)
		if err == nil {
			err = werr
		}
	}

	// --- status update ---
	l.lock.Lock()
	changed := l.rec.Observe(err)
	snap := l.rec.Snapshot()
	l.lock.Unlock()

	if changed && snap.Health == status.HealthOK {
		log.Printf("sync healthy (endpoint=%s)", l.endpoint)
	}
}

func (l *syncLoop) tick() {
	l.lock.Lock()
	l.rec.Tick()
	l.lock.Unlock()
}
