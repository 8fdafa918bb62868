// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tamzrod/modbus-od/internal/od"
	"github.com/tamzrod/modbus-od/internal/poller"
	"github.com/tamzrod/modbus-od/internal/regmap"
)

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

type registerWriter struct {
	plan   Plan
	client endpointClient
	dict   *od.Dictionary
	lock   sync.Locker
}

// New returns a Writer for plan. lock guards dict and may be nil.
func New(plan Plan, dict *od.Dictionary, client endpointClient, lock sync.Locker) Writer {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &registerWriter{
		plan:   plan,
		client: client,
		dict:   dict,
		lock:   lock,
	}
}

// Write pushes every planned object. A failed poll cycle means the
// endpoint is not trusted, so nothing is written for it.
// Values are captured under the lock and written outside it.
func (w *registerWriter) Write(res poller.PollResult) error {
	if res.Err != nil || len(w.plan.Targets) == 0 {
		return nil
	}

	if w.client == nil {
		return errors.New("writer: missing endpoint client")
	}

	var errs []string

	type pending struct {
		tgt  PushTarget
		regs []uint16
	}
	batch := make([]pending, 0, len(w.plan.Targets))

	w.lock.Lock()
	for _, tgt := range w.plan.Targets {
		item, ok := w.dict.Find(tgt.Name)
		if !ok {
			errs = append(errs, fmt.Sprintf("writer: object %s not found", tgt.Name))
			continue
		}
		regs, err := regmap.Encode(item.Object)
		if err != nil {
			errs = append(errs, fmt.Sprintf("writer: obj=%s err=%v", tgt.Name, err))
			continue
		}
		batch = append(batch, pending{tgt: tgt, regs: regs})
	}
	w.lock.Unlock()

	for _, p := range batch {
		if err := w.client.WriteRegisters(w.plan.UnitID, p.tgt.Address, p.regs); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: obj=%s unit=%d addr=%d err=%v",
				p.tgt.Name, w.plan.UnitID, p.tgt.Address, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}
