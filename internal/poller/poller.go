// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tamzrod/modbus-od/internal/od"
	"github.com/tamzrod/modbus-od/internal/regmap"
)

// Client abstracts the field-bus operations needed by the poller.
type Client interface {
	ReadRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) // FC 3
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	UnitID   uint8
	Interval time.Duration
	Objects  []string // dictionary names, pulled in this order
}

// Poller is a clock-driven reader that stores what it reads into a dictionary.
type Poller struct {
	cfg     Config
	client  Client
	lock    sync.Locker
	targets []target
}

type target struct {
	PullTarget
	obj *od.Object
}

// New creates a poller with immutable config. Every object must exist
// in dict. lock guards dict and may be nil when nothing else touches it.
func New(cfg Config, dict *od.Dictionary, client Client, lock sync.Locker) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if dict == nil {
		return nil, errors.New("poller: dictionary required")
	}
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if lock == nil {
		lock = nopLocker{}
	}

	targets := make([]target, 0, len(cfg.Objects))
	for _, name := range cfg.Objects {
		item, ok := dict.Find(name)
		if !ok {
			return nil, fmt.Errorf("poller: object %q not found", name)
		}
		qty := regmap.ObjectCount(item.Object)
		if qty == 0 {
			return nil, fmt.Errorf("poller: object %q has no register layout", name)
		}
		targets = append(targets, target{
			PullTarget: PullTarget{
				Name:     item.Object.Name(),
				Address:  item.Mapping,
				Quantity: uint16(qty),
			},
			obj: &item.Object,
		})
	}

	return &Poller{cfg: cfg, client: client, lock: lock, targets: targets}, nil
}

// Targets returns the resolved pull geometry.
func (p *Poller) Targets() []PullTarget {
	out := make([]PullTarget, len(p.targets))
	for i, t := range p.targets {
		out[i] = t.PullTarget
	}
	return out
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: every read must succeed and every value must pass
// its object's checks, or the dictionary is left as it was.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{At: time.Now()}

	// Reads happen outside the lock.
	regs := make([][]uint16, len(p.targets))
	for i, t := range p.targets {
		r, err := p.client.ReadRegisters(p.cfg.UnitID, t.Address, t.Quantity)
		if err != nil {
			res.Err = fmt.Errorf("poller: read %s at %d: %w", t.Name, t.Address, err)
			return res
		}
		regs[i] = r
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	saved := make([][]byte, len(p.targets))
	for i, t := range p.targets {
		saved[i] = append([]byte(nil), t.obj.Data()...)
	}

	for i, t := range p.targets {
		if err := regmap.Decode(*t.obj, regs[i]); err != nil {
			p.restore(saved)
			res.Err = fmt.Errorf("poller: apply %s: %w", t.Name, err)
			return res
		}
	}

	// Commit only if all values were accepted
	for _, t := range p.targets {
		res.Applied = append(res.Applied, t.Name)
	}
	return res
}

// restore puts back the blobs captured before a failed apply.
// Write-only objects have no blob; their handlers already ran.
func (p *Poller) restore(saved [][]byte) {
	for i, t := range p.targets {
		if b := t.obj.Data(); b != nil {
			copy(b, saved[i])
		}
	}
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}
