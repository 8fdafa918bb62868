// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"log"
	"time"

	cfg "github.com/tamzrod/modbus-od/internal/config"
	"github.com/tamzrod/modbus-od/internal/fieldbus"
	"github.com/tamzrod/modbus-od/internal/od"
)

// BuildPlan converts the sync section into a Writer Plan.
// Assumes config has already passed validation; names are resolved
// against dict so the plan carries the register addresses.
func BuildPlan(s *cfg.SyncConfig, dict *od.Dictionary) (Plan, error) {
	if s == nil {
		return Plan{}, errors.New("writer: sync not configured")
	}

	plan := Plan{UnitID: s.UnitID}

	for _, name := range s.Push {
		item, ok := dict.Find(name)
		if !ok {
			return Plan{}, fmt.Errorf("writer: object %q not found", name)
		}
		plan.Targets = append(plan.Targets, PushTarget{
			Name:    item.Object.Name(),
			Address: item.Mapping,
		})
	}

	return plan, nil
}

// BuildEndpointClient creates the TCP client shared by poller and writer.
// trace, when non-nil, receives raw frame dumps.
func BuildEndpointClient(s *cfg.SyncConfig, trace *log.Logger) (*fieldbus.EndpointClient, error) {
	if s == nil {
		return nil, errors.New("writer: sync not configured")
	}
	return fieldbus.NewEndpointClient(fieldbus.Config{
		Endpoint: s.Endpoint,
		Timeout:  time.Duration(s.TimeoutMs) * time.Millisecond,
		Logger:   trace,
	})
}
