// internal/cli/loader.go
package cli

import (
	"fmt"
	"log"

	"github.com/tamzrod/modbus-od/internal/config"
	"github.com/tamzrod/modbus-od/internal/console"
	"github.com/tamzrod/modbus-od/internal/od"
	"github.com/tamzrod/modbus-od/internal/registry"
)

// LoadSchema runs the load, validate, normalize pipeline on path.
func LoadSchema(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

// loadDictionary loads the schema named by opts and builds its dictionary.
func loadDictionary(opts *RootOptions) (*od.Dictionary, error) {
	cfg, err := LoadSchema(opts.Schema)
	if err != nil {
		return nil, err
	}
	return buildDictionary(cfg)
}

// buildDictionary builds cfg's dictionary plus extra items. Writes to
// write-only objects are logged.
func buildDictionary(cfg *config.Config, extra ...od.Item) (*od.Dictionary, error) {
	handlers := map[string]registry.Handler{}
	for _, o := range cfg.Dictionary.Objects {
		if !o.WriteOnly {
			continue
		}
		name := o.Name
		handlers[name] = func(v int64) od.Error {
			log.Printf("write-only object %s <- %d", name, v)
			return od.OK
		}
	}

	d, err := registry.Build(cfg, registry.Options{Handlers: handlers, Extra: extra})
	if err != nil {
		return nil, fmt.Errorf("dictionary build failed: %w", err)
	}
	return d, nil
}

func accessOf(opts *RootOptions) console.Access {
	// already validated in PersistentPreRunE
	a, _ := console.ParseAccess(opts.Access)
	return a
}
