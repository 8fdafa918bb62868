// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	declared := make(map[string]string)

	for oi := range cfg.Dictionary.Objects {
		o := &cfg.Dictionary.Objects[oi]

		o.Class, _ = ParseClass(o.Class)
		o.Type = strings.ToLower(strings.TrimSpace(o.Type))
		o.Perm = normalizePerm(o.Perm, "user_config")

		// Record fields inherit the record's perm.
		for fi := range o.Fields {
			f := &o.Fields[fi]
			f.Type = strings.ToLower(strings.TrimSpace(f.Type))
			f.Perm = normalizePerm(f.Perm, o.Perm)
		}

		declared[foldName(o.Name)] = o.Name
	}

	s := cfg.Sync
	if s == nil {
		return
	}

	if s.TimeoutMs == 0 {
		s.TimeoutMs = DefaultTimeoutMs
	}
	if s.StatusAddress == nil {
		addr := DefaultStatusAddress
		s.StatusAddress = &addr
	}

	// Sync lists refer to objects by their declared spelling.
	for i, n := range s.Pull {
		s.Pull[i] = declared[foldName(n)]
	}
	for i, n := range s.Push {
		s.Push[i] = declared[foldName(n)]
	}
}

func normalizePerm(perm, fallback string) string {
	perm = strings.ToLower(strings.TrimSpace(perm))
	if perm == "" {
		return fallback
	}
	return perm
}
