package config

import "sync"

// Guard is the process-wide configuration. Readers take snapshots; writers
// mutate under the lock and persist before releasing it.
type Guard struct {
	mu   sync.Mutex
	path string
	cfg  Config
}

// NewGuard wraps cfg, persisting changes to path. An empty path keeps
// changes in memory.
func NewGuard(cfg *Config, path string) *Guard {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Guard{path: path, cfg: *cfg}
}

// Snapshot returns a copy of the current configuration.
func (g *Guard) Snapshot() Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg
}

// Path returns the file backing the configuration.
func (g *Guard) Path() string {
	return g.path
}

// Update applies fn to a copy and commits it only if fn and the save
// succeed.
func (g *Guard) Update(fn func(*Config) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.cfg
	if err := fn(&next); err != nil {
		return err
	}
	if g.path != "" {
		if err := next.Save(g.path); err != nil {
			return err
		}
	}
	g.cfg = next
	return nil
}

// Get reads a single key.
func (g *Guard) Get(key string) (string, error) {
	cfg := g.Snapshot()
	return cfg.Get(key)
}

// Set writes a single key and persists it.
func (g *Guard) Set(key, value string) error {
	return g.Update(func(cfg *Config) error {
		return cfg.Set(key, value)
	})
}

// Replace swaps the whole configuration, as an import does.
func (g *Guard) Replace(cfg Config) error {
	return g.Update(func(c *Config) error {
		*c = cfg
		c.normalize()
		return nil
	})
}
