package configurations

import "sync"

// activeCache holds the last resolved active record for a configuration
// group. Populated on first successful read; every activation-changing
// write must call invalidate so the next read hits the database.
type activeCache struct {
	mu     sync.Mutex
	value  *Configuration
	cached bool
}

func (c *activeCache) get() (*Configuration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.cached
}

func (c *activeCache) put(v *Configuration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.cached = true
}

func (c *activeCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
	c.cached = false
}
