package prompts

import "sync"

// activeCache holds the last resolved active prompt. Populated on first
// successful read; activation-changing writes call invalidate so the next
// read hits the database.
type activeCache struct {
	mu     sync.Mutex
	value  *Prompt
	cached bool
}

func (c *activeCache) get() (*Prompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.cached
}

func (c *activeCache) put(v *Prompt) {
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
