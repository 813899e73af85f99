package practice

import (
	"fmt"
	"sync"
)

// Catalog is the process-wide registry of practices for a run.
// It is populated once at startup and treated as an immutable
// snapshot for the duration of a run; registration order is preserved
// and used by the engine to break scheduling ties deterministically.
type Catalog struct {
	mu        sync.RWMutex
	practices map[string]Practice
	order     []string // registration order
}

// NewCatalog creates an empty practice catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		practices: make(map[string]Practice),
	}
}

// Register adds a practice to the catalog. Practice IDs must be unique.
func (c *Catalog) Register(p Practice) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	meta := p.Metadata()
	if meta.ID == "" {
		return fmt.Errorf("practice has empty ID")
	}
	if _, exists := c.practices[meta.ID]; exists {
		return fmt.Errorf("practice %q already registered", meta.ID)
	}

	c.practices[meta.ID] = p
	c.order = append(c.order, meta.ID)
	return nil
}

// Get returns a registered practice by ID.
func (c *Catalog) Get(id string) (Practice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, exists := c.practices[id]
	return p, exists
}

// List returns all practices in registration order.
func (c *Catalog) List() []Practice {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Practice, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.practices[id])
	}
	return out
}

// Index returns the registration position of a practice ID, used to
// keep evaluation ordering deterministic across runs. Unknown IDs sort
// last.
func (c *Catalog) Index(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i, registered := range c.order {
		if registered == id {
			return i
		}
	}
	return len(c.order)
}

// Len returns the number of registered practices.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.practices)
}
