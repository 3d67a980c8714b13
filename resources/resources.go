// Package resources keeps track of GPU-resident objects that must be
// rebuilt when the rendering context is lost.
package resources

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/yuripourre/cardboard/graphics"
)

// Invalidator is a cache collaborator notified once per context creation.
type Invalidator interface {
	InvalidateAll(h *graphics.Handle)
}

// ErrNoContext is returned by managed objects asked to load without a
// live context.
var ErrNoContext = errors.New("resources: no current GL context")

// Managed is a GPU object that can recreate itself in a fresh context.
type Managed interface {
	Reload(h *graphics.Handle) error
}

// Cache is the set of managed objects of one kind.
type Cache[T interface {
	Managed
	comparable
}] struct {
	kind  string
	items []T
}

func NewCache[T interface {
	Managed
	comparable
}](kind string) *Cache[T] {
	return &Cache[T]{kind: kind}
}

func (c *Cache[T]) Kind() string { return c.kind }

func (c *Cache[T]) Len() int { return len(c.items) }

func (c *Cache[T]) Add(item T) {
	c.items = append(c.items, item)
}

// Load uploads item into the context of h and tracks it for later
// reloads. Items that fail to upload are not tracked.
func (c *Cache[T]) Load(item T, h *graphics.Handle) error {
	if err := item.Reload(h); err != nil {
		return fmt.Errorf("loading %s: %w", c.kind, err)
	}
	c.Add(item)
	return nil
}

// Remove drops item from the cache and reports whether it was present.
func (c *Cache[T]) Remove(item T) bool {
	for i, it := range c.items {
		if it == item {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// InvalidateAll reloads every object. A failed reload is logged and does
// not stop the others.
func (c *Cache[T]) InvalidateAll(h *graphics.Handle) {
	var errs []error
	for _, it := range c.items {
		if err := it.Reload(h); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		glog.Errorf("resources: reloading %s: %v", c.kind, err)
	}
}

type entry struct {
	name string
	inv  Invalidator
}

// Registry is the set of cache collaborators for one application.
type Registry struct {
	entries []entry
}

// Register adds inv under name. Registering the same name twice replaces
// the earlier collaborator.
func (r *Registry) Register(name string, inv Invalidator) {
	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries[i].inv = inv
			return
		}
	}
	r.entries = append(r.entries, entry{name: name, inv: inv})
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// InvalidateAll notifies each registered collaborator exactly once.
func (r *Registry) InvalidateAll(h *graphics.Handle) {
	for _, e := range r.entries {
		glog.V(1).Infof("resources: invalidating %s", e.name)
		e.inv.InvalidateAll(h)
	}
}

type counter interface {
	Len() int
}

// Status describes how many objects each collaborator manages.
func (r *Registry) Status() string {
	var sb strings.Builder
	for _, e := range r.entries {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		if c, ok := e.inv.(counter); ok {
			fmt.Fprintf(&sb, "%s: %d", e.name, c.Len())
		} else {
			fmt.Fprintf(&sb, "%s: ?", e.name)
		}
	}
	return sb.String()
}
