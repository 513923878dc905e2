package rolloc

import (
	"sync"
	"time"
)

// Surface is a render target a wheel mounts its scene on.
//
// Animate must move target to the absolute rotation toDegrees over d with the
// surface's easing curve and return without blocking. The wheel schedules its
// own completion after d, so surfaces need not report when they finish.
type Surface interface {
	Attach(root *Node) error
	Animate(target *Node, toDegrees float64, d time.Duration)
}

// Host resolves render targets by name, the way a page resolves a selector.
type Host interface {
	Lookup(name string) (Surface, bool)
}

// Registry is a concurrency-safe Host backed by a map.
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Surface)}
}

// Register adds or replaces the surface under name.
func (r *Registry) Register(name string, s Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces[name] = s
}

// Lookup returns the surface registered under name.
func (r *Registry) Lookup(name string) (Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[name]
	return s, ok && s != nil
}
