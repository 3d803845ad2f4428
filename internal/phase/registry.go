package phase

import (
	"fmt"
	"sync"
)

// Registry maintains known phases in registration order. Registration order
// is the canonical workflow order.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	phases map[string]Phase
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{phases: map[string]Phase{}}
}

// Register installs a phase. Returns an error if the ID already exists or
// the phase info is malformed.
func (r *Registry) Register(p Phase) error {
	if p == nil {
		return fmt.Errorf("phase: phase is required")
	}
	info := p.Info()
	if err := info.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.phases[info.ID]; exists {
		return fmt.Errorf("phase: %s already registered", info.ID)
	}
	r.phases[info.ID] = p
	r.order = append(r.order, info.ID)
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(p Phase) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Get returns the phase registered under the given ID.
func (r *Registry) Get(id string) (Phase, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.phases[id]
	return p, ok
}

// Sequence returns phase IDs in registration order.
func (r *Registry) Sequence() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
