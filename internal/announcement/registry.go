package announcement

import (
	"encoding/json"
	"fmt"

	"railannouncements/internal/audio"
)

// Registry is a read-only lookup of systems by id, built once at start-up.
type Registry struct {
	order []System
	byID  map[string]System
}

func NewRegistry(systems ...System) *Registry {
	r := &Registry{byID: make(map[string]System, len(systems))}
	for _, s := range systems {
		if _, dup := r.byID[s.ID()]; dup {
			panic("announcement: duplicate system id " + s.ID())
		}
		r.order = append(r.order, s)
		r.byID[s.ID()] = s
	}
	return r
}

// Default returns every system this service knows how to assemble.
func Default() *Registry {
	return NewRegistry(
		NewLNERAzuma(),
		NewThameslinkClass700(),
		NewTfLNorthernLine(),
		NewTfWTelevic(),
	)
}

func (r *Registry) Get(id string) (System, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSystem, id)
	}
	return s, nil
}

func (r *Registry) All() []System {
	out := make([]System, len(r.order))
	copy(out, r.order)
	return out
}

// Build looks the system up and assembles one of its announcements.
func (r *Registry) Build(systemID, tabID string, options json.RawMessage) (System, audio.Sequence, error) {
	s, err := r.Get(systemID)
	if err != nil {
		return nil, nil, err
	}
	seq, err := s.Build(tabID, options)
	if err != nil {
		return nil, nil, err
	}
	return s, seq, nil
}
