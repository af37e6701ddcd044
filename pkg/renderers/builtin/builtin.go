// Package builtin provides the standard renderers: scalars, enums,
// collections, maps, nullable pass-through, URLs, hyperlinks, times and
// durations.
package builtin

import (
	"fmt"

	"github.com/goliatone/go-hypermedia/pkg/render"
)

// Renderers returns the standard renderers in registration order: the most
// general first so specific renderers registered later win.
func Renderers() []render.Renderer {
	return []render.Renderer{
		Nullable{},
		Collection{},
		Map{},
		Number{},
		Text{},
		Enum{},
		URL{},
		Hyperlink{},
		Time{},
		Duration{},
	}
}

// Register appends the standard renderers to registry.
func Register(registry *render.Registry) error {
	if registry == nil {
		return fmt.Errorf("builtin: registry is required")
	}
	for _, renderer := range Renderers() {
		if err := registry.Register(renderer); err != nil {
			return fmt.Errorf("builtin: register: %w", err)
		}
	}
	return nil
}

// NewRegistry returns a registry holding the standard renderers.
func NewRegistry(options ...render.RegistryOption) *render.Registry {
	registry := render.NewRegistry(options...)
	registry.MustRegister(Renderers()...)
	return registry
}
