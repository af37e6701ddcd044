package render

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

const defaultResolveCacheSize = 512

// Registration pairs a predicate with the renderer it selects.
type Registration struct {
	Name     string
	Match    Matcher
	Renderer Renderer
}

// RegistryOption customises a Registry during construction.
type RegistryOption func(*Registry)

// WithFallback replaces the renderer returned when no registration matches.
func WithFallback(renderer Renderer) RegistryOption {
	return func(r *Registry) {
		if renderer != nil {
			r.fallback = renderer
		}
	}
}

// WithResolveCacheSize sets the number of memoised type resolutions. Zero or
// negative values disable the cache.
func WithResolveCacheSize(size int) RegistryOption {
	return func(r *Registry) {
		r.cacheSize = size
	}
}

// WithRegistryLogger attaches a logger used for registration diagnostics.
func WithRegistryLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// Registry holds ordered (predicate, renderer) registrations. Resolution scans
// registrations from the most recent to the oldest and returns the first
// match, falling back to the reflective renderer, so Resolve is total.
// Registrations are expected during setup; concurrent Resolve calls are safe.
type Registry struct {
	mu        sync.RWMutex
	entries   []Registration
	fallback  Renderer
	cache     *lru.Cache[reflect.Type, resolution]
	cacheSize int
	logger    zerolog.Logger
}

type resolution struct {
	index    int
	name     string
	renderer Renderer
}

// NewRegistry creates a registry holding only the fallback renderer.
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		cacheSize: defaultResolveCacheSize,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.fallback == nil {
		r.fallback = NewReflectRenderer()
	}
	if r.cacheSize > 0 {
		cache, err := lru.New[reflect.Type, resolution](r.cacheSize)
		if err == nil {
			r.cache = cache
		}
	}
	return r
}

// Register appends a renderer using its Supports method as predicate.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	return r.RegisterFunc(rendererName(renderer), renderer.Supports, renderer)
}

// RegisterFunc appends a renderer selected by an explicit matcher. Later
// registrations take precedence over earlier ones.
func (r *Registry) RegisterFunc(name string, match Matcher, renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	if match == nil {
		return fmt.Errorf("render: matcher for %q is required", name)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = rendererName(renderer)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Registration{Name: name, Match: match, Renderer: renderer})
	if r.cache != nil {
		r.cache.Purge()
	}
	r.logger.Debug().Str("renderer", name).Int("position", len(r.entries)-1).Msg("renderer registered")
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderers ...Renderer) {
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the renderer for t. It never returns nil.
func (r *Registry) Resolve(t reflect.Type) Renderer {
	return r.resolve(t).renderer
}

// Lookup reports which registration handles t. ok is false when the fallback
// renderer applies.
func (r *Registry) Lookup(t reflect.Type) (Registration, bool) {
	res := r.resolve(t)
	if res.index < 0 {
		return Registration{Name: rendererName(res.renderer), Renderer: res.renderer}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if res.index >= len(r.entries) {
		return Registration{Name: rendererName(res.renderer), Renderer: res.renderer}, false
	}
	return r.entries[res.index], true
}

func (r *Registry) resolve(t reflect.Type) resolution {
	if r == nil {
		fallback := NewReflectRenderer()
		return resolution{index: -1, name: fallback.Name(), renderer: fallback}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	fallback := resolution{index: -1, name: rendererName(r.fallback), renderer: r.fallback}
	if t == nil {
		return fallback
	}
	if r.cache != nil {
		if cached, ok := r.cache.Get(t); ok {
			return cached
		}
	}

	res := fallback
	for idx := len(r.entries) - 1; idx >= 0; idx-- {
		entry := r.entries[idx]
		if entry.Match(t) {
			res = resolution{index: idx, name: entry.Name, renderer: entry.Renderer}
			break
		}
	}
	if r.cache != nil {
		r.cache.Add(t, res)
	}
	return res
}

// Fallback returns the renderer used when nothing matches.
func (r *Registry) Fallback() Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Registrations returns a snapshot in registration order.
func (r *Registry) Registrations() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Registration, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registrations, excluding the fallback.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clone returns an independent registry with the same registrations, so a
// caller can layer overrides without touching a shared instance.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := NewRegistry(
		WithFallback(r.fallback),
		WithResolveCacheSize(r.cacheSize),
		WithRegistryLogger(r.logger),
	)
	cloned.entries = append([]Registration(nil), r.entries...)
	return cloned
}
