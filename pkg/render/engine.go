package render

import (
	"reflect"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-hypermedia/pkg/markup"
)

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the registry used for dispatch. The engine does not copy
// it; register renderers before serving.
func WithRegistry(registry *Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithLogger sets the logger handed to every render call.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDefaults sets configuration applied to every call before per-call
// options.
func WithDefaults(options ...ConfigOption) Option {
	return func(e *Engine) {
		e.defaults = e.defaults.apply(options...)
	}
}

// Engine is the dispatch entry point. It is safe for concurrent use once its
// registry is no longer mutated.
type Engine struct {
	registry *Registry
	defaults Config
	logger   zerolog.Logger
}

// Result is the outcome of one render call.
type Result struct {
	// Document is the assembled <html> tree.
	Document *markup.Node
	// Body holds the rendered value nodes, attached to Document's <body>.
	Body []*markup.Node
	// Faults lists member failures that were isolated to placeholders.
	Faults []Fault
}

// New creates an engine. Without WithRegistry it dispatches through a
// registry holding only the reflective renderer.
func New(options ...Option) *Engine {
	e := &Engine{
		defaults: DefaultConfig(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry(WithRegistryLogger(e.logger))
	}
	return e
}

// Registry exposes the engine registry for additional registrations.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Register appends a renderer to the engine registry.
func (e *Engine) Register(renderer Renderer) error {
	return e.registry.Register(renderer)
}

// Execute renders value and assembles the document. declared is used when
// value is nil; it may be nil for untyped values. Only configuration faults
// are returned as errors.
func (e *Engine) Execute(value any, declared reflect.Type, options ...ConfigOption) (Result, error) {
	cfg := e.defaults.apply(options...)
	ctx := NewContext(e.registry, cfg, e.logger)

	body, err := ctx.Render("", reflect.ValueOf(value), declared)
	if err != nil {
		e.logger.Error().Err(err).Msg("render aborted")
		return Result{Faults: ctx.Faults()}, err
	}

	doc := Assemble(cfg, body)
	return Result{
		Document: doc,
		Body:     body,
		Faults:   ctx.Faults(),
	}, nil
}

// Render returns the assembled document for value.
func (e *Engine) Render(value any, declared reflect.Type, options ...ConfigOption) (*markup.Node, error) {
	result, err := e.Execute(value, declared, options...)
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// Fragment renders value without the document wrapper.
func (e *Engine) Fragment(value any, declared reflect.Type, options ...ConfigOption) ([]*markup.Node, error) {
	cfg := e.defaults.apply(options...)
	ctx := NewContext(e.registry, cfg, e.logger)
	return ctx.Render("", reflect.ValueOf(value), declared)
}

// RenderOf is Render with the declared type taken from T, so nil pointers and
// nil interfaces still resolve on their static type.
func RenderOf[T any](e *Engine, value T, options ...ConfigOption) (*markup.Node, error) {
	return e.Render(value, TypeOf[T](), options...)
}
