// Package hypermedia renders Go values and route metadata as microdata
// annotated HTML. The root package wires the built-in renderers, the OpenAPI
// loader and parser, and the API index orchestrator behind a few
// constructors.
package hypermedia

import (
	"context"
	"fmt"
	"reflect"

	internalLoader "github.com/goliatone/go-hypermedia/internal/openapi/loader"
	internalParser "github.com/goliatone/go-hypermedia/internal/openapi/parser"
	"github.com/goliatone/go-hypermedia/pkg/markup"
	pkgopenapi "github.com/goliatone/go-hypermedia/pkg/openapi"
	"github.com/goliatone/go-hypermedia/pkg/orchestrator"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/renderers/apidoc"
	"github.com/goliatone/go-hypermedia/pkg/renderers/builtin"
)

// Subset aliases orchestrator.Subset for callers rendering part of an index.
type Subset = orchestrator.Subset

// ActionOverride aliases orchestrator.ActionOverride.
type ActionOverride = orchestrator.ActionOverride

// NewRegistry returns a registry holding the built-in value renderers and the
// route documentation renderers.
func NewRegistry(options ...apidoc.Option) (*render.Registry, error) {
	registry := builtin.NewRegistry()
	if err := apidoc.Register(registry, options...); err != nil {
		return nil, fmt.Errorf("hypermedia: %w", err)
	}
	return registry, nil
}

// NewEngine constructs an engine dispatching through NewRegistry. A
// render.WithRegistry option replaces the default registry.
func NewEngine(options ...render.Option) (*render.Engine, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	return render.New(append([]render.Option{render.WithRegistry(registry)}, options...)...), nil
}

// Render renders value into a complete document with the default engine.
func Render(value any, declared reflect.Type, options ...render.ConfigOption) (*markup.Node, error) {
	engine, err := NewEngine()
	if err != nil {
		return nil, err
	}
	return engine.Render(value, declared, options...)
}

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}

// NewOpenAPIProvider serves the route groups and descriptions of the
// document at src.
func NewOpenAPIProvider(src pkgopenapi.Source, loaderOptions []pkgopenapi.LoaderOption, parserOptions ...pkgopenapi.ParserOption) (*pkgopenapi.RouteProvider, error) {
	return pkgopenapi.NewRouteProvider(NewLoader(loaderOptions...), NewParser(parserOptions...), src)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateIndex loads the OpenAPI document at src and renders its API index
// page as HTML.
func GenerateIndex(ctx context.Context, src pkgopenapi.Source, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{Source: src})
}
