package openapi

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-hypermedia/pkg/doctext"
	"github.com/goliatone/go-hypermedia/pkg/route"
)

// RouteProvider loads and parses one document on first use and serves its
// route groups and descriptions. It implements route.Provider and
// doctext.Provider.
type RouteProvider struct {
	loader Loader
	parser Parser
	source Source

	mu     sync.Mutex
	loaded bool
	spec   Spec
}

var (
	_ route.Provider   = (*RouteProvider)(nil)
	_ doctext.Provider = (*RouteProvider)(nil)
)

// NewRouteProvider wires a loader and parser to a source.
func NewRouteProvider(loader Loader, parser Parser, src Source) (*RouteProvider, error) {
	switch {
	case loader == nil:
		return nil, errors.New("openapi: loader is required")
	case parser == nil:
		return nil, errors.New("openapi: parser is required")
	case src == nil:
		return nil, errors.New("openapi: source is required")
	}
	return &RouteProvider{loader: loader, parser: parser, source: src}, nil
}

// Spec loads the document once and returns the parsed result. Failed loads
// are retried on the next call.
func (p *RouteProvider) Spec(ctx context.Context) (Spec, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.spec, nil
	}
	doc, err := p.loader.Load(ctx, p.source)
	if err != nil {
		return Spec{}, err
	}
	spec, err := p.parser.Parse(ctx, doc)
	if err != nil {
		return Spec{}, err
	}
	p.spec, p.loaded = spec, true
	return spec, nil
}

// Groups implements route.Provider.
func (p *RouteProvider) Groups(ctx context.Context) ([]route.Group, error) {
	spec, err := p.Spec(ctx)
	if err != nil {
		return nil, err
	}
	return append([]route.Group(nil), spec.Groups...), nil
}

// Describe implements doctext.Provider. It answers only after the document
// has been loaded through Spec or Groups.
func (p *RouteProvider) Describe(key doctext.Key) (doctext.Text, bool) {
	p.mu.Lock()
	store := p.spec.Descriptions
	p.mu.Unlock()
	return store.Describe(key)
}
