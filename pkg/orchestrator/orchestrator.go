package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	internalLoader "github.com/goliatone/go-hypermedia/internal/openapi/loader"
	internalParser "github.com/goliatone/go-hypermedia/internal/openapi/parser"
	"github.com/goliatone/go-hypermedia/pkg/doctext"
	"github.com/goliatone/go-hypermedia/pkg/markup"
	pkgopenapi "github.com/goliatone/go-hypermedia/pkg/openapi"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/renderers/apidoc"
	"github.com/goliatone/go-hypermedia/pkg/renderers/builtin"
	"github.com/goliatone/go-hypermedia/pkg/route"
)

// Format selects the serialisation of the generated page.
type Format string

const (
	FormatHTML  Format = "html"
	FormatXHTML Format = "xhtml"
)

// Index is the value rendered as the API index page.
type Index struct {
	Title   string        `microdata:"name,omitempty"`
	Version string        `microdata:"version,omitempty"`
	Groups  []route.Group `microdata:"groups" label:"Resources"`
}

func (i *Index) group(name string) *route.Group {
	for idx := range i.Groups {
		if i.Groups[idx].Name == name {
			return &i.Groups[idx]
		}
	}
	return nil
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithProvider sets the route provider used when a request names neither a
// source nor a document.
func WithProvider(provider route.Provider) Option {
	return func(o *Orchestrator) {
		o.provider = provider
	}
}

// WithDescriptions adds documentation text consulted before descriptions
// extracted from OpenAPI documents.
func WithDescriptions(provider doctext.Provider) Option {
	return func(o *Orchestrator) {
		o.descriptions = provider
	}
}

// WithRegistry replaces the per-request registry. The caller is responsible
// for registering documentation renderers on it.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDocOptions forwards options to the documentation renderers.
func WithDocOptions(options ...apidoc.Option) Option {
	return func(o *Orchestrator) {
		o.docOptions = append(o.docOptions, options...)
	}
}

// WithRenderDefaults sets render options applied to every request before the
// request's own options.
func WithRenderDefaults(options ...render.ConfigOption) Option {
	return func(o *Orchestrator) {
		o.renderDefaults = append(o.renderDefaults, options...)
	}
}

// WithTransformer registers a Transformer run against the parsed index.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger sets the logger shared with the render engine.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from route metadata to rendered
// output. Missing dependencies default to the built-in loader, parser and
// renderers.
type Orchestrator struct {
	loader         pkgopenapi.Loader
	parser         pkgopenapi.Parser
	provider       route.Provider
	descriptions   doctext.Provider
	registry       *render.Registry
	docOptions     []apidoc.Option
	renderDefaults []render.ConfigOption
	transformer    Transformer
	overrides      []ActionOverride
	logger         zerolog.Logger
	initialiseErr  error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	return o
}

// Request describes one index generation.
type Request struct {
	// Source identifies where the OpenAPI document lives. Optional when
	// Document is supplied or a provider is configured.
	Source pkgopenapi.Source

	// Document bypasses the loader.
	Document *pkgopenapi.Document

	// Subset narrows the rendered groups and actions.
	Subset Subset

	// RenderOptions apply after the orchestrator defaults.
	RenderOptions []render.ConfigOption

	// Format selects HTML (default) or XHTML output for Generate.
	Format Format
}

// Page is a generated index before serialisation.
type Page struct {
	Index    Index
	Document *markup.Node
	Faults   []render.Fault
	Charset  string
}

// Build runs the pipeline and returns the assembled document.
func (o *Orchestrator) Build(ctx context.Context, req Request) (Page, error) {
	if ctx == nil {
		return Page{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Page{}, err
	}

	index, descriptions, err := o.resolveIndex(ctx, req)
	if err != nil {
		return Page{}, err
	}
	if err := o.applyTransformer(ctx, &index); err != nil {
		return Page{}, err
	}
	for _, override := range o.overrides {
		if !applyOverride(&index, override) {
			o.logger.Warn().Str("action", override.Action).Msg("override target not found")
		}
	}
	if index.Groups, err = req.Subset.Apply(index.Groups); err != nil {
		return Page{}, err
	}
	for _, group := range index.Groups {
		if err := group.Validate(); err != nil {
			return Page{}, fmt.Errorf("orchestrator: %w", err)
		}
	}

	registry, err := o.registryFor(descriptions)
	if err != nil {
		return Page{}, err
	}
	engine := render.New(render.WithRegistry(registry), render.WithLogger(o.logger))

	options := make([]render.ConfigOption, 0, len(o.renderDefaults)+len(req.RenderOptions)+1)
	if index.Title != "" {
		options = append(options, render.WithTitle(index.Title))
	}
	options = append(options, o.renderDefaults...)
	options = append(options, req.RenderOptions...)

	result, err := engine.Execute(index, nil, options...)
	if err != nil {
		return Page{}, fmt.Errorf("orchestrator: render index: %w", err)
	}
	return Page{
		Index:    index,
		Document: result.Document,
		Faults:   result.Faults,
		Charset:  announcedCharset(result.Document),
	}, nil
}

// Generate runs Build and serialises the document.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	page, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	switch req.Format {
	case "", FormatHTML:
		err = markup.Encode(&buf, page.Document, page.Charset)
	case FormatXHTML:
		err = markup.EncodeXHTML(&buf, page.Document)
	default:
		err = fmt.Errorf("unknown format %q", req.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("orchestrator: encode output: %w", err)
	}
	return buf.Bytes(), nil
}

func (o *Orchestrator) resolveIndex(ctx context.Context, req Request) (Index, doctext.Provider, error) {
	if req.Document == nil && req.Source == nil {
		if o.provider == nil {
			return Index{}, nil, errors.New("orchestrator: source, document or provider is required")
		}
		groups, err := o.provider.Groups(ctx)
		if err != nil {
			return Index{}, nil, fmt.Errorf("orchestrator: load routes: %w", err)
		}
		return Index{Groups: cloneGroups(groups)}, o.descriptions, nil
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return Index{}, nil, err
	}
	spec, err := o.parser.Parse(ctx, doc)
	if err != nil {
		return Index{}, nil, fmt.Errorf("orchestrator: parse document: %w", err)
	}
	index := Index{Title: spec.Title, Version: spec.Version, Groups: cloneGroups(spec.Groups)}
	return index, doctext.Chain{o.descriptions, spec.Descriptions}, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, index *Index) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, index); err != nil {
		return fmt.Errorf("orchestrator: transform index: %w", err)
	}
	return nil
}

func (o *Orchestrator) registryFor(descriptions doctext.Provider) (*render.Registry, error) {
	if o.registry != nil {
		return o.registry, nil
	}
	registry := builtin.NewRegistry()
	options := append([]apidoc.Option{apidoc.WithDescriptions(descriptions)}, o.docOptions...)
	if err := apidoc.Register(registry, options...); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return registry, nil
}

func cloneGroups(groups []route.Group) []route.Group {
	out := make([]route.Group, len(groups))
	for i, group := range groups {
		group.Actions = append([]route.Action(nil), group.Actions...)
		out[i] = group
	}
	return out
}

func announcedCharset(doc *markup.Node) string {
	if doc == nil {
		return render.DefaultCharset
	}
	if meta := doc.Find(markup.ByAttr("charset", "")); meta != nil {
		if charset, ok := meta.Attr("charset"); ok && charset != "" {
			return charset
		}
	}
	return render.DefaultCharset
}
