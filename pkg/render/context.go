package render

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-hypermedia/pkg/markup"
)

var anyType = TypeOf[any]()

// identity keys the visited set. Only reference kinds are tracked; the type is
// part of the key because a struct pointer and a pointer to its first field
// share an address.
type identity struct {
	typ reflect.Type
	ptr uintptr
}

// Context is the per-call rendering state: the ancestor set used to cut
// cycles, nesting depth, item scope depth, the configuration and isolated
// faults. A Context is created for every top-level render and must not be
// shared between goroutines.
type Context struct {
	registry *Registry
	config   Config
	logger   zerolog.Logger

	visited map[identity]struct{}
	path    []string
	depth   int
	scopes  int
	faults  []Fault
}

// NewContext creates a Context. Engine.Execute is the usual entry point; this
// constructor exists for renderers tested in isolation.
func NewContext(registry *Registry, cfg Config, logger zerolog.Logger) *Context {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Context{
		registry: registry,
		config:   cfg.apply(),
		logger:   logger,
		visited:  make(map[identity]struct{}),
	}
}

// Config returns the ambient configuration.
func (c *Context) Config() Config {
	return c.config
}

// Registry returns the registry used for dispatch.
func (c *Context) Registry() *Registry {
	return c.registry
}

// Logger returns the call logger.
func (c *Context) Logger() *zerolog.Logger {
	return &c.logger
}

// Depth reports the current nesting depth (0 at the root value).
func (c *Context) Depth() int {
	return c.depth
}

// Faults returns the isolated faults recorded so far.
func (c *Context) Faults() []Fault {
	return append([]Fault(nil), c.faults...)
}

// PropertyName applies the configured name policy.
func (c *Context) PropertyName(member string) string {
	return c.config.PropertyNames(member)
}

// Label applies the configured label policy.
func (c *Context) Label(member string) string {
	return c.config.Labels(member)
}

// ItemType returns the itemtype URL for t, or "".
func (c *Context) ItemType(t reflect.Type) string {
	return c.config.ItemType(t)
}

// InItemScope reports whether the output is nested inside an item scope, in
// which case named properties are tagged with itemprop.
func (c *Context) InItemScope() bool {
	return c.scopes > 0
}

// EnterItem marks the start of an itemscope element. The returned function
// must be called when the element's properties are rendered.
func (c *Context) EnterItem() func() {
	c.scopes++
	return func() {
		c.scopes--
	}
}

// Itemprop tags node with the property name when the output sits inside an
// item scope.
func (c *Context) Itemprop(node *markup.Node, name string) *markup.Node {
	if node == nil || name == "" || !c.InItemScope() {
		return node
	}
	return node.AddAttrValue("itemprop", name)
}

// Render dispatches a child value. Interface values are unwrapped so the
// registry resolves on the runtime type; null values resolve on declared.
// Reference values already being rendered by an ancestor are replaced by a
// circular reference placeholder. Renderer errors and panics are isolated to
// this property; only configuration faults are returned.
func (c *Context) Render(name string, value reflect.Value, declared reflect.Type) ([]*markup.Node, error) {
	value, t := normalize(value, declared)
	prop := Property{Name: name, Type: t, Value: value}

	if key, ok := referenceIdentity(value); ok {
		if _, seen := c.visited[key]; seen {
			c.logger.Debug().Str("path", c.pathString(name)).Str("type", t.String()).Msg("circular reference cut")
			return []*markup.Node{c.circularPlaceholder(name, t)}, nil
		}
		c.visited[key] = struct{}{}
		defer delete(c.visited, key)
	}

	c.depth++
	c.path = append(c.path, name)
	defer func() {
		c.depth--
		c.path = c.path[:len(c.path)-1]
	}()

	res := c.registry.resolve(t)
	nodes, err := invoke(res, c, prop)
	if err == nil {
		return nodes, nil
	}
	if IsConfigurationError(err) {
		return nil, err
	}

	fault := Fault{
		Path:     c.pathString(""),
		Type:     t,
		Renderer: res.name,
		Err:      err,
	}
	c.faults = append(c.faults, fault)
	c.logger.Warn().Err(err).Str("path", fault.Path).Str("renderer", fault.Renderer).Msg("render fault isolated")
	if c.config.OnFault != nil {
		c.config.OnFault(fault)
	}
	return []*markup.Node{c.faultPlaceholder(name)}, nil
}

// RenderValue is Render for plain Go values.
func (c *Context) RenderValue(name string, value any, declared reflect.Type) ([]*markup.Node, error) {
	return c.Render(name, reflect.ValueOf(value), declared)
}

// Null builds the shared empty representation: the element tagged with the
// property name and marked data-null.
func (c *Context) Null(tag, name string) *markup.Node {
	node := markup.Element(tag).SetAttr("data-null", "true")
	return c.Itemprop(node, name)
}

func invoke(res resolution, ctx *Context, prop Property) (nodes []*markup.Node, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			nodes = nil
			err = fmt.Errorf("%w: %s: %v", ErrRendererPanic, res.name, recovered)
		}
	}()
	return res.renderer.Render(ctx, prop)
}

func normalize(value reflect.Value, declared reflect.Type) (reflect.Value, reflect.Type) {
	for value.IsValid() && value.Kind() == reflect.Interface {
		if value.IsNil() {
			if declared == nil {
				declared = value.Type()
			}
			value = reflect.Value{}
			break
		}
		value = value.Elem()
	}
	if value.IsValid() {
		return value, value.Type()
	}
	if declared == nil {
		declared = anyType
	}
	return value, declared
}

func referenceIdentity(value reflect.Value) (identity, bool) {
	if !value.IsValid() {
		return identity{}, false
	}
	switch value.Kind() {
	case reflect.Pointer, reflect.Map:
		if value.IsNil() {
			return identity{}, false
		}
	case reflect.Slice:
		if value.IsNil() || value.Len() == 0 {
			return identity{}, false
		}
	default:
		return identity{}, false
	}
	return identity{typ: value.Type(), ptr: value.Pointer()}, true
}

func (c *Context) circularPlaceholder(name string, t reflect.Type) *markup.Node {
	node := markup.Element("span").SetAttr("data-circular-reference", "true")
	if itemType := c.ItemType(t); itemType != "" {
		node.SetAttr("data-itemtype", itemType)
	}
	return c.Itemprop(node, name)
}

func (c *Context) faultPlaceholder(name string) *markup.Node {
	node := markup.Element("span").SetAttr("data-render-error", "true")
	return c.Itemprop(node, name)
}

func (c *Context) pathString(extra string) string {
	parts := make([]string, 0, len(c.path)+1)
	for _, part := range c.path {
		if part != "" && (len(parts) == 0 || parts[len(parts)-1] != part) {
			parts = append(parts, part)
		}
	}
	if extra != "" && (len(parts) == 0 || parts[len(parts)-1] != extra) {
		parts = append(parts, extra)
	}
	return strings.Join(parts, ".")
}
