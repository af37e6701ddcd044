// Package templated renders registered types through named templates. The
// template output is parsed back into markup so it nests like any other
// renderer output, and its first element receives the itemprop.
package templated

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/render/template"
)

// Binding maps a type to the template that renders it.
type Binding struct {
	Type     reflect.Type
	Template string
	// NullTag is the element emitted for null values, "div" when empty.
	NullTag string
}

// Bind is shorthand for Binding{Type: TypeOf[T](), Template: name}.
func Bind[T any](name string) Binding {
	return Binding{Type: render.TypeOf[T](), Template: name}
}

// Renderer renders one bound type.
type Renderer struct {
	engine  template.Renderer
	binding Binding
}

// New builds one renderer per binding.
func New(engine template.Renderer, bindings ...Binding) ([]render.Renderer, error) {
	if engine == nil {
		return nil, fmt.Errorf("templated: template engine is required")
	}
	out := make([]render.Renderer, 0, len(bindings))
	for _, binding := range bindings {
		if binding.Type == nil || binding.Template == "" {
			return nil, fmt.Errorf("templated: binding needs a type and a template name")
		}
		if binding.NullTag == "" {
			binding.NullTag = "div"
		}
		out = append(out, Renderer{engine: engine, binding: binding})
	}
	return out, nil
}

// Register builds the renderers and appends them to registry.
func Register(registry *render.Registry, engine template.Renderer, bindings ...Binding) error {
	renderers, err := New(engine, bindings...)
	if err != nil {
		return err
	}
	for _, renderer := range renderers {
		if err := registry.Register(renderer); err != nil {
			return fmt.Errorf("templated: register: %w", err)
		}
	}
	return nil
}

func (r Renderer) Name() string { return "templated:" + r.binding.Template }

func (r Renderer) Supports(t reflect.Type) bool {
	return render.Exact(r.binding.Type)(t)
}

// Render executes the template with value, prop, itemtype and depth in scope.
func (r Renderer) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	if prop.IsNull() {
		return []*markup.Node{ctx.Null(r.binding.NullTag, prop.Name)}, nil
	}
	value := prop.Value
	for value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	if !value.CanInterface() {
		return []*markup.Node{ctx.Null(r.binding.NullTag, prop.Name)}, nil
	}

	out, err := r.engine.RenderTemplate(r.binding.Template, map[string]any{
		"value":    value.Interface(),
		"prop":     prop.Name,
		"itemtype": ctx.ItemType(prop.Type),
		"depth":    ctx.Depth(),
	})
	if err != nil {
		return nil, fmt.Errorf("templated: %s: %w", r.binding.Template, err)
	}
	nodes, err := markup.ParseFragment(out)
	if err != nil {
		return nil, fmt.Errorf("templated: %s: %w", r.binding.Template, err)
	}
	for _, node := range nodes {
		if node.IsElement() {
			ctx.Itemprop(node, prop.Name)
			break
		}
	}
	return nodes, nil
}
