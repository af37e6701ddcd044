package builtin

import (
	"reflect"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
)

// Collection renders slices and arrays, except byte slices, as <ul>. Each
// element is dispatched on its runtime type.
type Collection struct{}

func (Collection) Name() string { return "collection" }

func (Collection) Supports(t reflect.Type) bool {
	if t == nil || t == bytesType {
		return false
	}
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

func (Collection) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	node, err := render.List(ctx, prop)
	if err != nil {
		return nil, err
	}
	return single(node)
}

// Map renders maps as a definition list with sorted keys.
type Map struct{}

func (Map) Name() string { return "map" }

func (Map) Supports(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Map
}

func (Map) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	node, err := render.Map(ctx, prop)
	if err != nil {
		return nil, err
	}
	return single(node)
}

// Nullable passes pointers and interfaces through to the renderer of the
// wrapped type. Absent values are dispatched as null of the element type so
// the target renderer emits its empty shape.
type Nullable struct{}

func (Nullable) Name() string { return "nullable" }

func (Nullable) Supports(t reflect.Type) bool {
	return t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface)
}

func (Nullable) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	if prop.Type.Kind() == reflect.Interface {
		if prop.IsNull() {
			return single(ctx.Null("span", prop.Name))
		}
		return ctx.Render(prop.Name, prop.Value.Elem(), nil)
	}
	if prop.IsNull() {
		return ctx.Render(prop.Name, reflect.Value{}, prop.Type.Elem())
	}
	return ctx.Render(prop.Name, prop.Value.Elem(), prop.Type.Elem())
}
