package render

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-hypermedia/pkg/markup"
)

// Renderer turns one property value into markup. Supports declares the set of
// types the renderer handles and doubles as its registry predicate when
// registered through Registry.Register. Render must accept null properties
// (Property.IsNull) and emit an explicit empty shape for them.
type Renderer interface {
	Supports(t reflect.Type) bool
	Render(ctx *Context, prop Property) ([]*markup.Node, error)
}

// Namer is implemented by renderers that want a stable name in registry
// diagnostics and fault reports.
type Namer interface {
	Name() string
}

// Property is the unit handed to a renderer: the attribute name the output
// should be tagged with, the type the registry resolved on and the value.
// An invalid Value means the property is null for the declared Type.
type Property struct {
	Name  string
	Type  reflect.Type
	Value reflect.Value
}

// IsNull reports whether the property carries no value.
func (p Property) IsNull() bool {
	if !p.Value.IsValid() {
		return true
	}
	switch p.Value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return p.Value.IsNil()
	}
	return false
}

// Interface returns the underlying value or nil for null properties and
// values that cannot be read through reflection.
func (p Property) Interface() any {
	if !p.Value.IsValid() || !p.Value.CanInterface() {
		return nil
	}
	return p.Value.Interface()
}

// RendererFunc adapts a function to Renderer. It supports every type, so it is
// normally registered with an explicit Matcher through RegisterFunc.
type RendererFunc func(ctx *Context, prop Property) ([]*markup.Node, error)

func (f RendererFunc) Supports(reflect.Type) bool { return true }

func (f RendererFunc) Render(ctx *Context, prop Property) ([]*markup.Node, error) {
	return f(ctx, prop)
}

func rendererName(r Renderer) string {
	if r == nil {
		return "<nil>"
	}
	if named, ok := r.(Namer); ok {
		if name := named.Name(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%T", r)
}
