package builtin

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
)

// DisplayString renders the listed types as a <span> holding their display
// text (fmt.Stringer, error, numbers and the other conversions spf13/cast
// understands). Only explicitly listed types get this treatment; anything
// else keeps its structural rendering.
func DisplayString(types ...reflect.Type) render.Renderer {
	matchers := make([]render.Matcher, 0, len(types))
	for _, typ := range types {
		if typ != nil {
			matchers = append(matchers, render.Exact(typ))
		}
	}
	return displayString{match: render.AnyOf(matchers...)}
}

type displayString struct {
	match render.Matcher
}

func (displayString) Name() string { return "display-string" }

func (d displayString) Supports(t reflect.Type) bool {
	return d.match(t)
}

func (displayString) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	if prop.IsNull() {
		return single(ctx.Null("span", prop.Name))
	}
	value := prop.Interface()
	if value == nil {
		return nil, fmt.Errorf("builtin: display-string: %s is not readable", prop.Type)
	}
	text, err := cast.ToStringE(value)
	if err != nil {
		return nil, fmt.Errorf("builtin: display-string: %w", err)
	}
	node := ctx.Itemprop(markup.Element("span"), prop.Name)
	return single(node.Append(markup.Text(text)))
}
