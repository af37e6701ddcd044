package render_test

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// textRenderer renders strings as spans, enough to exercise structural
// renderers without the builtin package.
func textRenderer() render.Renderer {
	return render.RendererFunc(func(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
		if prop.IsNull() {
			return []*markup.Node{ctx.Null("span", prop.Name)}, nil
		}
		node := markup.Element("span", markup.Text(prop.Value.String()))
		return []*markup.Node{ctx.Itemprop(node, prop.Name)}, nil
	})
}

func newTestEngine(t *testing.T, extra ...render.Option) *render.Engine {
	t.Helper()
	registry := render.NewRegistry()
	if err := registry.RegisterFunc("text", render.Kinds(reflect.String), textRenderer()); err != nil {
		t.Fatalf("register text renderer: %v", err)
	}
	options := append([]render.Option{render.WithRegistry(registry)}, extra...)
	return render.New(options...)
}

func fragment(t *testing.T, engine *render.Engine, value any, declared reflect.Type) *markup.Node {
	t.Helper()
	nodes, err := engine.Fragment(value, declared)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected a single root node, got %d", len(nodes))
	}
	return nodes[0]
}

func attr(t *testing.T, node *markup.Node, name string) string {
	t.Helper()
	if node == nil {
		t.Fatalf("node is nil, wanted attribute %q", name)
	}
	value, ok := node.Attr(name)
	if !ok {
		t.Fatalf("<%s> has no %q attribute: %s", node.Tag(), name, node.String())
	}
	return value
}
