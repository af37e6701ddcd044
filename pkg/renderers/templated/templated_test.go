package templated_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/render/template/gotemplate"
	"github.com/goliatone/go-hypermedia/pkg/renderers/builtin"
	"github.com/goliatone/go-hypermedia/pkg/renderers/templated"
	"github.com/goliatone/go-hypermedia/pkg/testsupport"
)

type Badge struct {
	Label string
	Level int
}

type Profile struct {
	Name  string
	Badge Badge
	Spare *Badge
}

func newEngine(t *testing.T, files fstest.MapFS) *render.Engine {
	t.Helper()
	templates, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("template engine: %v", err)
	}
	registry := builtin.NewRegistry()
	if err := templated.Register(registry, templates, templated.Bind[Badge]("badge")); err != nil {
		t.Fatalf("register: %v", err)
	}
	return render.New(render.WithRegistry(registry), render.WithDefaults(render.WithItemType(render.NamespaceItemType("https://schema.example.com"))))
}

func TestTemplated_NestedItemprop(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{
		"badge.tpl": {Data: []byte(`<mark class="level-{{ value.Level }}" data-itemtype="{{ itemtype }}">{{ value.Label }}</mark>`)},
	})

	nodes, err := engine.Fragment(Profile{Name: "Ada", Badge: Badge{Label: "<gold>", Level: 3}}, nil)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}

	want := `<dl itemscope="" itemtype="https://schema.example.com/Profile">` +
		`<dt>Name</dt><dd><span itemprop="name">Ada</span></dd>` +
		`<dt>Badge</dt><dd><mark class="level-3" data-itemtype="https://schema.example.com/Badge" itemprop="badge">&lt;gold&gt;</mark></dd>` +
		`<dt>Spare</dt><dd><div data-null="true" itemprop="spare"></div></dd>` +
		`</dl>`
	if diff := cmp.Diff(want, testsupport.MarkupString(nodes)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplated_TemplateErrorIsIsolated(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{
		"badge.tpl": {Data: []byte(`{{ value.Label|no_such_filter }}`)},
	})

	result, err := engine.Execute(Profile{Name: "Ada"}, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(result.Faults) != 1 || result.Faults[0].Renderer != "templated:badge" {
		t.Fatalf("expected one templated fault, got %+v", result.Faults)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := templated.New(nil); err == nil {
		t.Fatalf("expected error for nil engine")
	}
	templates, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("template engine: %v", err)
	}
	if _, err := templated.New(templates, templated.Binding{Template: "x"}); err == nil {
		t.Fatalf("expected error for binding without type")
	}
}
