package gotemplate_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-hypermedia/pkg/render/template/gotemplate"
)

type card struct {
	Title string
	Tags  []string
}

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	files := fstest.MapFS{
		"card.tpl":   {Data: []byte(`<article><h3>{{ value.Title }}</h3>{% for tag in value.Tags %}<i>{{ tag }}</i>{% endfor %}</article>`)},
		"global.tpl": {Data: []byte(`{{ site }}:{{ data }}`)},
		"prop.tpl":   {Data: []byte(`{{ "CreatedAt"|itemprop }} {{ "  x  "|trim }}`)},
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var out strings.Builder
	got, err := engine.RenderTemplate("card", map[string]any{
		"value": card{Title: "Fish & chips", Tags: []string{"a", "b"}},
	}, &out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<article><h3>Fish &amp; chips</h3><i>a</i><i>b</i></article>`
	if got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
	if out.String() != want {
		t.Fatalf("writer mismatch\nwant: %q\n got: %q", want, out.String())
	}
}

func TestEngine_GlobalsAndNonMapData(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobals(map[string]any{"site": "docs"}))

	got, err := engine.RenderTemplate("global.tpl", 42)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "docs:42" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_DefaultFilters(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderTemplate("prop", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "createdAt x" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	shout := func(input any, _ any) (any, error) {
		if input == nil {
			return nil, errors.New("nothing to shout")
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	}
	if err := engine.RegisterFilter("hypermedia_shout", shout); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("hypermedia_shout", shout); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	got, err := engine.RenderString(`{{ name|hypermedia_shout }}`, map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}
