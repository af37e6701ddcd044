package render_test

import (
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
)

func TestEngine_RenderAssemblesDocument(t *testing.T) {
	engine := newTestEngine(t, render.WithDefaults(render.WithTitle("Points")))

	doc, err := engine.Render("hello", nil,
		render.WithLang("fr"),
		render.WithStylesheet("/assets/site.css"),
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `<!DOCTYPE html><html lang="fr"><head>` +
		`<meta charset="utf-8"/><title>Points</title>` +
		`<link rel="stylesheet" href="/assets/site.css"/>` +
		`</head><body><span>hello</span></body></html>`
	if diff := cmp.Diff(want, doc.String()); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_HeadNodesAreClonedPerCall(t *testing.T) {
	script := markup.Element("script").SetAttr("src", "/app.js")
	engine := newTestEngine(t, render.WithDefaults(render.WithHead(script)))

	for i := 0; i < 2; i++ {
		doc, err := engine.Render("x", nil)
		if err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		if got := len(doc.FindAll(markup.ByTag("script"))); got != 1 {
			t.Fatalf("render %d: expected one injected script, got %d", i, got)
		}
	}
	if script.Parent() != nil {
		t.Fatalf("configured head node must not be attached to a document")
	}
}

func TestEngine_ThemeHeadContent(t *testing.T) {
	engine := newTestEngine(t)
	doc, err := engine.Render("x", nil, render.WithTheme(&theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--brand": "#123456", "accent": "#fff"},
		AssetURL: func(key string) string {
			return "/themes/acme/" + key
		},
	}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	link := doc.Find(markup.ByAttr("rel", "stylesheet"))
	if got := attr(t, link, "href"); got != "/themes/acme/"+render.ThemeStylesheetKey {
		t.Fatalf("unexpected theme stylesheet %q", got)
	}
	style := doc.Find(markup.ByTag("style"))
	if style == nil {
		t.Fatalf("expected theme style element: %s", doc.String())
	}
	if got := style.TextContent(); got != ":root{--brand:#123456;--accent:#fff;}" {
		t.Fatalf("unexpected css vars %q", got)
	}
	if got := attr(t, style, "data-theme-variant"); got != "dark" {
		t.Fatalf("unexpected variant %q", got)
	}
}

func TestEngine_RenderOfUsesStaticType(t *testing.T) {
	engine := newTestEngine(t)

	doc, err := render.RenderOf[*Point](engine, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := doc.Find(markup.ByTag("body"))
	if got := body.Children()[0].String(); got != `<dl itemscope="" data-null="true"></dl>` {
		t.Fatalf("unexpected null body %q", got)
	}
}

func TestEngine_PropertyNamePolicy(t *testing.T) {
	engine := newTestEngine(t)

	nodes, err := engine.Fragment(Audit{CreatedBy: "ana"}, nil, render.WithPropertyNames(render.SnakeCase))
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if nodes[0].Find(markup.ByItemprop("created_by")) == nil {
		t.Fatalf("expected snake case itemprop: %s", nodes[0].String())
	}
}

func TestEngine_NamespaceItemType(t *testing.T) {
	engine := newTestEngine(t)

	nodes, err := engine.Fragment(Point{}, nil, render.WithItemType(render.NamespaceItemType("https://schema.example.com/")))
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if got := attr(t, nodes[0], "itemtype"); got != "https://schema.example.com/Point" {
		t.Fatalf("unexpected itemtype %q", got)
	}
}

func TestEngine_EncodeCharset(t *testing.T) {
	engine := newTestEngine(t)

	doc, err := engine.Render("café", nil, render.WithCharset("iso-8859-1"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var buf strings.Builder
	if err := markup.Encode(&buf, doc, "iso-8859-1"); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), "caf\xe9") {
		t.Fatalf("expected latin-1 bytes, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `<meta charset="iso-8859-1"/>`) {
		t.Fatalf("expected announced charset, got %q", buf.String())
	}
}
