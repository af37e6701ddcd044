package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/renderers/builtin"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Environ: []string{}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Lang:          "en",
		Charset:       "utf-8",
		PropertyNames: "lower-camel",
		TimeLayout:    render.DefaultTimeLayout,
		Format:        "html",
		UntaggedGroup: "default",
		HTTPTimeout:   10 * time.Second,
		Docs:          DocsConfig{HeadingLevel: 2},
		Server:        ServerConfig{Addr: ":8080", ReadTimeout: 5 * time.Second, WriteTimeout: 10 * time.Second},
		Log:           LogConfig{Level: "info", Format: "console"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Layers(t *testing.T) {
	cfg, err := Load(LoadOptions{
		File: filepath.Join("testdata", "site.yaml"),
		Environ: []string{
			"HYPERMEDIA_SERVER__ADDR=:7000",
			"HYPERMEDIA_SCRIPTS=/a.js,/b.js",
			"OTHER_TITLE=ignored",
		},
		Overrides: map[string]any{"title": "Flags"},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Title != "Flags" {
		t.Fatalf("overrides should win, got %q", cfg.Title)
	}
	if cfg.Server.Addr != ":7000" {
		t.Fatalf("env should override file, got %q", cfg.Server.Addr)
	}
	if diff := cmp.Diff([]string{"/a.js", "/b.js"}, cfg.Scripts); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}
	if cfg.PropertyNames != "snake" || cfg.Docs.HeadingLevel != 3 || cfg.Docs.CSRFField != "_csrf" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("defaults should survive partial sections, got %v", cfg.Server.ReadTimeout)
	}
}

func TestLoad_TOML(t *testing.T) {
	cfg, err := Load(LoadOptions{File: filepath.Join("testdata", "site.toml"), Environ: []string{}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Title != "Shop TOML" || cfg.Format != "xhtml" || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	ini := filepath.Join(dir, "site.ini")
	if err := os.WriteFile(ini, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []LoadOptions{
		{File: ini},
		{File: filepath.Join(dir, "missing.yaml")},
		{Environ: []string{"HYPERMEDIA_FORMAT=pdf"}},
		{Environ: []string{}, Overrides: map[string]any{"docs.heading_level": 9}},
		{Environ: []string{}, Overrides: map[string]any{"log.format": "xml"}},
	}
	for _, opts := range tests {
		if _, err := Load(opts); err == nil {
			t.Fatalf("expected error for %+v", opts)
		}
	}
}

func TestConfig_RenderOptions(t *testing.T) {
	cfg, err := Load(LoadOptions{File: filepath.Join("testdata", "site.yaml"), Environ: []string{}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.ItemTypeNamespace = "https://schema.example.com/"
	options, err := cfg.RenderOptions()
	if err != nil {
		t.Fatalf("render options: %v", err)
	}

	type Order struct{ OrderID int }
	engine := render.New(render.WithRegistry(builtin.NewRegistry()))
	doc, err := engine.Render(Order{OrderID: 7}, nil, options...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.Find(markup.ByItemprop("order_id")) == nil {
		t.Fatalf("expected snake case itemprop: %s", doc.String())
	}
	if doc.Find(markup.ByAttr("href", "/assets/site.css")) == nil {
		t.Fatalf("expected stylesheet: %s", doc.String())
	}
	if got, _ := doc.Find(markup.ByAttr("itemscope", "")).Attr("itemtype"); got != "https://schema.example.com/Order" {
		t.Fatalf("unexpected itemtype %q", got)
	}

	cfg.PropertyNames = "shouting"
	if _, err := cfg.RenderOptions(); err == nil {
		t.Fatalf("expected unknown policy error")
	}
}

func TestConfig_DocOptions(t *testing.T) {
	cfg := Config{Docs: DocsConfig{HeadingLevel: 3, SubmitLabel: "Send", CSRFField: "_csrf"}}
	if got := len(cfg.DocOptions("")); got != 2 {
		t.Fatalf("expected heading and submit options without token, got %d", got)
	}
	if got := len(cfg.DocOptions("tok")); got != 3 {
		t.Fatalf("expected csrf option with token, got %d", got)
	}
}
