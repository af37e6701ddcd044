package orchestrator_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/doctext"
	"github.com/goliatone/go-hypermedia/pkg/markup"
	pkgopenapi "github.com/goliatone/go-hypermedia/pkg/openapi"
	"github.com/goliatone/go-hypermedia/pkg/orchestrator"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/route"
	"github.com/goliatone/go-hypermedia/pkg/testsupport"
)

const petstorePath = "../../internal/openapi/testdata/petstore.yaml"

func recordsProvider() route.Static {
	return route.Static{testsupport.RecordsGroup()}
}

func actionIDs(page orchestrator.Page) []string {
	var ids []string
	for _, group := range page.Index.Groups {
		for _, action := range group.Actions {
			if action.Group == "" {
				action.Group = group.Name
			}
			ids = append(ids, action.ID())
		}
	}
	return ids
}

func TestGenerate_FromProvider(t *testing.T) {
	gen := orchestrator.New(
		orchestrator.WithProvider(recordsProvider()),
		orchestrator.WithRenderDefaults(render.WithTitle("Records")),
	)

	out, err := gen.Generate(context.Background(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		`<title>Records</title>`,
		`<section id="records" itemscope=""`,
		`<a href="/records" rel="list" data-method="GET" data-templated="false" title="List records" itemprop="action">list</a>`,
		`<form id="records.create" name="create" method="POST" action="/records" data-templated="false"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestBuild_FromDocument(t *testing.T) {
	raw, err := os.ReadFile(petstorePath)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile(petstorePath), raw)

	local := doctext.NewStore()
	local.Set(doctext.ActionKey("pets", "listPets"), doctext.Plain("Local wins."))

	gen := orchestrator.New(orchestrator.WithDescriptions(local))
	page, err := gen.Build(context.Background(), orchestrator.Request{Document: &doc})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if page.Index.Title != "Petstore" || page.Index.Version != "1.2.0" {
		t.Fatalf("unexpected index info %+v", page.Index)
	}
	if got := page.Document.Find(markup.ByTag("title")).TextContent(); got != "Petstore" {
		t.Fatalf("expected document title from spec, got %q", got)
	}
	pets := page.Document.Find(markup.ByAttr("id", "pets"))
	if pets == nil {
		t.Fatalf("expected pets section: %s", page.Document.String())
	}
	if pets.Find(markup.ByTag("strong")) == nil {
		t.Fatalf("expected markdown group description: %s", pets.String())
	}
	list := page.Document.Find(markup.ByAttr("id", "pets.listPets"))
	if list == nil || !strings.Contains(list.String(), "Local wins.") {
		t.Fatalf("expected local description to take precedence: %v", list)
	}
	if page.Charset != render.DefaultCharset {
		t.Fatalf("unexpected charset %q", page.Charset)
	}
}

func TestBuild_Subset(t *testing.T) {
	gen := orchestrator.New(orchestrator.WithProvider(recordsProvider()))

	tests := []struct {
		name   string
		subset orchestrator.Subset
		want   []string
	}{
		{name: "everything", want: []string{"records.list", "records.show", "records.search", "records.create"}},
		{name: "actions", subset: orchestrator.Subset{Actions: []string{"records.s*"}}, want: []string{"records.show", "records.search"}},
		{name: "exclude wins", subset: orchestrator.Subset{Actions: []string{"records.s*"}, Exclude: []string{"*.show"}}, want: []string{"records.search"}},
		{name: "methods", subset: orchestrator.Subset{Methods: []string{"post"}}, want: []string{"records.create"}},
		{name: "unknown group", subset: orchestrator.Subset{Groups: []string{"users"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := gen.Build(context.Background(), orchestrator.Request{Subset: tt.subset})
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if diff := cmp.Diff(tt.want, actionIDs(page)); diff != "" {
				t.Fatalf("actions mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := gen.Build(context.Background(), orchestrator.Request{Subset: orchestrator.Subset{Groups: []string{"["}}})
	if err == nil {
		t.Fatalf("expected bad pattern error")
	}
}

func TestBuild_OverridesDoNotMutateProvider(t *testing.T) {
	provider := recordsProvider()
	gen := orchestrator.New(
		orchestrator.WithProvider(provider),
		orchestrator.WithActionOverrides(
			orchestrator.ActionOverride{Action: "records.show", Hidden: true},
			orchestrator.ActionOverride{Action: "records.list", Summary: "Browse", Method: "head"},
			orchestrator.ActionOverride{Action: "records.missing", Summary: "ignored"},
		),
	)

	for i := 0; i < 2; i++ {
		page, err := gen.Build(context.Background(), orchestrator.Request{})
		if err != nil {
			t.Fatalf("build %d: %v", i, err)
		}
		if diff := cmp.Diff([]string{"records.list", "records.search", "records.create"}, actionIDs(page)); diff != "" {
			t.Fatalf("build %d mismatch (-want +got):\n%s", i, diff)
		}
		list, _ := page.Index.Groups[0].Action("list")
		if list.Summary != "Browse" || list.Verb() != "HEAD" {
			t.Fatalf("override not applied: %+v", list)
		}
	}
	if got := len(provider[0].Actions); got != 4 {
		t.Fatalf("provider groups were mutated, %d actions left", got)
	}
}

func TestNew_InvalidOverrides(t *testing.T) {
	tests := []orchestrator.ActionOverride{
		{Action: "list"},
		{Action: "records.list", Method: "FETCH"},
		{Action: "records.list", Template: "/records/{id"},
	}
	for _, override := range tests {
		gen := orchestrator.New(orchestrator.WithProvider(recordsProvider()), orchestrator.WithActionOverrides(override))
		if _, err := gen.Build(context.Background(), orchestrator.Request{}); err == nil {
			t.Fatalf("expected error for override %+v", override)
		}
	}
}

func TestJSONPresetTransformer(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.json":     {Data: []byte(`{"actions": {"records.list": {"method": "FETCH"}}}`)},
		"unknown.json": {Data: []byte(`{"actions": {"records.nope": {"summary": "x"}}}`)},
	}
	preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS("testdata"), "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	gen := orchestrator.New(orchestrator.WithProvider(recordsProvider()), orchestrator.WithTransformer(preset))
	page, err := gen.Build(context.Background(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if page.Index.Title != "Records API" {
		t.Fatalf("unexpected title %q", page.Index.Title)
	}
	if diff := cmp.Diff([]string{"archive.list", "archive.show", "archive.create"}, actionIDs(page)); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	section := page.Document.Find(markup.ByAttr("id", "archive"))
	if section == nil || !strings.Contains(section.TextContent(), "Stored records.") {
		t.Fatalf("expected renamed group with description: %s", page.Document.String())
	}

	if _, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, "bad.json"); err == nil {
		t.Fatalf("expected invalid method error")
	}
	unknown, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, "unknown.json")
	if err != nil {
		t.Fatalf("load unknown preset: %v", err)
	}
	gen = orchestrator.New(orchestrator.WithProvider(recordsProvider()), orchestrator.WithTransformer(unknown))
	if _, err := gen.Build(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected unknown action error")
	}
	if _, err := orchestrator.NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestGenerate_FormatsAndErrors(t *testing.T) {
	gen := orchestrator.New(orchestrator.WithProvider(recordsProvider()))
	ctx := context.Background()

	out, err := gen.Generate(ctx, orchestrator.Request{Format: orchestrator.FormatXHTML})
	if err != nil {
		t.Fatalf("xhtml: %v", err)
	}
	if !strings.HasPrefix(string(out), "<?xml") {
		t.Fatalf("expected xml declaration, got %.60q", out)
	}

	if _, err := gen.Generate(ctx, orchestrator.Request{Format: "pdf"}); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if _, err := orchestrator.New().Build(ctx, orchestrator.Request{}); err == nil {
		t.Fatalf("expected missing source error")
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := gen.Build(canceled, orchestrator.Request{}); err == nil {
		t.Fatalf("expected context error")
	}
}
