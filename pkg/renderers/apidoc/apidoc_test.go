package apidoc_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/doctext"
	"github.com/goliatone/go-hypermedia/pkg/inputs"
	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/renderers/apidoc"
	"github.com/goliatone/go-hypermedia/pkg/renderers/builtin"
	"github.com/goliatone/go-hypermedia/pkg/route"
	"github.com/goliatone/go-hypermedia/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...apidoc.Option) *render.Engine {
	t.Helper()
	registry := builtin.NewRegistry()
	if err := apidoc.Register(registry, opts...); err != nil {
		t.Fatalf("register apidoc: %v", err)
	}
	return render.New(render.WithRegistry(registry))
}

func renderAction(t *testing.T, engine *render.Engine, action route.Action) string {
	t.Helper()
	nodes, err := engine.Fragment(action, nil)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	return testsupport.MarkupString(nodes)
}

func TestAction_ZeroParametersRendersLink(t *testing.T) {
	engine := newEngine(t)

	action := route.Action{
		Group:    "records",
		Name:     "list",
		Template: "/records",
		Summary:  "List records",
		Parameters: []route.Parameter{
			{Name: "Authorization", Source: route.SourceHeader},
			{Name: "logger", Source: route.SourceIgnored},
		},
	}
	want := `<a href="/records" rel="list" data-method="GET" data-templated="false" title="List records">list</a>`
	if diff := cmp.Diff(want, renderAction(t, engine, action)); diff != "" {
		t.Fatalf("link mismatch (-want +got):\n%s", diff)
	}

	action = route.Action{Name: "show", Template: "/records/{id}"}
	want = `<a href="/records/{id}" rel="show" data-method="GET" data-templated="true">show</a>`
	if diff := cmp.Diff(want, renderAction(t, engine, action)); diff != "" {
		t.Fatalf("templated link mismatch (-want +got):\n%s", diff)
	}
}

func TestAction_QueryParameterRendersForm(t *testing.T) {
	engine := newEngine(t)

	for _, required := range []bool{false, true} {
		action := route.Action{
			Group:    "records",
			Name:     "find",
			Template: "/records",
			Parameters: []route.Parameter{
				{Name: "id", Source: route.SourceQuery, Required: required},
			},
		}
		nodes, err := engine.Fragment(action, nil)
		if err != nil {
			t.Fatalf("fragment: %v", err)
		}
		form := nodes[0]
		if form.Tag() != "form" {
			t.Fatalf("expected a form, got %s", form.String())
		}

		var named []*markup.Node
		for _, input := range form.FindAll(markup.ByTag("input")) {
			if input.HasAttr("name") && !hasAttrValue(input, "type", "hidden") && !hasAttrValue(input, "type", "submit") {
				named = append(named, input)
			}
		}
		if len(named) != 1 {
			t.Fatalf("expected exactly one parameter input, got %d: %s", len(named), form.String())
		}
		input := named[0]
		checks := map[string]string{
			"name":                    "id",
			"data-calling-convention": "query-string",
			"data-required":           map[bool]string{true: "true", false: "false"}[required],
		}
		for name, want := range checks {
			if got, _ := input.Attr(name); got != want {
				t.Fatalf("required=%v: %s = %q, want %q", required, name, got, want)
			}
		}
		if input.HasAttr("required") != required {
			t.Fatalf("required=%v: unexpected required attribute on %s", required, input.String())
		}
	}

	action := route.Action{
		Group:      "records",
		Name:       "find",
		Template:   "/records",
		Parameters: []route.Parameter{{Name: "id", Source: route.SourceQuery}},
	}
	want := `<form id="records.find" name="find" method="GET" action="/records" data-templated="false">` +
		`<label for="records.find-id">id</label>` +
		`<input id="records.find-id" name="id" type="text" data-required="false" data-calling-convention="query-string"/>` +
		`<input type="submit" value="find"/></form>`
	if diff := cmp.Diff(want, renderAction(t, engine, action)); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestAction_TemplatedMarker(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		template string
		want     string
	}{
		{template: "/records/{id}", want: "true"},
		{template: "/records{?page}", want: "true"},
		{template: "/records", want: "false"},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			action := route.Action{
				Name:       "update",
				Method:     "put",
				Template:   tt.template,
				Parameters: []route.Parameter{{Name: "id", Source: route.SourcePath, Required: true}},
			}
			nodes, err := engine.Fragment(action, nil)
			if err != nil {
				t.Fatalf("fragment: %v", err)
			}
			if got, _ := nodes[0].Attr("data-templated"); got != tt.want {
				t.Fatalf("data-templated = %q, want %q", got, tt.want)
			}
			if got, _ := nodes[0].Attr("method"); got != "PUT" {
				t.Fatalf("method = %q, want PUT", got)
			}
		})
	}
}

func TestAction_MalformedTemplateAbortsRender(t *testing.T) {
	engine := newEngine(t)

	broken := route.Action{Group: "records", Name: "show", Template: "/records/{id"}
	_, err := engine.Fragment(broken, nil)
	if !errors.Is(err, route.ErrMalformedTemplate) {
		t.Fatalf("expected ErrMalformedTemplate, got %v", err)
	}

	group := route.Group{Name: "records", Actions: []route.Action{broken}}
	if _, err := engine.Render(group, nil); !render.IsConfigurationError(err) {
		t.Fatalf("nested malformed template must propagate, got %v", err)
	}
}

func TestGroup_Golden(t *testing.T) {
	docs := doctext.NewStore()
	docs.Set(doctext.GroupKey("records"), doctext.Markdown("Stored **records**."))
	docs.Set(doctext.ParameterKey("records", "search", "q"), doctext.Plain("Free text query."))

	engine := newEngine(t,
		apidoc.WithDescriptions(docs),
		apidoc.WithHiddenFields(apidoc.CSRFToken("_csrf", "stale"), apidoc.CSRFToken("_csrf", "tok")),
	)

	nodes, err := engine.Fragment(testsupport.RecordsGroup(), nil)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	testsupport.AssertGoldenMarkup(t, "testdata/records_group.golden.html", testsupport.MarkupString(nodes))
}

func TestGroup_DescriptionFaultIsIsolated(t *testing.T) {
	broken := doctext.ProviderFunc(func(key doctext.Key) (doctext.Text, bool) {
		return doctext.Text{Source: "x", Format: "rtf"}, key == doctext.GroupKey("records")
	})
	engine := newEngine(t, apidoc.WithDescriptions(broken))

	result, err := engine.Execute([]route.Group{testsupport.RecordsGroup()}, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(result.Faults) != 1 || result.Faults[0].Renderer != "apidoc.group" {
		t.Fatalf("expected one isolated group fault, got %+v", result.Faults)
	}
	if result.Document.Find(markup.ByAttr("data-render-error", "true")) == nil {
		t.Fatalf("expected error placeholder: %s", result.Document.String())
	}
}

func TestNullRouteValues(t *testing.T) {
	engine := newEngine(t)

	nodes, err := engine.Fragment(nil, reflect.TypeOf((*route.Action)(nil)))
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if got := testsupport.MarkupString(nodes); got != `<a data-null="true"></a>` {
		t.Fatalf("unexpected null action %q", got)
	}

	nodes, err = engine.Fragment(nil, reflect.TypeOf(route.Group{}))
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if got := testsupport.MarkupString(nodes); got != `<section data-null="true"></section>` {
		t.Fatalf("unexpected null group %q", got)
	}
}

func TestAction_InputKindsAndOptions(t *testing.T) {
	kinds := inputs.NewRegistry()
	kinds.Register("color", 100, func(param route.Parameter) bool { return param.Format == "color" })
	engine := newEngine(t, apidoc.WithInputs(kinds), apidoc.WithSubmitLabel("Send"))

	action := route.Action{
		Group:    "pets",
		Name:     "create",
		Method:   "POST",
		Template: "/pets",
		Parameters: []route.Parameter{
			{Name: "species", Source: route.SourceBody, Enum: []string{"cat", "dog"}, Default: "dog"},
			{Name: "photo", Source: route.SourceBody, Schema: "string", Format: "binary"},
			{Name: "collar", Source: route.SourceBody, Format: "color", Default: "#ff0000"},
		},
	}
	nodes, err := engine.Fragment(action, nil)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	form := nodes[0]

	if got, _ := form.Attr("enctype"); got != "multipart/form-data" {
		t.Fatalf("file inputs need a multipart form, got %q", got)
	}
	selected := form.Find(markup.ByAttr("selected", ""))
	if selected == nil || selected.TextContent() != "dog" {
		t.Fatalf("expected dog to be selected: %s", form.String())
	}
	if photo := form.Find(markup.ByAttr("name", "photo")); !hasAttrValue(photo, "type", "file") {
		t.Fatalf("binary parameter should be a file input: %s", photo.String())
	}
	collar := form.Find(markup.ByAttr("name", "collar"))
	if !hasAttrValue(collar, "type", "color") || !hasAttrValue(collar, "value", "#ff0000") {
		t.Fatalf("custom kind or default missing: %s", collar.String())
	}
	if submit := form.Find(markup.ByAttr("type", "submit")); !hasAttrValue(submit, "value", "Send") {
		t.Fatalf("submit label not applied: %s", form.String())
	}
}

func TestRegister_RequiresRegistry(t *testing.T) {
	if err := apidoc.Register(nil); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}

func hasAttrValue(node *markup.Node, name, value string) bool {
	if node == nil {
		return false
	}
	got, ok := node.Attr(name)
	return ok && got == value
}
