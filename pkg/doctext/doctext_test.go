package doctext

import (
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/markup"
)

func TestKey_StringAndParse(t *testing.T) {
	cases := []struct {
		raw string
		key Key
	}{
		{raw: "pets", key: GroupKey("pets")},
		{raw: "pets.list", key: ActionKey("pets", "list")},
		{raw: "pets.list.limit", key: ParameterKey("pets", "list", "limit")},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			if got := tc.key.String(); got != tc.raw {
				t.Fatalf("String() = %q, want %q", got, tc.raw)
			}
			parsed, err := ParseKey(tc.raw)
			if err != nil {
				t.Fatalf("ParseKey: %v", err)
			}
			if diff := cmp.Diff(tc.key, parsed); diff != "" {
				t.Fatalf("key mismatch (-want +got):\n%s", diff)
			}
		})
	}

	for _, bad := range []string{"", "a..b", "a.b.c.d"} {
		if _, err := ParseKey(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestText_Nodes(t *testing.T) {
	cases := []struct {
		name string
		text Text
		want string
	}{
		{name: "plain", text: Plain("  Lists pets.  "), want: `<p>Lists pets.</p>`},
		{name: "plain escapes", text: Plain("a < b"), want: `<p>a &lt; b</p>`},
		{name: "markdown", text: Markdown("Lists **pets**."), want: `<p>Lists <strong>pets</strong>.</p>`},
		{name: "html sanitised", text: HTML(`<p onclick="x()">Hi<script>alert(1)</script></p>`), want: `<p>Hi</p>`},
		{name: "markdown blocks", text: Markdown("# Pets\n\nAll of them."), want: `<h1>Pets</h1><p>All of them.</p>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nodes, err := tc.text.Nodes()
			if err != nil {
				t.Fatalf("nodes: %v", err)
			}
			if diff := cmp.Diff(tc.want, join(nodes)); diff != "" {
				t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
			}
		})
	}

	nodes, err := Plain("   ").Nodes()
	if err != nil || nodes != nil {
		t.Fatalf("expected no nodes for blank text, got %v, %v", nodes, err)
	}
	if _, err := (Text{Source: "x", Format: "rtf"}).Nodes(); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestChainAndLookup(t *testing.T) {
	first := NewStore()
	first.Set(GroupKey("pets"), Plain(""))
	second := ProviderFunc(func(key Key) (Text, bool) {
		if key == GroupKey("pets") {
			return Plain("From fallback."), true
		}
		return Text{}, false
	})

	nodes, err := Lookup(Chain{nil, first, second}, GroupKey("pets"))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got := join(nodes); got != `<p>From fallback.</p>` {
		t.Fatalf("unexpected chain result %q", got)
	}

	nodes, err = Lookup(nil, GroupKey("pets"))
	if err != nil || nodes != nil {
		t.Fatalf("nil provider should yield nothing, got %v, %v", nodes, err)
	}
	if _, ok := (Chain{first}).Describe(ActionKey("pets", "list")); ok {
		t.Fatalf("missing key should not resolve")
	}
}

func TestLoadFS(t *testing.T) {
	store, err := LoadFS(os.DirFS("testdata/docs"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	wantKeys := []string{
		"orders", "orders.cancel", "orders.cancel.reason",
		"pets", "pets.create", "pets.list", "pets.list.limit",
	}
	var gotKeys []string
	for _, key := range store.Keys() {
		gotKeys = append(gotKeys, key.String())
	}
	if diff := cmp.Diff(wantKeys, gotKeys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	text, ok := store.Describe(ParameterKey("pets", "list", "limit"))
	if !ok || text.Format != FormatMarkdown {
		t.Fatalf("parameter should inherit file format, got %+v", text)
	}
	text, ok = store.Describe(ActionKey("pets", "create"))
	if !ok || text.Format != FormatHTML {
		t.Fatalf("action format override ignored, got %+v", text)
	}
	nodes, err := text.Nodes()
	if err != nil {
		t.Fatalf("nodes: %v", err)
	}
	if got := join(nodes); strings.Contains(got, "script") || !strings.Contains(got, "Adds a pet.") {
		t.Fatalf("unexpected sanitised html %q", got)
	}

	text, _ = store.Describe(GroupKey("orders"))
	if text.Format != FormatPlain {
		t.Fatalf("json file without format should be plain, got %q", text.Format)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name: "duplicate key",
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("groups:\n  pets:\n    description: one\n")},
				"b.yaml": {Data: []byte("groups:\n  pets:\n    description: two\n")},
			},
			want: "duplicate description",
		},
		{
			name:  "empty file",
			files: fstest.MapFS{"a.yml": {Data: []byte("  \n")}},
			want:  "is empty",
		},
		{
			name:  "bad format",
			files: fstest.MapFS{"a.yaml": {Data: []byte("format: rtf\ngroups: {}\n")}},
			want:  "unknown format",
		},
		{
			name:  "invalid document",
			files: fstest.MapFS{"a.json": {Data: []byte("groups: [")}},
			want:  "invalid JSON or YAML",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFS(tc.files)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	store, err := LoadFS(fstest.MapFS{"notes.txt": {Data: []byte("ignored")}})
	if err != nil || store.Len() != 0 {
		t.Fatalf("non-document files should be skipped, got %d, %v", store.Len(), err)
	}
}

func join(nodes []*markup.Node) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(node.String())
	}
	return b.String()
}
