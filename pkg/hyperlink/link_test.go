package hyperlink_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/hyperlink"
	"github.com/goliatone/go-hypermedia/pkg/markup"
)

func TestNew_AttributesKeepOrder(t *testing.T) {
	link := hyperlink.New("/todos/1", "Todo 1",
		hyperlink.WithAttr("data-id", "1"),
		hyperlink.WithRel("item"),
		hyperlink.WithRel("self"),
		hyperlink.WithRel("item"),
		hyperlink.WithAttr("data-id", "2"),
		hyperlink.WithAttr("href", "/ignored"),
	)

	want := []markup.Attr{
		{Name: "data-id", Value: "2"},
		{Name: "rel", Value: "item self"},
	}
	if diff := cmp.Diff(want, link.Attrs()); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}
	if link.Href() != "/todos/1" || link.Body() != "Todo 1" || link.Rel() != "item self" {
		t.Fatalf("unexpected link %+v", link)
	}
}

func TestLink_WithDoesNotMutate(t *testing.T) {
	base := hyperlink.New("/", "", hyperlink.WithRel("index"))
	derived := base.With(hyperlink.WithTitle("Home"))

	if base.Attr("title") != "" {
		t.Fatalf("base link mutated")
	}
	if derived.Attr("title") != "Home" || derived.Rel() != "index" {
		t.Fatalf("unexpected derived link %+v", derived.Attrs())
	}
	if base.Body() != "/" {
		t.Fatalf("empty body should display the target, got %q", base.Body())
	}
}
