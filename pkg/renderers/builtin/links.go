package builtin

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/goliatone/go-hypermedia/pkg/hyperlink"
	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
)

var (
	urlType  = render.TypeOf[url.URL]()
	linkType = render.TypeOf[hyperlink.Link]()
)

// URL renders url.URL and *url.URL as an anchor whose body is the target.
type URL struct{}

func (URL) Name() string { return "url" }

func (URL) Supports(t reflect.Type) bool {
	return render.Exact(urlType)(t)
}

func (URL) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	value, ok := elem(prop)
	if !ok {
		return single(ctx.Null("a", prop.Name))
	}
	u, ok := value.Interface().(url.URL)
	if !ok {
		return nil, fmt.Errorf("builtin: url: unexpected %s", value.Type())
	}
	href := u.String()
	node := ctx.Itemprop(markup.Element("a"), prop.Name).SetAttr("href", href)
	return single(node.Append(markup.Text(href)))
}

// Hyperlink renders hyperlink.Link values. Every attribute on the link is
// copied onto the anchor.
type Hyperlink struct{}

func (Hyperlink) Name() string { return "hyperlink" }

func (Hyperlink) Supports(t reflect.Type) bool {
	return render.Exact(linkType)(t)
}

func (Hyperlink) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	value, ok := elem(prop)
	if !ok {
		return single(ctx.Null("a", prop.Name))
	}
	link, ok := value.Interface().(hyperlink.Link)
	if !ok {
		return nil, fmt.Errorf("builtin: hyperlink: unexpected %s", value.Type())
	}
	node := markup.Element("a", markup.Text(link.Body())).SetAttr("href", link.Href())
	for _, attr := range link.Attrs() {
		node.SetAttr(attr.Name, attr.Value)
	}
	return single(ctx.Itemprop(node, prop.Name))
}

// elem dereferences pointer properties and reports false for null values or
// values that cannot be read.
func elem(prop render.Property) (reflect.Value, bool) {
	if prop.IsNull() {
		return reflect.Value{}, false
	}
	value := prop.Value
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, false
		}
		value = value.Elem()
	}
	if !value.CanInterface() {
		return reflect.Value{}, false
	}
	return value, true
}
