// Package hyperlink provides the Link value object rendered as an anchor.
package hyperlink

import (
	"strings"

	"github.com/goliatone/go-hypermedia/pkg/markup"
)

// Link is an immutable hyperlink: a target, a display body and an ordered
// attribute bag. The relation type is stored as the rel attribute.
type Link struct {
	href  string
	body  string
	attrs []markup.Attr
}

// Option customises a Link during construction.
type Option func(*Link)

// WithRel sets the relation type. Multiple calls append space separated
// tokens.
func WithRel(rel string) Option {
	return func(l *Link) {
		rel = strings.TrimSpace(rel)
		if rel == "" {
			return
		}
		if current := l.Attr("rel"); current != "" {
			for _, token := range strings.Fields(current) {
				if token == rel {
					return
				}
			}
			rel = current + " " + rel
		}
		l.set("rel", rel)
	}
}

// WithAttr sets an arbitrary attribute. Setting href is ignored; the target
// is fixed by New.
func WithAttr(name, value string) Option {
	return func(l *Link) {
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, "href") {
			return
		}
		l.set(name, value)
	}
}

// WithTitle sets the advisory title attribute.
func WithTitle(title string) Option {
	return WithAttr("title", title)
}

// WithType sets the advisory media type of the target.
func WithType(mediaType string) Option {
	return WithAttr("type", mediaType)
}

// New creates a Link. An empty body displays the target.
func New(href, body string, options ...Option) Link {
	link := Link{href: strings.TrimSpace(href), body: body}
	for _, opt := range options {
		if opt != nil {
			opt(&link)
		}
	}
	if link.body == "" {
		link.body = link.href
	}
	return link
}

// With returns a copy of l with additional options applied.
func (l Link) With(options ...Option) Link {
	out := Link{href: l.href, body: l.body, attrs: append([]markup.Attr(nil), l.attrs...)}
	for _, opt := range options {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

// Href returns the target URI.
func (l Link) Href() string { return l.href }

// Body returns the display text.
func (l Link) Body() string { return l.body }

// Rel returns the relation type or "".
func (l Link) Rel() string { return l.Attr("rel") }

// Attr returns an attribute value or "".
func (l Link) Attr(name string) string {
	for _, attr := range l.attrs {
		if attr.Name == name {
			return attr.Value
		}
	}
	return ""
}

// Attrs returns a copy of the attributes in insertion order.
func (l Link) Attrs() []markup.Attr {
	return append([]markup.Attr(nil), l.attrs...)
}

// IsZero reports whether the link has no target.
func (l Link) IsZero() bool {
	return l.href == ""
}

func (l *Link) set(name, value string) {
	for idx := range l.attrs {
		if l.attrs[idx].Name == name {
			l.attrs[idx].Value = value
			return
		}
	}
	l.attrs = append(l.attrs, markup.Attr{Name: name, Value: value})
}
