// Package doctext supplies human-readable documentation for route groups,
// actions and parameters.
//
// Descriptions are keyed by a dotted path ("pets", "pets.list",
// "pets.list.limit") and may be written as plain text, Markdown or HTML.
// Markdown and HTML are sanitised before they are parsed into markup nodes so
// documentation loaded from files never injects scripts into a page.
package doctext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/goliatone/go-hypermedia/pkg/markup"
)

// Format identifies how a description source is written.
type Format string

const (
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a textual format name to a Format. The empty string yields
// FormatPlain.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "plain", "text":
		return FormatPlain, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("doctext: unknown format %q", raw)
	}
}

// Key addresses a description. Group is always set; Action and Parameter
// narrow the key to an action or one of its parameters.
type Key struct {
	Group     string
	Action    string
	Parameter string
}

// GroupKey addresses a route group description.
func GroupKey(group string) Key { return Key{Group: group} }

// ActionKey addresses an action description.
func ActionKey(group, action string) Key { return Key{Group: group, Action: action} }

// ParameterKey addresses a parameter description.
func ParameterKey(group, action, parameter string) Key {
	return Key{Group: group, Action: action, Parameter: parameter}
}

// String returns the dotted form of the key.
func (k Key) String() string {
	switch {
	case k.Parameter != "":
		return k.Group + "." + k.Action + "." + k.Parameter
	case k.Action != "":
		return k.Group + "." + k.Action
	default:
		return k.Group
	}
}

// ParseKey splits a dotted key. At most three segments are accepted and none
// may be empty.
func ParseKey(raw string) (Key, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) > 3 {
		return Key{}, fmt.Errorf("doctext: key %q has too many segments", raw)
	}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return Key{}, fmt.Errorf("doctext: key %q has an empty segment", raw)
		}
	}
	var key Key
	key.Group = parts[0]
	if len(parts) > 1 {
		key.Action = parts[1]
	}
	if len(parts) > 2 {
		key.Parameter = parts[2]
	}
	return key, nil
}

// Text is a description source together with its format.
type Text struct {
	Source string
	Format Format
}

// Plain wraps source as plain text.
func Plain(source string) Text { return Text{Source: source, Format: FormatPlain} }

// Markdown wraps source as Markdown.
func Markdown(source string) Text { return Text{Source: source, Format: FormatMarkdown} }

// HTML wraps source as an HTML fragment.
func HTML(source string) Text { return Text{Source: source, Format: FormatHTML} }

// IsZero reports whether the text has no content.
func (t Text) IsZero() bool {
	return strings.TrimSpace(t.Source) == ""
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Nodes converts the text into markup nodes. Plain text becomes a single
// paragraph; Markdown and HTML are sanitised and parsed as a fragment.
func (t Text) Nodes() ([]*markup.Node, error) {
	if t.IsZero() {
		return nil, nil
	}
	switch t.Format {
	case "", FormatPlain:
		return []*markup.Node{markup.Element("p", markup.Text(strings.TrimSpace(t.Source)))}, nil
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(t.Source), &buf); err != nil {
			return nil, fmt.Errorf("doctext: convert markdown: %w", err)
		}
		return fragment(buf.String())
	case FormatHTML:
		return fragment(t.Source)
	default:
		return nil, fmt.Errorf("doctext: unknown format %q", t.Format)
	}
}

func fragment(raw string) ([]*markup.Node, error) {
	cleaned := sanitize(raw)
	if cleaned == "" {
		return nil, nil
	}
	nodes, err := markup.ParseFragment(cleaned)
	if err != nil {
		return nil, fmt.Errorf("doctext: parse fragment: %w", err)
	}
	return trimWhitespace(nodes), nil
}

// trimWhitespace drops top-level whitespace-only text nodes left between
// block elements by the Markdown converter.
func trimWhitespace(nodes []*markup.Node) []*markup.Node {
	out := nodes[:0]
	for _, node := range nodes {
		if !node.IsElement() && strings.TrimSpace(node.Data()) == "" {
			continue
		}
		out = append(out, node)
	}
	return out
}

// Provider looks up descriptions.
type Provider interface {
	Describe(key Key) (Text, bool)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(key Key) (Text, bool)

// Describe calls f.
func (f ProviderFunc) Describe(key Key) (Text, bool) {
	if f == nil {
		return Text{}, false
	}
	return f(key)
}

// Chain consults providers in order and returns the first non-empty hit.
type Chain []Provider

// Describe implements Provider.
func (c Chain) Describe(key Key) (Text, bool) {
	for _, provider := range c {
		if provider == nil {
			continue
		}
		if text, ok := provider.Describe(key); ok && !text.IsZero() {
			return text, true
		}
	}
	return Text{}, false
}

// Lookup resolves key against provider and converts the hit into nodes.
// A nil provider or a missing entry yields no nodes and no error.
func Lookup(provider Provider, key Key) ([]*markup.Node, error) {
	if provider == nil {
		return nil, nil
	}
	text, ok := provider.Describe(key)
	if !ok {
		return nil, nil
	}
	return text.Nodes()
}
