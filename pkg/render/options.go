package render

import (
	"reflect"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-hypermedia/pkg/markup"
)

const (
	DefaultCharset    = "utf-8"
	DefaultLang       = "en"
	DefaultTimeLayout = "Monday, January 2, 2006 15:04:05 MST"

	// ThemeStylesheetKey is the asset key resolved through the theme
	// AssetURL when a theme is configured.
	ThemeStylesheetKey = "hypermedia.stylesheet"
)

// ItemTypeFunc derives the microdata itemtype URL for a type. Returning ""
// omits the attribute.
type ItemTypeFunc func(t reflect.Type) string

// Config is the read-only ambient configuration of a render call.
type Config struct {
	// Title fills the document <title>.
	Title string
	// Lang is written on the <html> element.
	Lang string
	// Charset is announced through <meta charset>; the transport layer encodes
	// the bytes accordingly.
	Charset string
	// Head holds injected head content. Nodes are cloned on every call.
	Head []*markup.Node
	// PropertyNames maps member names to itemprop names.
	PropertyNames NamePolicy
	// Labels maps member names to <dt> labels.
	Labels Labeler
	// ItemType derives itemtype URLs.
	ItemType ItemTypeFunc
	// TimeLayout formats the human readable body of <time> elements.
	TimeLayout string
	// Theme contributes a stylesheet and CSS variables to the head.
	Theme *theme.RendererConfig
	// OnFault observes isolated renderer faults.
	OnFault func(Fault)
}

// ConfigOption mutates a Config.
type ConfigOption func(*Config)

// DefaultConfig returns the configuration used when no options are applied.
func DefaultConfig() Config {
	return Config{
		Lang:          DefaultLang,
		Charset:       DefaultCharset,
		PropertyNames: LowerCamel,
		Labels:        DefaultLabeler,
		ItemType:      GoDocItemType,
		TimeLayout:    DefaultTimeLayout,
	}
}

// WithTitle sets the document title.
func WithTitle(title string) ConfigOption {
	return func(cfg *Config) {
		cfg.Title = title
	}
}

// WithLang sets the document language.
func WithLang(lang string) ConfigOption {
	return func(cfg *Config) {
		if trimmed := strings.TrimSpace(lang); trimmed != "" {
			cfg.Lang = trimmed
		}
	}
}

// WithCharset sets the announced document charset.
func WithCharset(charset string) ConfigOption {
	return func(cfg *Config) {
		if trimmed := strings.TrimSpace(charset); trimmed != "" {
			cfg.Charset = trimmed
		}
	}
}

// WithHead appends injected head content.
func WithHead(nodes ...*markup.Node) ConfigOption {
	return func(cfg *Config) {
		for _, node := range nodes {
			if node != nil {
				cfg.Head = append(cfg.Head, node)
			}
		}
	}
}

// WithStylesheet injects a <link rel="stylesheet">.
func WithStylesheet(href string) ConfigOption {
	return func(cfg *Config) {
		if href = strings.TrimSpace(href); href == "" {
			return
		}
		cfg.Head = append(cfg.Head, markup.Element("link").
			SetAttr("rel", "stylesheet").
			SetAttr("href", href))
	}
}

// WithScript injects a deferred <script src>.
func WithScript(src string) ConfigOption {
	return func(cfg *Config) {
		if src = strings.TrimSpace(src); src == "" {
			return
		}
		cfg.Head = append(cfg.Head, markup.Element("script").
			SetAttr("src", src).
			SetAttr("defer", ""))
	}
}

// WithPropertyNames sets the property name policy.
func WithPropertyNames(policy NamePolicy) ConfigOption {
	return func(cfg *Config) {
		if policy != nil {
			cfg.PropertyNames = policy
		}
	}
}

// WithLabels sets the label policy.
func WithLabels(labeler Labeler) ConfigOption {
	return func(cfg *Config) {
		if labeler != nil {
			cfg.Labels = labeler
		}
	}
}

// WithItemType sets the itemtype policy.
func WithItemType(fn ItemTypeFunc) ConfigOption {
	return func(cfg *Config) {
		if fn != nil {
			cfg.ItemType = fn
		}
	}
}

// WithTimeLayout sets the layout used for human readable times.
func WithTimeLayout(layout string) ConfigOption {
	return func(cfg *Config) {
		if strings.TrimSpace(layout) != "" {
			cfg.TimeLayout = layout
		}
	}
}

// WithTheme attaches a resolved go-theme renderer configuration.
func WithTheme(cfg *theme.RendererConfig) ConfigOption {
	return func(c *Config) {
		c.Theme = cfg
	}
}

// WithFaultHandler observes isolated faults.
func WithFaultHandler(fn func(Fault)) ConfigOption {
	return func(cfg *Config) {
		cfg.OnFault = fn
	}
}

func (c Config) apply(options ...ConfigOption) Config {
	out := c
	out.Head = append([]*markup.Node(nil), c.Head...)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&out)
	}
	if out.PropertyNames == nil {
		out.PropertyNames = LowerCamel
	}
	if out.Labels == nil {
		out.Labels = DefaultLabeler
	}
	if out.ItemType == nil {
		out.ItemType = GoDocItemType
	}
	if out.TimeLayout == "" {
		out.TimeLayout = DefaultTimeLayout
	}
	if out.Lang == "" {
		out.Lang = DefaultLang
	}
	if out.Charset == "" {
		out.Charset = DefaultCharset
	}
	return out
}

// GoDocItemType identifies named types by their pkg.go.dev URL, e.g.
// https://pkg.go.dev/example.com/todo#Todo. Unnamed and predeclared types
// have no itemtype.
func GoDocItemType(t reflect.Type) string {
	t = indirectType(t)
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return ""
	}
	return "https://pkg.go.dev/" + t.PkgPath() + "#" + typeName(t)
}

// NamespaceItemType identifies named types as <namespace>/<TypeName>.
func NamespaceItemType(namespace string) ItemTypeFunc {
	namespace = strings.TrimRight(strings.TrimSpace(namespace), "/")
	return func(t reflect.Type) string {
		t = indirectType(t)
		if t == nil || t.Name() == "" || t.PkgPath() == "" || namespace == "" {
			return ""
		}
		return namespace + "/" + typeName(t)
	}
}

func typeName(t reflect.Type) string {
	name := t.Name()
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}
	return name
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
