package route

import (
	"fmt"

	"github.com/yosida95/uritemplate/v3"

	"github.com/goliatone/go-hypermedia/pkg/render"
)

// ErrMalformedTemplate reports a URI template that is not valid RFC 6570.
// It is a configuration fault: rendering aborts instead of isolating it.
var ErrMalformedTemplate = fmt.Errorf("route: malformed uri template: %w", render.ErrConfiguration)

// Template is a parsed URI template.
type Template struct {
	raw      string
	parsed   *uritemplate.Template
	varnames []string
}

// Parse parses raw as an RFC 6570 template. Plain URIs are templates without
// expressions.
func Parse(raw string) (Template, error) {
	parsed, err := uritemplate.New(raw)
	if err != nil {
		return Template{}, fmt.Errorf("%w: %q: %v", ErrMalformedTemplate, raw, err)
	}
	return Template{raw: raw, parsed: parsed, varnames: parsed.Varnames()}, nil
}

// Raw returns the template text.
func (t Template) Raw() string { return t.raw }

// Templated reports whether the template has expressions left to expand.
func (t Template) Templated() bool { return len(t.varnames) > 0 }

// Variables returns the expression variable names in template order.
func (t Template) Variables() []string {
	return append([]string(nil), t.varnames...)
}

// Expand substitutes values. Missing variables expand to nothing, following
// RFC 6570.
func (t Template) Expand(values map[string]string) (string, error) {
	if t.parsed == nil {
		return t.raw, nil
	}
	vars := uritemplate.Values{}
	for name, value := range values {
		vars.Set(name, uritemplate.String(value))
	}
	out, err := t.parsed.Expand(vars)
	if err != nil {
		return "", fmt.Errorf("route: expand %q: %w", t.raw, err)
	}
	return out, nil
}
