package template

import "io"

// Renderer executes named or inline templates. Output is returned and, when
// writers are supplied, also written to each of them.
type Renderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn FilterFunc) error
	GlobalContext(data map[string]any) error
}

// FilterFunc is an engine independent template filter.
type FilterFunc func(input any, param any) (any, error)
