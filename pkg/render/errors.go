package render

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrConfiguration marks faults caused by invalid setup (for example a
	// malformed route template). They abort the render instead of being
	// isolated to a subtree.
	ErrConfiguration = errors.New("render: configuration fault")

	// ErrRendererPanic wraps panics recovered from a renderer.
	ErrRendererPanic = errors.New("render: renderer panicked")
)

// Fault records a renderer failure that was isolated to one property. The
// offending subtree is replaced by a placeholder and rendering continues.
type Fault struct {
	Path     string
	Type     reflect.Type
	Renderer string
	Err      error
}

func (f Fault) Error() string {
	typeName := "<nil>"
	if f.Type != nil {
		typeName = f.Type.String()
	}
	path := f.Path
	if path == "" {
		path = "."
	}
	return fmt.Sprintf("render: %s (%s) via %s: %v", path, typeName, f.Renderer, f.Err)
}

func (f Fault) Unwrap() error {
	return f.Err
}

// IsConfigurationError reports whether err must abort rendering.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// ConfigurationError wraps err so it is treated as a configuration fault.
func ConfigurationError(err error) error {
	if err == nil || errors.Is(err, ErrConfiguration) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrConfiguration, err)
}
