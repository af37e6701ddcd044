package apidoc

import (
	"strconv"

	"github.com/goliatone/go-hypermedia/pkg/doctext"
	"github.com/goliatone/go-hypermedia/pkg/inputs"
)

// Option customises the documentation renderers.
type Option func(*options)

type options struct {
	inputs      *inputs.Registry
	docs        doctext.Provider
	hidden      []HiddenField
	submitLabel string
	heading     string
}

func newOptions(opts ...Option) options {
	o := options{heading: "h2"}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.inputs == nil {
		o.inputs = inputs.NewRegistry()
	}
	o.hidden = normaliseHidden(o.hidden)
	return o
}

// WithInputs overrides the input kind registry used for form fields.
func WithInputs(registry *inputs.Registry) Option {
	return func(o *options) {
		o.inputs = registry
	}
}

// WithDescriptions sets the provider consulted for group, action and
// parameter descriptions. Entries it lacks fall back to the descriptions
// carried by the route metadata.
func WithDescriptions(provider doctext.Provider) Option {
	return func(o *options) {
		o.docs = provider
	}
}

// WithHiddenFields appends hidden inputs emitted in every form, for example a
// CSRF token. Later fields win on name collisions.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(o *options) {
		o.hidden = append(o.hidden, fields...)
	}
}

// WithSubmitLabel sets the submit button text. The action name is used when
// empty.
func WithSubmitLabel(label string) Option {
	return func(o *options) {
		o.submitLabel = label
	}
}

// WithHeadingLevel sets the group heading element (h1 to h6).
func WithHeadingLevel(level int) Option {
	return func(o *options) {
		if level >= 1 && level <= 6 {
			o.heading = "h" + strconv.Itoa(level)
		}
	}
}
