// Package inputs infers the HTML input type used for an action parameter.
package inputs

import (
	"net/url"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-hypermedia/pkg/route"
)

// Built-in input kinds.
const (
	KindText          = "text"
	KindCheckbox      = "checkbox"
	KindNumber        = "number"
	KindDateTimeLocal = "datetime-local"
	KindDate          = "date"
	KindTime          = "time"
	KindEmail         = "email"
	KindURL           = "url"
	KindPassword      = "password"
	KindFile          = "file"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	urlType  = reflect.TypeOf(url.URL{})
)

// Matcher decides whether an input kind applies to a parameter.
type Matcher func(param route.Parameter) bool

type rule struct {
	kind     string
	priority int
	match    Matcher
	order    int
}

// Registry selects input kinds for parameters. Higher priority wins; ties
// fall back to registration order. Unmatched parameters use KindText.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for kind with the provided priority.
func (r *Registry) Register(kind string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		kind:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the input kind for a parameter.
func (r *Registry) Resolve(param route.Parameter) string {
	if r == nil {
		return KindText
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(param) {
			return entry.kind
		}
	}
	return KindText
}

func (r *Registry) registerBuiltins() {
	r.Register(KindCheckbox, 90, func(param route.Parameter) bool {
		return schemaIs(param, "boolean") || kindOf(param) == reflect.Bool
	})

	r.Register(KindDateTimeLocal, 85, func(param route.Parameter) bool {
		return formatIs(param, "date-time") || baseType(param) == timeType
	})

	r.Register(KindDate, 84, func(param route.Parameter) bool {
		return formatIs(param, "date")
	})

	r.Register(KindTime, 83, func(param route.Parameter) bool {
		return formatIs(param, "time")
	})

	r.Register(KindNumber, 80, func(param route.Parameter) bool {
		if schemaIs(param, "integer") || schemaIs(param, "number") {
			return true
		}
		switch kindOf(param) {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
		return false
	})

	r.Register(KindEmail, 60, func(param route.Parameter) bool {
		return formatIs(param, "email")
	})

	r.Register(KindURL, 60, func(param route.Parameter) bool {
		return formatIs(param, "uri") || formatIs(param, "url") || baseType(param) == urlType
	})

	r.Register(KindPassword, 55, func(param route.Parameter) bool {
		return formatIs(param, "password")
	})

	r.Register(KindFile, 50, func(param route.Parameter) bool {
		return formatIs(param, "binary")
	})
}

func schemaIs(param route.Parameter, schema string) bool {
	return strings.EqualFold(strings.TrimSpace(param.Schema), schema)
}

func formatIs(param route.Parameter, format string) bool {
	return strings.EqualFold(strings.TrimSpace(param.Format), format)
}

func baseType(param route.Parameter) reflect.Type {
	t := param.Type
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func kindOf(param route.Parameter) reflect.Kind {
	if t := baseType(param); t != nil {
		return t.Kind()
	}
	return reflect.Invalid
}
