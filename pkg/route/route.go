// Package route describes API route groups, their actions and parameters.
// The values are read-only metadata consumed by the documentation renderers;
// they are produced by a Provider such as Static or the OpenAPI provider.
package route

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

// Source is the calling convention of a parameter: where its value travels.
type Source int

const (
	SourcePath Source = iota
	SourceQuery
	SourceBody
	SourceHeader
	SourceIgnored
)

var sourceNames = [...]string{
	SourcePath:    "path",
	SourceQuery:   "query-string",
	SourceBody:    "body",
	SourceHeader:  "header",
	SourceIgnored: "ignored",
}

func (s Source) String() string {
	if s < 0 || int(s) >= len(sourceNames) {
		return fmt.Sprintf("Source(%d)", int(s))
	}
	return sourceNames[s]
}

// Effective reports whether values from this source are supplied by the
// client through a form field.
func (s Source) Effective() bool {
	return s == SourcePath || s == SourceQuery || s == SourceBody
}

// ParseSource accepts the String form and common aliases (query, form,
// cookie...).
func ParseSource(raw string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "path", "uri":
		return SourcePath, nil
	case "query", "query-string", "querystring":
		return SourceQuery, nil
	case "body", "form", "formdata", "requestbody":
		return SourceBody, nil
	case "header", "cookie":
		return SourceHeader, nil
	case "", "ignored", "services", "none":
		return SourceIgnored, nil
	default:
		return SourceIgnored, fmt.Errorf("route: unknown parameter source %q", raw)
	}
}

// Parameter describes one action argument.
type Parameter struct {
	Name        string
	Type        reflect.Type
	Schema      string
	Format      string
	Required    bool
	Source      Source
	Description string
	Default     string
	Enum        []string
}

// Action is a single route: a verb and URI template plus its parameters.
type Action struct {
	Group       string
	Name        string
	Method      string
	Template    string
	Summary     string
	Description string
	Parameters  []Parameter
}

// Verb returns the upper case HTTP method, GET when unset.
func (a Action) Verb() string {
	method := strings.ToUpper(strings.TrimSpace(a.Method))
	if method == "" {
		return http.MethodGet
	}
	return method
}

// EffectiveParameters returns the parameters a client must supply: those
// travelling in the path, query string or body.
func (a Action) EffectiveParameters() []Parameter {
	var out []Parameter
	for _, param := range a.Parameters {
		if param.Source.Effective() {
			out = append(out, param)
		}
	}
	return out
}

// ID identifies the action as group.name.
func (a Action) ID() string {
	if a.Group == "" {
		return a.Name
	}
	return a.Group + "." + a.Name
}

// Templated reports whether the URI template still contains expressions the
// client must expand. A malformed template returns ErrMalformedTemplate.
func (a Action) Templated() (bool, error) {
	tpl, err := Parse(a.Template)
	if err != nil {
		return false, err
	}
	return tpl.Templated(), nil
}

// Validate checks the action is renderable.
func (a Action) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("route: action name is required")
	}
	if _, err := Parse(a.Template); err != nil {
		return fmt.Errorf("route: action %q: %w", a.ID(), err)
	}
	seen := make(map[string]struct{}, len(a.Parameters))
	for _, param := range a.Parameters {
		name := strings.TrimSpace(param.Name)
		if name == "" {
			return fmt.Errorf("route: action %q: parameter name is required", a.ID())
		}
		if _, dup := seen[name]; dup && param.Source.Effective() {
			return fmt.Errorf("route: action %q: duplicate parameter %q", a.ID(), name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Group is a named set of actions, typically one controller or tag.
type Group struct {
	Name        string
	Description string
	Actions     []Action
}

// NewGroup builds and validates a group. Actions inherit the group name.
func NewGroup(name string, actions ...Action) (Group, error) {
	group := Group{Name: strings.TrimSpace(name)}
	for _, action := range actions {
		if action.Group == "" {
			action.Group = group.Name
		}
		group.Actions = append(group.Actions, action)
	}
	if err := group.Validate(); err != nil {
		return Group{}, err
	}
	return group, nil
}

// MustGroup panics when NewGroup fails. Useful for static route tables.
func MustGroup(name string, actions ...Action) Group {
	group, err := NewGroup(name, actions...)
	if err != nil {
		panic(err)
	}
	return group
}

// Validate checks the group and every action, surfacing malformed templates
// at configuration time.
func (g Group) Validate() error {
	if g.Name == "" {
		return errors.New("route: group name is required")
	}
	var errs []error
	for _, action := range g.Actions {
		if err := action.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Action returns the named action.
func (g Group) Action(name string) (Action, bool) {
	for _, action := range g.Actions {
		if action.Name == name {
			return action, true
		}
	}
	return Action{}, false
}

// Provider supplies route groups.
type Provider interface {
	Groups(ctx context.Context) ([]Group, error)
}

// Static is a fixed Provider.
type Static []Group

// Groups returns a copy of the static groups.
func (s Static) Groups(ctx context.Context) ([]Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Group(nil), s...), nil
}
