package orchestrator

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/goliatone/go-hypermedia/pkg/route"
)

var actionIDPattern = regexp.MustCompile(`^[^.\s]+\.[^\s]+$`)

var knownMethods = map[string]struct{}{
	http.MethodGet: {}, http.MethodHead: {}, http.MethodPost: {}, http.MethodPut: {},
	http.MethodPatch: {}, http.MethodDelete: {}, http.MethodOptions: {}, http.MethodTrace: {},
}

// ActionOverride replaces metadata of one action after parsing. Zero fields
// keep the parsed value; Hidden removes the action from the index.
type ActionOverride struct {
	// Action is the group.name identifier.
	Action      string
	Summary     string
	Description string
	Method      string
	Template    string
	Hidden      bool
}

// WithActionOverrides registers overrides applied after the transformer runs.
// Invalid overrides surface as an error from Generate.
func WithActionOverrides(overrides ...ActionOverride) Option {
	cloned := append([]ActionOverride(nil), overrides...)
	return func(o *Orchestrator) {
		for _, override := range cloned {
			if err := override.validate(); err != nil {
				o.initialiseErr = errors.Join(o.initialiseErr, err)
				continue
			}
			o.overrides = append(o.overrides, override)
		}
	}
}

func (o ActionOverride) validate() error {
	if !actionIDPattern.MatchString(o.Action) {
		return fmt.Errorf("orchestrator: override action %q must be group.name", o.Action)
	}
	if o.Method != "" {
		if _, ok := knownMethods[strings.ToUpper(o.Method)]; !ok {
			return fmt.Errorf("orchestrator: override %q: unknown method %q", o.Action, o.Method)
		}
	}
	if o.Template != "" {
		if _, err := route.Parse(o.Template); err != nil {
			return fmt.Errorf("orchestrator: override %q: %w", o.Action, err)
		}
	}
	return nil
}

// applyOverride reports whether the target action exists.
func applyOverride(index *Index, override ActionOverride) bool {
	groupName, actionName, _ := strings.Cut(override.Action, ".")
	group := index.group(groupName)
	if group == nil {
		return false
	}
	for i := range group.Actions {
		action := &group.Actions[i]
		if action.Name != actionName {
			continue
		}
		if override.Hidden {
			group.Actions = append(group.Actions[:i], group.Actions[i+1:]...)
			return true
		}
		if override.Summary != "" {
			action.Summary = override.Summary
		}
		if override.Description != "" {
			action.Description = override.Description
		}
		if override.Method != "" {
			action.Method = strings.ToUpper(override.Method)
		}
		if override.Template != "" {
			action.Template = override.Template
		}
		return true
	}
	return false
}
