package orchestrator

import (
	"fmt"
	"path"

	"github.com/goliatone/go-hypermedia/pkg/route"
)

// Subset narrows the rendered index. Patterns use path.Match syntax: group
// patterns match group names, action patterns match group.name ids. Empty
// lists select everything; Exclude always wins. Methods keeps only actions
// using one of the listed HTTP verbs.
type Subset struct {
	Groups  []string
	Actions []string
	Exclude []string
	Methods []string
}

// IsZero reports whether the subset selects everything.
func (s Subset) IsZero() bool {
	return len(s.Groups) == 0 && len(s.Actions) == 0 && len(s.Exclude) == 0 && len(s.Methods) == 0
}

// Apply returns the selected groups. Groups left without actions are dropped.
func (s Subset) Apply(groups []route.Group) ([]route.Group, error) {
	if s.IsZero() {
		return groups, nil
	}
	if len(s.Methods) > 0 {
		groups = route.Filter(groups, route.Subset{Methods: s.Methods})
	}
	out := make([]route.Group, 0, len(groups))
	for _, group := range groups {
		ok, err := matchAny(s.Groups, group.Name, true)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		actions := make([]route.Action, 0, len(group.Actions))
		for _, action := range group.Actions {
			if action.Group == "" {
				action.Group = group.Name
			}
			id := action.ID()
			included, err := matchAny(s.Actions, id, true)
			if err != nil {
				return nil, err
			}
			excluded, err := matchAny(s.Exclude, id, false)
			if err != nil {
				return nil, err
			}
			if included && !excluded {
				actions = append(actions, action)
			}
		}
		if len(actions) == 0 {
			continue
		}
		group.Actions = actions
		out = append(out, group)
	}
	return out, nil
}

func matchAny(patterns []string, name string, emptyMatches bool) (bool, error) {
	if len(patterns) == 0 {
		return emptyMatches, nil
	}
	for _, pattern := range patterns {
		ok, err := path.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("orchestrator: subset pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
