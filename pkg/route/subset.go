package route

import "strings"

// Subset selects groups and actions for rendering. Empty fields match
// everything; tokens are case-insensitive.
type Subset struct {
	Groups  []string
	Actions []string
	Methods []string
}

// Empty reports whether the subset filters nothing.
func (s Subset) Empty() bool {
	return len(normaliseTokens(s.Groups)) == 0 &&
		len(normaliseTokens(s.Actions)) == 0 &&
		len(normaliseTokens(s.Methods)) == 0
}

// Filter returns the groups and actions selected by subset. Groups left
// without actions are dropped. Actions match by name or group.name id.
func Filter(groups []Group, subset Subset) []Group {
	matcher := newSubsetMatcher(subset)
	if matcher.empty() {
		return groups
	}

	var out []Group
	for _, group := range groups {
		if !matcher.matchesGroup(group) {
			continue
		}
		filtered := group
		filtered.Actions = nil
		for _, action := range group.Actions {
			if matcher.matchesAction(action) {
				filtered.Actions = append(filtered.Actions, action)
			}
		}
		if len(filtered.Actions) > 0 {
			out = append(out, filtered)
		}
	}
	return out
}

type subsetMatcher struct {
	groups  map[string]struct{}
	actions map[string]struct{}
	methods map[string]struct{}
}

func newSubsetMatcher(subset Subset) subsetMatcher {
	return subsetMatcher{
		groups:  normaliseTokens(subset.Groups),
		actions: normaliseTokens(subset.Actions),
		methods: normaliseTokens(subset.Methods),
	}
}

func (m subsetMatcher) empty() bool {
	return len(m.groups) == 0 && len(m.actions) == 0 && len(m.methods) == 0
}

func (m subsetMatcher) matchesGroup(group Group) bool {
	if len(m.groups) == 0 {
		return true
	}
	_, ok := m.groups[normaliseToken(group.Name)]
	return ok
}

func (m subsetMatcher) matchesAction(action Action) bool {
	if len(m.methods) > 0 {
		if _, ok := m.methods[normaliseToken(action.Verb())]; !ok {
			return false
		}
	}
	if len(m.actions) == 0 {
		return true
	}
	if _, ok := m.actions[normaliseToken(action.Name)]; ok {
		return true
	}
	_, ok := m.actions[normaliseToken(action.ID())]
	return ok
}

// ParseTokenList splits a comma or whitespace separated list, as accepted by
// CLI flags and configuration.
func ParseTokenList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	var out []string
	for _, field := range fields {
		if token := strings.TrimSpace(field); token != "" {
			out = append(out, token)
		}
	}
	return out
}

func normaliseTokens(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	result := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			result[token] = struct{}{}
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
