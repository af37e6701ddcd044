package render

import (
	"fmt"
	"strings"
	"unicode"
)

// NamePolicy maps a Go member name to the rendered itemprop name.
type NamePolicy func(name string) string

// Built-in policy identifiers accepted by NamePolicyByName.
const (
	PolicyLowerCamel = "lower-camel"
	PolicyKebab      = "kebab"
	PolicySnake      = "snake"
	PolicyVerbatim   = "verbatim"
)

// NamePolicyByName resolves a policy identifier from configuration.
func NamePolicyByName(name string) (NamePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyLowerCamel, "camel", "lowercamel":
		return LowerCamel, nil
	case PolicyKebab, "kebab-case":
		return KebabCase, nil
	case PolicySnake, "snake-case", "snake_case":
		return SnakeCase, nil
	case PolicyVerbatim, "none":
		return Verbatim, nil
	default:
		return nil, fmt.Errorf("render: unknown property name policy %q", name)
	}
}

// LowerCamel converts DueDate to dueDate and URLPath to urlPath.
func LowerCamel(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(strings.ToLower(words[0]))
	for _, word := range words[1:] {
		builder.WriteString(capitalize(word))
	}
	return builder.String()
}

// KebabCase converts DueDate to due-date.
func KebabCase(name string) string {
	return joinLower(splitWords(name), "-")
}

// SnakeCase converts DueDate to due_date.
func SnakeCase(name string) string {
	return joinLower(splitWords(name), "_")
}

// Verbatim keeps the member name untouched.
func Verbatim(name string) string {
	return name
}

func joinLower(words []string, sep string) string {
	for idx, word := range words {
		words[idx] = strings.ToLower(word)
	}
	return strings.Join(words, sep)
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// splitWords breaks a member name on separators, lower-to-upper transitions,
// the end of an acronym (URLPath -> URL, Path) and letter/digit boundaries.
func splitWords(name string) []string {
	runes := []rune(strings.TrimSpace(name))
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for idx, r := range runes {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if idx > 0 && len(current) > 0 {
			prev := runes[idx-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && idx+1 < len(runes) && unicode.IsLower(runes[idx+1]):
				flush()
			case unicode.IsLetter(prev) && unicode.IsDigit(r):
				flush()
			case unicode.IsDigit(prev) && unicode.IsLetter(r):
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}
