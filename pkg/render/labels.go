package render

import "strings"

// Labeler converts a member name into the human readable <dt> label.
type Labeler func(name string) string

// DefaultLabeler splits on separators and camelCase boundaries and title-cases
// each word. Acronyms stay upper case: DueDate -> "Due Date", URLPath ->
// "URL Path".
func DefaultLabeler(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return ""
	}
	segments := make([]string, 0, len(words))
	for _, word := range words {
		segments = append(segments, titleCase(word))
	}
	return strings.Join(segments, " ")
}

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	if len(word) > 1 && strings.ToUpper(word) == word {
		return word
	}
	return capitalize(word)
}
