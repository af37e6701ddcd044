package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is reported to MissingTranslationHandler when labels
// ask for a translation but no Translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves localized strings.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (f TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return f(locale, key, args...)
}

// MissingTranslationHandler returns the text used when a key cannot be
// translated. err is ErrMissingTranslator or the translator's error.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// LabelsOption customises TranslatedLabels.
type LabelsOption func(*translatedLabels)

// WithLabelKeyPrefix sets the prefix prepended to member names to build
// translation keys. The default is "labels.".
func WithLabelKeyPrefix(prefix string) LabelsOption {
	return func(l *translatedLabels) {
		l.prefix = prefix
	}
}

// WithLabelFallback sets the labeler used when a key is missing.
func WithLabelFallback(fallback Labeler) LabelsOption {
	return func(l *translatedLabels) {
		if fallback != nil {
			l.fallback = fallback
		}
	}
}

// WithMissingTranslation overrides the missing key behaviour. The default
// returns the fallback label.
func WithMissingTranslation(handler MissingTranslationHandler) LabelsOption {
	return func(l *translatedLabels) {
		l.onMissing = handler
	}
}

type translatedLabels struct {
	translator Translator
	locale     string
	prefix     string
	fallback   Labeler
	onMissing  MissingTranslationHandler
}

// TranslatedLabels returns a Labeler that looks up "<prefix><Member>" in t for
// locale, e.g. labels.DueDate, and falls back to DefaultLabeler.
func TranslatedLabels(t Translator, locale string, options ...LabelsOption) Labeler {
	labels := &translatedLabels{
		translator: t,
		locale:     strings.TrimSpace(locale),
		prefix:     "labels.",
		fallback:   DefaultLabeler,
	}
	for _, opt := range options {
		if opt != nil {
			opt(labels)
		}
	}
	return labels.label
}

func (l *translatedLabels) label(member string) string {
	fallback := l.fallback(member)
	return translate(l.locale, l.prefix+member, fallback, l.translator, l.onMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	var err error
	if t == nil {
		err = ErrMissingTranslator
	} else {
		var result string
		result, err = t.Translate(locale, key)
		if err == nil && strings.TrimSpace(result) != "" {
			return result
		}
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if values, ok := arg.(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}
