package render

import (
	"fmt"
	"reflect"
	"strings"
)

// TemplateFuncsConfig configures the helpers exposed to template-backed
// renderers.
type TemplateFuncsConfig struct {
	// LocaleKey names the field or map key holding the locale when a helper
	// receives template data instead of a locale string. Defaults to "locale".
	LocaleKey string
	// Translator backs the translate helper. May be nil.
	Translator Translator
	// OnMissing controls the text returned for missing translations.
	OnMissing MissingTranslationHandler
	// Names backs the itemprop helper. Defaults to LowerCamel.
	Names NamePolicy
	// Labels backs the label helper. Defaults to DefaultLabeler.
	Labels Labeler
}

// TemplateFuncs returns helpers suitable for gotemplate.WithGlobals:
//
//	translate(localeSrc, key, ...args) string
//	current_locale(localeSrc) string
//	itemprop(member) string
//	label(member) string
//
// localeSrc is a locale string or a map/struct carrying one under LocaleKey.
func TemplateFuncs(cfg TemplateFuncsConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	names := cfg.Names
	if names == nil {
		names = LowerCamel
	}
	labels := cfg.Labels
	if labels == nil {
		labels = DefaultLabeler
	}

	return map[string]any{
		"translate": func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale := resolveLocale(localeSrc, localeKey)
			if cfg.Translator == nil {
				return onMissing(locale, key, params, ErrMissingTranslator)
			}
			msg, err := cfg.Translator.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
		"current_locale": func(localeSrc any) string {
			return resolveLocale(localeSrc, localeKey)
		},
		"itemprop": func(member string) string {
			return names(member)
		},
		"label": func(member string) string {
			return labels(member)
		},
	}
}

func resolveLocale(src any, key string) string {
	switch data := src.(type) {
	case nil:
		return ""
	case string:
		return data
	case map[string]string:
		return data[key]
	case map[string]any:
		if value, ok := data[key]; ok && value != nil {
			return strings.TrimSpace(fmt.Sprint(value))
		}
		return ""
	}

	value := reflect.ValueOf(src)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return ""
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return ""
	}
	field := value.FieldByNameFunc(func(name string) bool {
		return strings.EqualFold(name, key)
	})
	if field.IsValid() && field.Kind() == reflect.String {
		return field.String()
	}
	return ""
}
