package config

import (
	"fmt"
	"strings"

	pkgopenapi "github.com/goliatone/go-hypermedia/pkg/openapi"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/renderers/apidoc"
)

// RenderOptions converts the document settings into render options.
func (c Config) RenderOptions() ([]render.ConfigOption, error) {
	policy, err := render.NamePolicyByName(c.PropertyNames)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	options := []render.ConfigOption{
		render.WithLang(c.Lang),
		render.WithCharset(c.Charset),
		render.WithPropertyNames(policy),
		render.WithTimeLayout(c.TimeLayout),
	}
	if c.Title != "" {
		options = append(options, render.WithTitle(c.Title))
	}
	if ns := strings.TrimSpace(c.ItemTypeNamespace); ns != "" {
		options = append(options, render.WithItemType(render.NamespaceItemType(ns)))
	}
	for _, href := range c.Stylesheets {
		options = append(options, render.WithStylesheet(href))
	}
	for _, src := range c.Scripts {
		options = append(options, render.WithScript(src))
	}
	return options, nil
}

// DocOptions converts the docs section into documentation renderer options.
// csrfToken fills the configured CSRF field when both are set.
func (c Config) DocOptions(csrfToken string) []apidoc.Option {
	options := []apidoc.Option{apidoc.WithHeadingLevel(c.Docs.HeadingLevel)}
	if c.Docs.SubmitLabel != "" {
		options = append(options, apidoc.WithSubmitLabel(c.Docs.SubmitLabel))
	}
	if c.Docs.CSRFField != "" && csrfToken != "" {
		options = append(options, apidoc.WithHiddenFields(apidoc.CSRFToken(c.Docs.CSRFField, csrfToken)))
	}
	return options
}

// LoaderOptions enables remote documents with the configured timeout.
func (c Config) LoaderOptions() []pkgopenapi.LoaderOption {
	return []pkgopenapi.LoaderOption{pkgopenapi.WithHTTPFallback(c.HTTPTimeout)}
}

// ParserOptions names the group of untagged operations.
func (c Config) ParserOptions() []pkgopenapi.ParserOption {
	return []pkgopenapi.ParserOption{pkgopenapi.WithUntaggedGroup(c.UntaggedGroup)}
}
