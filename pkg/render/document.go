package render

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-hypermedia/pkg/markup"
)

// Assemble wraps rendered body nodes in the outer document:
//
//	<html lang><head><meta charset><title>[theme][injected]</head><body>...</body></html>
//
// Injected head nodes are cloned so a Config can be reused across calls.
func Assemble(cfg Config, body []*markup.Node) *markup.Node {
	cfg = cfg.apply()

	head := markup.Element("head",
		markup.Element("meta").SetAttr("charset", cfg.Charset),
		markup.Element("title", markup.Text(cfg.Title)),
	)
	for _, node := range themeHead(cfg.Theme) {
		head.Append(node)
	}
	for _, node := range markup.CloneAll(cfg.Head) {
		head.Append(node)
	}

	bodyNode := markup.Element("body")
	for _, node := range body {
		if node == nil {
			continue
		}
		if node.Parent() != nil {
			node = node.Clone()
		}
		bodyNode.Append(node)
	}

	return markup.Element("html", head, bodyNode).SetAttr("lang", cfg.Lang)
}

func themeHead(cfg *theme.RendererConfig) []*markup.Node {
	if cfg == nil {
		return nil
	}
	var nodes []*markup.Node
	if cfg.AssetURL != nil {
		if href := strings.TrimSpace(cfg.AssetURL(ThemeStylesheetKey)); href != "" {
			nodes = append(nodes, markup.Element("link").
				SetAttr("rel", "stylesheet").
				SetAttr("href", href))
		}
	}
	if style := cssVarsStyle(cfg.CSSVars); style != "" {
		node := markup.Element("style", markup.Text(style))
		if cfg.Theme != "" {
			node.SetAttr("data-theme", cfg.Theme)
		}
		if cfg.Variant != "" {
			node.SetAttr("data-theme-variant", cfg.Variant)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(":root{")
	for _, key := range keys {
		name := key
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		builder.WriteString(name)
		builder.WriteString(":")
		builder.WriteString(vars[key])
		builder.WriteString(";")
	}
	builder.WriteString("}")
	return builder.String()
}
