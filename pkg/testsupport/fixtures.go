package testsupport

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/route"
)

// RecordsGroup is a small route table exercising every calling convention:
// a parameterless link, a templated path, a query string and a body.
func RecordsGroup() route.Group {
	return route.MustGroup("records",
		route.Action{
			Name:     "list",
			Template: "/records",
			Summary:  "List records",
		},
		route.Action{
			Name:     "show",
			Template: "/records/{id}",
			Parameters: []route.Parameter{
				{Name: "id", Type: reflect.TypeOf(0), Required: true, Source: route.SourcePath},
			},
		},
		route.Action{
			Name:     "search",
			Template: "/records/search",
			Parameters: []route.Parameter{
				{Name: "q", Type: reflect.TypeOf(""), Source: route.SourceQuery},
			},
		},
		route.Action{
			Name:     "create",
			Method:   "POST",
			Template: "/records",
			Parameters: []route.Parameter{
				{Name: "title", Type: reflect.TypeOf(""), Required: true, Source: route.SourceBody},
				{Name: "Authorization", Source: route.SourceHeader},
			},
		},
	)
}

// MarkupString concatenates the serialised nodes.
func MarkupString(nodes []*markup.Node) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(node.String())
	}
	return b.String()
}
