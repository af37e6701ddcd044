// Package parser implements openapi.Parser with kin-openapi. Operations are
// grouped by their first tag; parameters come from the path item, the
// operation and the properties of a JSON, urlencoded or multipart request
// body.
package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cast"

	"github.com/goliatone/go-hypermedia/pkg/doctext"
	pkgopenapi "github.com/goliatone/go-hypermedia/pkg/openapi"
	"github.com/goliatone/go-hypermedia/pkg/route"
)

// Parser implements pkgopenapi.Parser.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser.
func New(options pkgopenapi.ParserOptions) *Parser {
	if options.UntaggedGroup == "" {
		options.UntaggedGroup = "default"
	}
	return &Parser{options: options}
}

var methodOrder = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions, http.MethodTrace,
}

var bodyMediaTypes = []string{
	"application/json", "application/x-www-form-urlencoded", "multipart/form-data",
}

// Parse extracts route groups and descriptions. Groups follow the order of
// the document's tag list, then first appearance; actions keep path order
// then method order.
func (p *Parser) Parse(ctx context.Context, doc pkgopenapi.Document) (pkgopenapi.Spec, error) {
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Spec{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return pkgopenapi.Spec{}, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: p.options.ResolveReferences}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return pkgopenapi.Spec{}, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return pkgopenapi.Spec{}, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	out := pkgopenapi.Spec{Descriptions: doctext.NewStore()}
	if spec.Info != nil {
		out.Title, out.Version = spec.Info.Title, spec.Info.Version
	}

	collector := newGroupCollector()
	for _, tag := range spec.Tags {
		if tag == nil || tag.Name == "" {
			continue
		}
		collector.touch(tag.Name)
		if tag.Description != "" {
			out.Descriptions.Set(doctext.GroupKey(tag.Name), doctext.Markdown(tag.Description))
		}
	}

	if spec.Paths != nil {
		paths := spec.Paths.Map()
		keys := make([]string, 0, len(paths))
		for path := range paths {
			keys = append(keys, path)
		}
		sort.Strings(keys)

		for _, path := range keys {
			item := paths[path]
			if item == nil {
				continue
			}
			for _, method := range methodOrder {
				op := item.GetOperation(method)
				if op == nil {
					continue
				}
				if err := ctx.Err(); err != nil {
					return pkgopenapi.Spec{}, err
				}
				group := p.options.UntaggedGroup
				if len(op.Tags) > 0 && op.Tags[0] != "" {
					group = op.Tags[0]
				}
				action := p.action(method, path, item.Parameters, op)
				action.Group = group
				collector.add(group, action)
				describeAction(out.Descriptions, action, op)
			}
		}
	}

	groups, err := collector.groups()
	if err != nil {
		return pkgopenapi.Spec{}, fmt.Errorf("openapi parser: %w", err)
	}
	out.Groups = groups
	return out, nil
}

func (p *Parser) action(method, path string, shared openapi3.Parameters, op *openapi3.Operation) route.Action {
	action := route.Action{
		Name:        actionName(method, path, op.OperationID),
		Method:      method,
		Template:    path,
		Summary:     op.Summary,
		Description: op.Description,
	}

	merged := mergeParameters(shared, op.Parameters)
	for _, param := range merged {
		source, err := route.ParseSource(param.In)
		if err != nil {
			source = route.SourceIgnored
		}
		out := route.Parameter{
			Name:        param.Name,
			Required:    param.Required || source == route.SourcePath,
			Source:      source,
			Description: param.Description,
		}
		applySchema(&out, param.Schema)
		action.Parameters = append(action.Parameters, out)
	}

	action.Parameters = append(action.Parameters, bodyParameters(op.RequestBody)...)
	return action
}

// mergeParameters applies operation parameters over path item parameters,
// keyed by name and location.
func mergeParameters(shared, own openapi3.Parameters) []*openapi3.Parameter {
	type key struct{ name, in string }
	index := make(map[key]int)
	var out []*openapi3.Parameter
	for _, list := range []openapi3.Parameters{shared, own} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			k := key{ref.Value.Name, ref.Value.In}
			if i, ok := index[k]; ok {
				out[i] = ref.Value
				continue
			}
			index[k] = len(out)
			out = append(out, ref.Value)
		}
	}
	return out
}

func bodyParameters(body *openapi3.RequestBodyRef) []route.Parameter {
	if body == nil || body.Value == nil {
		return nil
	}
	var schema *openapi3.SchemaRef
	for _, mediaType := range bodyMediaTypes {
		if mt := body.Value.Content.Get(mediaType); mt != nil && mt.Schema != nil {
			schema = mt.Schema
			break
		}
	}
	if schema == nil || schema.Value == nil || len(schema.Value.Properties) == 0 {
		return nil
	}

	required := make(map[string]bool, len(schema.Value.Required))
	for _, name := range schema.Value.Required {
		required[name] = true
	}
	names := make([]string, 0, len(schema.Value.Properties))
	for name := range schema.Value.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]route.Parameter, 0, len(names))
	for _, name := range names {
		param := route.Parameter{Name: name, Required: required[name], Source: route.SourceBody}
		property := schema.Value.Properties[name]
		if property != nil && property.Value != nil {
			param.Description = property.Value.Description
		}
		applySchema(&param, property)
		out = append(out, param)
	}
	return out
}

func applySchema(param *route.Parameter, ref *openapi3.SchemaRef) {
	if ref == nil || ref.Value == nil {
		return
	}
	schema := ref.Value
	param.Schema = firstSchemaType(schema.Type)
	param.Format = schema.Format
	if param.Description == "" {
		param.Description = schema.Description
	}
	if schema.Default != nil {
		param.Default = cast.ToString(schema.Default)
	}
	for _, value := range schema.Enum {
		param.Enum = append(param.Enum, cast.ToString(value))
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

func describeAction(store *doctext.Store, action route.Action, op *openapi3.Operation) {
	switch {
	case op.Description != "":
		store.Set(doctext.ActionKey(action.Group, action.Name), doctext.Markdown(op.Description))
	case op.Summary != "":
		store.Set(doctext.ActionKey(action.Group, action.Name), doctext.Plain(op.Summary))
	}
	for _, param := range action.Parameters {
		if param.Description != "" {
			store.Set(doctext.ParameterKey(action.Group, action.Name, param.Name), doctext.Markdown(param.Description))
		}
	}
}

// actionName prefers the operationId; otherwise it joins the method and the
// literal path segments, e.g. "get_pets_by_id" for GET /pets/{id}.
func actionName(method, path, operationID string) string {
	if id := strings.TrimSpace(operationID); id != "" {
		return id
	}
	parts := []string{strings.ToLower(method)}
	for _, segment := range strings.Split(path, "/") {
		switch {
		case segment == "":
		case strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}"):
			parts = append(parts, "by", strings.Trim(segment, "{}"))
		default:
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, "_")
}

type groupCollector struct {
	order   []string
	actions map[string][]route.Action
}

func newGroupCollector() *groupCollector {
	return &groupCollector{actions: make(map[string][]route.Action)}
}

func (c *groupCollector) touch(name string) {
	if _, ok := c.actions[name]; ok {
		return
	}
	c.order = append(c.order, name)
	c.actions[name] = nil
}

func (c *groupCollector) add(name string, action route.Action) {
	c.touch(name)
	c.actions[name] = append(c.actions[name], action)
}

// groups validates and returns the non-empty groups in order.
func (c *groupCollector) groups() ([]route.Group, error) {
	var out []route.Group
	for _, name := range c.order {
		actions := c.actions[name]
		if len(actions) == 0 {
			continue
		}
		group, err := route.NewGroup(name, actions...)
		if err != nil {
			return nil, err
		}
		out = append(out, group)
	}
	return out, nil
}
