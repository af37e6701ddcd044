// Package apidoc renders route metadata as hypermedia affordances: a route
// group becomes a section and each action becomes either a link or a form
// that a client can follow or submit without knowing the URI in advance.
package apidoc

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/goliatone/go-hypermedia/pkg/doctext"
	"github.com/goliatone/go-hypermedia/pkg/inputs"
	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/route"
)

var (
	groupType  = render.TypeOf[route.Group]()
	actionType = render.TypeOf[route.Action]()
)

// Register appends the group and action renderers to registry. Both share
// the same options.
func Register(registry *render.Registry, opts ...Option) error {
	if registry == nil {
		return fmt.Errorf("apidoc: registry is required")
	}
	o := newOptions(opts...)
	for _, renderer := range []render.Renderer{GroupRenderer{opts: o}, ActionRenderer{opts: o}} {
		if err := registry.Register(renderer); err != nil {
			return fmt.Errorf("apidoc: register: %w", err)
		}
	}
	return nil
}

// GroupRenderer renders route.Group as a section holding a heading, the
// group description and each action dispatched back through the registry.
type GroupRenderer struct {
	opts options
}

// NewGroupRenderer constructs a GroupRenderer.
func NewGroupRenderer(opts ...Option) GroupRenderer {
	return GroupRenderer{opts: newOptions(opts...)}
}

func (GroupRenderer) Name() string { return "apidoc.group" }

func (GroupRenderer) Supports(t reflect.Type) bool {
	return render.Exact(groupType)(t)
}

func (r GroupRenderer) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	value, ok := deref(prop)
	if !ok {
		return []*markup.Node{ctx.Null("section", prop.Name)}, nil
	}
	group := value.Interface().(route.Group)

	section := markup.Element("section").
		SetAttr("id", group.Name).
		SetAttr("itemscope", "")
	if itemType := ctx.ItemType(groupType); itemType != "" {
		section.SetAttr("itemtype", itemType)
	}
	ctx.Itemprop(section, prop.Name)

	leave := ctx.EnterItem()
	defer leave()

	section.Append(ctx.Itemprop(markup.Element(r.opts.heading, markup.Text(group.Name)), "name"))

	description, err := r.opts.describe(doctext.GroupKey(group.Name), group.Description)
	if err != nil {
		return nil, fmt.Errorf("apidoc: group %q: %w", group.Name, err)
	}
	if description != nil {
		section.Append(ctx.Itemprop(description, "description"))
	}

	for _, action := range group.Actions {
		if action.Group == "" {
			action.Group = group.Name
		}
		nodes, err := ctx.RenderValue("action", action, actionType)
		if err != nil {
			return nil, err
		}
		section.Append(nodes...)
	}
	return []*markup.Node{section}, nil
}

// ActionRenderer renders route.Action. Actions without effective parameters
// become an anchor; the rest become a form with one labelled input per
// parameter. Both carry data-templated so clients know whether the target
// needs URI template expansion first.
type ActionRenderer struct {
	opts options
}

// NewActionRenderer constructs an ActionRenderer.
func NewActionRenderer(opts ...Option) ActionRenderer {
	return ActionRenderer{opts: newOptions(opts...)}
}

func (ActionRenderer) Name() string { return "apidoc.action" }

func (ActionRenderer) Supports(t reflect.Type) bool {
	return render.Exact(actionType)(t)
}

func (r ActionRenderer) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	value, ok := deref(prop)
	if !ok {
		return []*markup.Node{ctx.Null("a", prop.Name)}, nil
	}
	action := value.Interface().(route.Action)

	templated, err := action.Templated()
	if err != nil {
		return nil, fmt.Errorf("apidoc: action %q: %w", action.ID(), err)
	}

	params := action.EffectiveParameters()
	if len(params) == 0 {
		return []*markup.Node{r.link(ctx, prop.Name, action, templated)}, nil
	}
	form, err := r.form(ctx, prop.Name, action, params, templated)
	if err != nil {
		return nil, err
	}
	return []*markup.Node{form}, nil
}

func (r ActionRenderer) link(ctx *render.Context, name string, action route.Action, templated bool) *markup.Node {
	node := markup.Element("a", markup.Text(action.Name)).
		SetAttr("href", action.Template).
		SetAttr("rel", action.Name).
		SetAttr("data-method", action.Verb()).
		SetAttr("data-templated", strconv.FormatBool(templated))
	if action.Summary != "" {
		node.SetAttr("title", action.Summary)
	}
	return ctx.Itemprop(node, name)
}

func (r ActionRenderer) form(ctx *render.Context, name string, action route.Action, params []route.Parameter, templated bool) (*markup.Node, error) {
	formID := action.ID()
	form := markup.Element("form").
		SetAttr("id", formID).
		SetAttr("name", action.Name).
		SetAttr("method", action.Verb()).
		SetAttr("action", action.Template).
		SetAttr("data-templated", strconv.FormatBool(templated))

	summary := action.Description
	if summary == "" {
		summary = action.Summary
	}
	description, err := r.opts.describe(doctext.ActionKey(action.Group, action.Name), summary)
	if err != nil {
		return nil, fmt.Errorf("apidoc: action %q: %w", action.ID(), err)
	}
	if description != nil {
		form.Append(description)
	}

	multipart := false
	for _, param := range params {
		kind := r.opts.inputs.Resolve(param)
		if kind == inputs.KindFile {
			multipart = true
		}
		fields, err := r.field(formID, action, param, kind)
		if err != nil {
			return nil, err
		}
		form.Append(fields...)
	}
	if multipart {
		form.SetAttr("enctype", "multipart/form-data")
	}

	for _, hidden := range r.opts.hidden {
		form.Append(markup.Element("input").
			SetAttr("type", "hidden").
			SetAttr("name", hidden.Name).
			SetAttr("value", hidden.Value))
	}

	label := r.opts.submitLabel
	if label == "" {
		label = action.Name
	}
	form.Append(markup.Element("input").SetAttr("type", "submit").SetAttr("value", label))
	return ctx.Itemprop(form, name), nil
}

// field renders the label, control and optional description of one
// parameter. Enumerated parameters become a select.
func (r ActionRenderer) field(formID string, action route.Action, param route.Parameter, kind string) ([]*markup.Node, error) {
	inputID := formID + "-" + param.Name
	label := markup.Element("label", markup.Text(param.Name)).SetAttr("for", inputID)

	var control *markup.Node
	if len(param.Enum) > 0 {
		control = markup.Element("select").
			SetAttr("id", inputID).
			SetAttr("name", param.Name)
		for _, option := range param.Enum {
			opt := markup.Element("option", markup.Text(option)).SetAttr("value", option)
			if option == param.Default {
				opt.SetAttr("selected", "")
			}
			control.Append(opt)
		}
	} else {
		control = markup.Element("input").
			SetAttr("id", inputID).
			SetAttr("name", param.Name).
			SetAttr("type", kind)
		if param.Default != "" {
			control.SetAttr("value", param.Default)
		}
	}
	control.SetAttr("data-required", strconv.FormatBool(param.Required))
	if param.Required {
		control.SetAttr("required", "")
	}
	control.SetAttr("data-calling-convention", param.Source.String())

	nodes := []*markup.Node{label, control}
	key := doctext.ParameterKey(action.Group, action.Name, param.Name)
	description, err := r.opts.describe(key, param.Description)
	if err != nil {
		return nil, fmt.Errorf("apidoc: parameter %q of %q: %w", param.Name, action.ID(), err)
	}
	if description != nil {
		nodes = append(nodes, description.SetAttr("data-for", inputID))
	}
	return nodes, nil
}

// describe resolves the description for key, falling back to the plain text
// carried by the route metadata. The result is wrapped in a div, or nil when
// there is nothing to show.
func (o options) describe(key doctext.Key, fallback string) (*markup.Node, error) {
	provider := doctext.Chain{o.docs, doctext.ProviderFunc(func(doctext.Key) (doctext.Text, bool) {
		return doctext.Plain(fallback), fallback != ""
	})}
	nodes, err := doctext.Lookup(provider, key)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return markup.Element("div", nodes...).SetAttr("class", "description"), nil
}

func deref(prop render.Property) (reflect.Value, bool) {
	if prop.IsNull() {
		return reflect.Value{}, false
	}
	value := prop.Value
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, false
		}
		value = value.Elem()
	}
	return value, value.CanInterface()
}
