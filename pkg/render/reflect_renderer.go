package render

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-hypermedia/pkg/markup"
)

const (
	tagMicrodata = "microdata"
	tagLabel     = "label"

	defaultPlanCacheSize = 256
	maxEmbedDepth        = 16
)

// ReflectRenderer is the default renderer. Structs become definition lists of
// their exported fields, pointers and interfaces delegate to their element,
// slices and maps use the list and map shapes. Other kinds fall back to their
// fmt representation inside a span.
type ReflectRenderer struct {
	plans *lru.Cache[reflect.Type, []fieldPlan]
}

type fieldPlan struct {
	index     []int
	member    string
	name      string
	label     string
	typ       reflect.Type
	omitEmpty bool
	depth     int
	tagged    bool
}

// NewReflectRenderer creates the default renderer.
func NewReflectRenderer() *ReflectRenderer {
	plans, err := lru.New[reflect.Type, []fieldPlan](defaultPlanCacheSize)
	if err != nil {
		plans = nil
	}
	return &ReflectRenderer{plans: plans}
}

func (r *ReflectRenderer) Name() string { return "reflect" }

// Supports accepts every type.
func (r *ReflectRenderer) Supports(reflect.Type) bool { return true }

func (r *ReflectRenderer) Render(ctx *Context, prop Property) ([]*markup.Node, error) {
	t := prop.Type
	if t == nil {
		return []*markup.Node{ctx.Null("span", prop.Name)}, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		if prop.IsNull() {
			return ctx.Render(prop.Name, reflect.Value{}, t.Elem())
		}
		return ctx.Render(prop.Name, prop.Value.Elem(), t.Elem())
	case reflect.Interface:
		if prop.IsNull() {
			return []*markup.Node{ctx.Null("span", prop.Name)}, nil
		}
		return ctx.Render(prop.Name, prop.Value.Elem(), t)
	case reflect.Struct:
		node, err := r.renderStruct(ctx, prop)
		if err != nil {
			return nil, err
		}
		return []*markup.Node{node}, nil
	case reflect.Slice, reflect.Array:
		node, err := List(ctx, prop)
		if err != nil {
			return nil, err
		}
		return []*markup.Node{node}, nil
	case reflect.Map:
		node, err := Map(ctx, prop)
		if err != nil {
			return nil, err
		}
		return []*markup.Node{node}, nil
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		node := markup.Element("span").SetAttr("data-unsupported", t.Kind().String())
		return []*markup.Node{ctx.Itemprop(node, prop.Name)}, nil
	}

	if prop.IsNull() {
		return []*markup.Node{ctx.Null("span", prop.Name)}, nil
	}
	node := markup.Element("span", markup.Text(fmt.Sprint(prop.Interface())))
	return []*markup.Node{ctx.Itemprop(node, prop.Name)}, nil
}

func (r *ReflectRenderer) renderStruct(ctx *Context, prop Property) (*markup.Node, error) {
	dl := markup.Element("dl").SetAttr("itemscope", "")
	if prop.IsNull() {
		ctx.Itemprop(dl, prop.Name)
		dl.SetAttr("data-null", "true")
		return dl, nil
	}
	if itemType := ctx.ItemType(prop.Type); itemType != "" {
		dl.SetAttr("itemtype", itemType)
	}
	ctx.Itemprop(dl, prop.Name)

	leave := ctx.EnterItem()
	defer leave()

	for _, plan := range r.plan(prop.Type) {
		value, ok := fieldByIndex(prop.Value, plan.index)
		if !ok {
			continue
		}
		if plan.omitEmpty && value.IsZero() {
			continue
		}
		name := plan.name
		if name == "" {
			name = ctx.PropertyName(plan.member)
		}
		label := plan.label
		if label == "" {
			label = ctx.Label(plan.member)
		}
		children, err := ctx.Render(name, value, plan.typ)
		if err != nil {
			return nil, err
		}
		dl.Append(markup.Element("dt", markup.Text(label)))
		dl.Append(markup.Element("dd", children...))
	}
	return dl, nil
}

func (r *ReflectRenderer) plan(t reflect.Type) []fieldPlan {
	if r.plans != nil {
		if cached, ok := r.plans.Get(t); ok {
			return cached
		}
	}
	plans := structFields(t)
	if r.plans != nil {
		r.plans.Add(t, plans)
	}
	return plans
}

// structFields lists renderable members in declaration order. Embedded
// structs without a microdata name are flattened the way encoding/json
// promotes fields: the shallowest field wins, ties between untagged fields
// hide both.
func structFields(t reflect.Type) []fieldPlan {
	var all []fieldPlan
	collectFields(t, nil, 0, map[reflect.Type]bool{}, &all)

	byName := make(map[string][]int, len(all))
	for idx, field := range all {
		key := field.name
		if key == "" {
			key = field.member
		}
		byName[key] = append(byName[key], idx)
	}

	keep := make([]bool, len(all))
	for _, indexes := range byName {
		if winner, ok := dominantField(all, indexes); ok {
			keep[winner] = true
		}
	}

	out := make([]fieldPlan, 0, len(all))
	for idx, field := range all {
		if keep[idx] {
			out = append(out, field)
		}
	}
	return out
}

func collectFields(t reflect.Type, parent []int, depth int, seen map[reflect.Type]bool, out *[]fieldPlan) {
	if depth > maxEmbedDepth || seen[t] {
		return
	}
	seen[t] = true
	defer delete(seen, t)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get(tagMicrodata)
		if tag == "-" {
			continue
		}
		name, options, _ := strings.Cut(tag, ",")
		name = strings.TrimSpace(name)

		index := make([]int, len(parent)+1)
		copy(index, parent)
		index[len(parent)] = i

		if field.Anonymous && name == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				collectFields(embedded, index, depth+1, seen, out)
				continue
			}
		}
		if !field.IsExported() || !renderableKind(field.Type) {
			continue
		}

		*out = append(*out, fieldPlan{
			index:     index,
			member:    field.Name,
			name:      name,
			label:     strings.TrimSpace(field.Tag.Get(tagLabel)),
			typ:       field.Type,
			omitEmpty: hasOption(options, "omitempty"),
			depth:     depth,
			tagged:    name != "",
		})
	}
}

func dominantField(fields []fieldPlan, indexes []int) (int, bool) {
	if len(indexes) == 1 {
		return indexes[0], true
	}
	sorted := append([]int(nil), indexes...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return fields[sorted[a]].depth < fields[sorted[b]].depth
	})
	shallowest := fields[sorted[0]].depth
	winner, tagged, candidates := -1, 0, 0
	for _, idx := range sorted {
		if fields[idx].depth != shallowest {
			break
		}
		candidates++
		if fields[idx].tagged {
			tagged++
			winner = idx
		}
	}
	switch {
	case candidates == 1:
		return sorted[0], true
	case tagged == 1:
		return winner, true
	default:
		return 0, false
	}
}

func hasOption(options, option string) bool {
	for _, candidate := range strings.Split(options, ",") {
		if strings.TrimSpace(candidate) == option {
			return true
		}
	}
	return false
}

func renderableKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	}
	return true
}

// fieldByIndex walks index without panicking on nil embedded pointers.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for pos, i := range index {
		if pos > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v, true
}

// List renders a slice or array as an ordered list. Every element is
// dispatched on its own runtime type and tagged with the collection's
// property name.
func List(ctx *Context, prop Property) (*markup.Node, error) {
	if prop.IsNull() {
		return ctx.Null("ul", prop.Name), nil
	}
	ul := markup.Element("ul")
	elem := prop.Type.Elem()
	for i := 0; i < prop.Value.Len(); i++ {
		children, err := ctx.Render(prop.Name, prop.Value.Index(i), elem)
		if err != nil {
			return nil, err
		}
		ul.Append(markup.Element("li", children...))
	}
	return ul, nil
}

// Map renders a map as a definition list keyed by the display form of each
// key, sorted for stable output.
func Map(ctx *Context, prop Property) (*markup.Node, error) {
	dl := markup.Element("dl").SetAttr("itemscope", "")
	if prop.IsNull() {
		ctx.Itemprop(dl, prop.Name)
		dl.SetAttr("data-null", "true")
		return dl, nil
	}
	ctx.Itemprop(dl, prop.Name)

	type entry struct {
		label string
		key   reflect.Value
	}
	entries := make([]entry, 0, prop.Value.Len())
	iter := prop.Value.MapRange()
	for iter.Next() {
		entries = append(entries, entry{label: keyLabel(iter.Key()), key: iter.Key()})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].label < entries[b].label
	})

	leave := ctx.EnterItem()
	defer leave()

	elem := prop.Type.Elem()
	for _, item := range entries {
		children, err := ctx.Render(ctx.PropertyName(item.label), prop.Value.MapIndex(item.key), elem)
		if err != nil {
			return nil, err
		}
		dl.Append(markup.Element("dt", markup.Text(item.label)))
		dl.Append(markup.Element("dd", children...))
	}
	return dl, nil
}

func keyLabel(key reflect.Value) string {
	if key.Kind() == reflect.String {
		return key.String()
	}
	if key.CanInterface() {
		return fmt.Sprint(key.Interface())
	}
	return key.String()
}
