package builtin

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
)

var (
	bytesType    = render.TypeOf[[]byte]()
	stringerType = render.TypeOf[fmt.Stringer]()

	integerKinds = []reflect.Kind{
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
	}
	numericKinds = append([]reflect.Kind{
		reflect.Bool,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
	}, integerKinds...)
)

// Text renders strings and byte slices as <span>.
type Text struct{}

func (Text) Name() string { return "text" }

func (Text) Supports(t reflect.Type) bool {
	return t != nil && (t.Kind() == reflect.String || t == bytesType)
}

func (Text) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	if prop.IsNull() {
		return single(ctx.Null("span", prop.Name))
	}
	text := ""
	if prop.Value.Kind() == reflect.String {
		text = prop.Value.String()
	} else {
		text = string(prop.Value.Bytes())
	}
	node := ctx.Itemprop(markup.Element("span"), prop.Name)
	return single(node.Append(markup.Text(text)))
}

// Number renders booleans and numeric kinds as <data value>.
type Number struct{}

func (Number) Name() string { return "number" }

func (Number) Supports(t reflect.Type) bool {
	return render.Kinds(numericKinds...)(t)
}

func (Number) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	if prop.IsNull() {
		return single(ctx.Null("data", prop.Name))
	}
	value := formatNumber(prop.Value)
	node := ctx.Itemprop(markup.Element("data"), prop.Name).SetAttr("value", value)
	return single(node.Append(markup.Text(value)))
}

// Enum renders integer kinds implementing fmt.Stringer: the numeric value is
// machine readable, the String form is displayed.
type Enum struct{}

func (Enum) Name() string { return "enum" }

func (Enum) Supports(t reflect.Type) bool {
	return render.AllOf(render.Kinds(integerKinds...), render.Implements(stringerType))(t)
}

func (Enum) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	if prop.IsNull() {
		return single(ctx.Null("data", prop.Name))
	}
	value := formatNumber(prop.Value)
	display := value
	if stringer, ok := stringerOf(prop.Value); ok {
		display = stringer.String()
	}
	node := ctx.Itemprop(markup.Element("data"), prop.Name).SetAttr("value", value)
	return single(node.Append(markup.Text(display)))
}

func formatNumber(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Complex64:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 64)
	case reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	default:
		return fmt.Sprint(v)
	}
}

func stringerOf(v reflect.Value) (fmt.Stringer, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	if stringer, ok := v.Interface().(fmt.Stringer); ok {
		return stringer, true
	}
	if v.CanAddr() {
		stringer, ok := v.Addr().Interface().(fmt.Stringer)
		return stringer, ok
	}
	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)
	stringer, ok := ptr.Interface().(fmt.Stringer)
	return stringer, ok
}

func single(node *markup.Node) ([]*markup.Node, error) {
	return []*markup.Node{node}, nil
}
