package inputs

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-hypermedia/pkg/route"
)

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		param  route.Parameter
		expect string
	}{
		{name: "bool type", param: route.Parameter{Type: reflect.TypeOf(true)}, expect: KindCheckbox},
		{name: "boolean schema", param: route.Parameter{Schema: "boolean"}, expect: KindCheckbox},
		{name: "int pointer", param: route.Parameter{Type: reflect.TypeOf(new(int))}, expect: KindNumber},
		{name: "integer schema", param: route.Parameter{Schema: "integer", Format: "int64"}, expect: KindNumber},
		{name: "time value", param: route.Parameter{Type: reflect.TypeOf(time.Time{})}, expect: KindDateTimeLocal},
		{name: "date format", param: route.Parameter{Schema: "string", Format: "date"}, expect: KindDate},
		{name: "email format", param: route.Parameter{Schema: "string", Format: "email"}, expect: KindEmail},
		{name: "url type", param: route.Parameter{Type: reflect.TypeOf(&url.URL{})}, expect: KindURL},
		{name: "password", param: route.Parameter{Format: "password"}, expect: KindPassword},
		{name: "binary", param: route.Parameter{Schema: "string", Format: "binary"}, expect: KindFile},
		{name: "plain string", param: route.Parameter{Type: reflect.TypeOf("")}, expect: KindText},
		{name: "unknown", param: route.Parameter{}, expect: KindText},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reg.Resolve(tc.param); got != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}

func TestRegister_PriorityAndOrder(t *testing.T) {
	reg := &Registry{}
	reg.Register("first", 10, func(route.Parameter) bool { return true })
	reg.Register("second", 10, func(route.Parameter) bool { return true })

	if got := reg.Resolve(route.Parameter{}); got != "first" {
		t.Fatalf("expected registration order tie-break, got %q", got)
	}

	reg.Register("color", 100, func(param route.Parameter) bool { return param.Format == "color" })
	if got := reg.Resolve(route.Parameter{Format: "color"}); got != "color" {
		t.Fatalf("expected higher priority rule to win, got %q", got)
	}

	var nilRegistry *Registry
	if got := nilRegistry.Resolve(route.Parameter{}); got != KindText {
		t.Fatalf("nil registry should fall back to text, got %q", got)
	}
}
