package render_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
)

type namedRenderer struct {
	name  string
	match render.Matcher
}

func (r namedRenderer) Name() string                 { return r.name }
func (r namedRenderer) Supports(t reflect.Type) bool { return r.match(t) }
func (r namedRenderer) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	node := markup.Element("span", markup.Text(r.name)).SetAttr("data-renderer", r.name)
	return []*markup.Node{ctx.Itemprop(node, prop.Name)}, nil
}

type Animal struct {
	Name string
}

type Dog struct {
	Animal
	Breed string
}

type Puppy struct {
	*Dog
}

type Weekday int

func (d Weekday) String() string { return fmt.Sprintf("day-%d", int(d)) }

func TestRegistry_ResolveIsTotal(t *testing.T) {
	registry := render.NewRegistry()

	types := []reflect.Type{
		nil,
		render.TypeOf[any](),
		render.TypeOf[string](),
		render.TypeOf[*Dog](),
		render.TypeOf[[]Animal](),
		render.TypeOf[map[string]int](),
		render.TypeOf[func()](),
		render.TypeOf[chan int](),
		render.TypeOf[fmt.Stringer](),
	}
	for _, typ := range types {
		if got := registry.Resolve(typ); got == nil {
			t.Fatalf("Resolve(%v) returned nil", typ)
		}
		if _, ok := registry.Lookup(typ); ok {
			t.Fatalf("Lookup(%v) reported a registration on an empty registry", typ)
		}
	}

	var nilRegistry *render.Registry
	if nilRegistry.Resolve(render.TypeOf[Dog]()) == nil {
		t.Fatalf("nil registry should still resolve to the reflective renderer")
	}
}

func TestRegistry_MostRecentRegistrationWins(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(
		namedRenderer{name: "animal", match: render.Embeds(render.TypeOf[Animal]())},
		namedRenderer{name: "dog", match: render.Exact(render.TypeOf[Dog]())},
	)

	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{name: "base", typ: render.TypeOf[Animal](), want: "animal"},
		{name: "derived exact", typ: render.TypeOf[Dog](), want: "dog"},
		{name: "derived pointer", typ: render.TypeOf[*Dog](), want: "dog"},
		{name: "grandchild through pointer embed", typ: render.TypeOf[Puppy](), want: "animal"},
		{name: "unrelated", typ: render.TypeOf[Weekday](), want: "reflect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := registry.Resolve(tt.typ)
			named, ok := got.(render.Namer)
			if !ok {
				t.Fatalf("resolved renderer %T has no name", got)
			}
			if named.Name() != tt.want {
				t.Fatalf("Resolve(%v) = %q, want %q", tt.typ, named.Name(), tt.want)
			}
		})
	}

	// A later family-wide registration overrides the earlier exact one.
	registry.MustRegister(namedRenderer{name: "override", match: render.Embeds(render.TypeOf[Animal]())})
	reg, ok := registry.Lookup(render.TypeOf[Dog]())
	if !ok || reg.Name != "override" {
		t.Fatalf("expected override to win after re-registration, got %q (ok=%v)", reg.Name, ok)
	}
}

func TestRegistry_Matchers(t *testing.T) {
	stringer := render.TypeOf[fmt.Stringer]()

	tests := []struct {
		name  string
		match render.Matcher
		typ   reflect.Type
		want  bool
	}{
		{name: "implements value", match: render.Implements(stringer), typ: render.TypeOf[Weekday](), want: true},
		{name: "implements missing", match: render.Implements(stringer), typ: render.TypeOf[Dog](), want: false},
		{name: "kinds", match: render.Kinds(reflect.Int, reflect.String), typ: render.TypeOf[Weekday](), want: true},
		{name: "assignable", match: render.AssignableTo(render.TypeOf[any]()), typ: render.TypeOf[Dog](), want: true},
		{name: "all of", match: render.AllOf(render.Kinds(reflect.Int), render.Implements(stringer)), typ: render.TypeOf[int](), want: false},
		{name: "any of", match: render.AnyOf(render.Exact(render.TypeOf[Dog]()), render.Kinds(reflect.Int)), typ: render.TypeOf[int](), want: true},
		{name: "not", match: render.Not(render.Kinds(reflect.Int)), typ: render.TypeOf[string](), want: true},
		{name: "embeds self", match: render.Embeds(render.TypeOf[Dog]()), typ: render.TypeOf[Dog](), want: true},
		{name: "embeds unrelated", match: render.Embeds(render.TypeOf[Dog]()), typ: render.TypeOf[Animal](), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match(tt.typ); got != tt.want {
				t.Fatalf("matcher(%v) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestRegistry_ImplementsRequiresInterface(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for non-interface type")
		}
	}()
	render.Implements(render.TypeOf[Dog]())
}

func TestRegistry_RegisterInvalidatesCachedResolution(t *testing.T) {
	registry := render.NewRegistry()
	dog := render.TypeOf[Dog]()

	if _, ok := registry.Lookup(dog); ok {
		t.Fatalf("expected fallback before registration")
	}
	registry.MustRegister(namedRenderer{name: "dog", match: render.Exact(dog)})
	reg, ok := registry.Lookup(dog)
	if !ok || reg.Name != "dog" {
		t.Fatalf("expected cached fallback to be purged, got %q (ok=%v)", reg.Name, ok)
	}
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	base := render.NewRegistry()
	base.MustRegister(namedRenderer{name: "animal", match: render.Embeds(render.TypeOf[Animal]())})

	cloned := base.Clone()
	cloned.MustRegister(namedRenderer{name: "dog", match: render.Exact(render.TypeOf[Dog]())})

	if base.Len() != 1 || cloned.Len() != 2 {
		t.Fatalf("unexpected lengths base=%d clone=%d", base.Len(), cloned.Len())
	}

	names := func(r *render.Registry) []string {
		var out []string
		for _, reg := range r.Registrations() {
			out = append(out, reg.Name)
		}
		return out
	}
	if diff := cmp.Diff([]string{"animal", "dog"}, names(cloned)); diff != "" {
		t.Fatalf("clone registrations mismatch (-want +got):\n%s", diff)
	}
	if reg, _ := base.Lookup(render.TypeOf[Dog]()); reg.Name != "animal" {
		t.Fatalf("base registry affected by clone registration: %q", reg.Name)
	}
}

func TestRegistry_RegisterRejectsInvalidInput(t *testing.T) {
	registry := render.NewRegistry()
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if err := registry.RegisterFunc("x", nil, render.NewReflectRenderer()); err == nil {
		t.Fatalf("expected error for nil matcher")
	}
}
