package render

import "reflect"

// Matcher reports whether a registration applies to a type.
type Matcher func(t reflect.Type) bool

// TypeOf returns the reflect.Type for T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Exact matches target and pointers to target.
func Exact(target reflect.Type) Matcher {
	return func(t reflect.Type) bool {
		if t == nil || target == nil {
			return false
		}
		return t == target || (t.Kind() == reflect.Pointer && t.Elem() == target)
	}
}

// Implements matches types implementing iface, either directly or through
// their pointer method set. iface must be an interface type.
func Implements(iface reflect.Type) Matcher {
	if iface == nil || iface.Kind() != reflect.Interface {
		panic("render: Implements requires an interface type")
	}
	return func(t reflect.Type) bool {
		if t == nil {
			return false
		}
		if t.Implements(iface) {
			return true
		}
		return t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(iface)
	}
}

// Embeds matches base itself and any struct that embeds base (by value or
// pointer) at any depth, which is the closest Go analogue of a subclass.
func Embeds(base reflect.Type) Matcher {
	return func(t reflect.Type) bool {
		return embeds(t, base, 0)
	}
}

func embeds(t, base reflect.Type, depth int) bool {
	if t == nil || base == nil || depth > 16 {
		return false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == base {
		return true
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && embeds(field.Type, base, depth+1) {
			return true
		}
	}
	return false
}

// Kinds matches types of the listed kinds.
func Kinds(kinds ...reflect.Kind) Matcher {
	set := make(map[reflect.Kind]struct{}, len(kinds))
	for _, kind := range kinds {
		set[kind] = struct{}{}
	}
	return func(t reflect.Type) bool {
		if t == nil {
			return false
		}
		_, ok := set[t.Kind()]
		return ok
	}
}

// AssignableTo matches types assignable to target.
func AssignableTo(target reflect.Type) Matcher {
	return func(t reflect.Type) bool {
		return t != nil && target != nil && t.AssignableTo(target)
	}
}

// AnyOf matches when any matcher matches.
func AnyOf(matchers ...Matcher) Matcher {
	return func(t reflect.Type) bool {
		for _, match := range matchers {
			if match != nil && match(t) {
				return true
			}
		}
		return false
	}
}

// AllOf matches when every matcher matches.
func AllOf(matchers ...Matcher) Matcher {
	return func(t reflect.Type) bool {
		for _, match := range matchers {
			if match == nil || !match(t) {
				return false
			}
		}
		return len(matchers) > 0
	}
}

// Not inverts a matcher.
func Not(match Matcher) Matcher {
	return func(t reflect.Type) bool {
		return match != nil && !match(t)
	}
}
