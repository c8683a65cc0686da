package engine

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scope is the live name-to-value environment one specification runs
// against: the implementation under test plus the bindings features make
// during the run. Bindings layer over the implementation root and shadow
// it; the root itself is never mutated.
//
// A Scope is owned by a single specification run and is never accessed
// concurrently.
type Scope struct {
	root     any
	order    []string
	bindings map[string]any
}

// NewScope creates a scope over the given implementation root. The root
// may be a map, a struct, or a pointer to one; dotted paths walk map
// keys, exported struct fields, and methods.
func NewScope(root any) *Scope {
	return &Scope{
		root:     root,
		bindings: make(map[string]any),
	}
}

// Kind classifies what a resolved path points at. The construct-versus-
// invoke decision is a naming policy, not a type distinction: a callable
// whose leaf name leads with an upper-case letter is Constructible.
type Kind int

const (
	KindMissing Kind = iota
	KindValue
	KindCallable
	KindConstructible
)

// Binding is the result of resolving a dotted path: the value found, the
// owner it was found on (nil at top level), the leaf name, and the
// capability classification.
type Binding struct {
	Kind  Kind
	Value any
	Owner any
	Name  string
}

// Lookup walks a dotted path from the scope, stopping one segment short
// to record the owner, and classifies the leaf. Bindings shadow the
// implementation root at the top level.
func (s *Scope) Lookup(path string) (Binding, error) {
	segs := strings.Split(path, ".")

	cur, ok := s.bindings[segs[0]]
	if !ok {
		cur, ok = member(s.root, segs[0])
	}
	if !ok {
		return Binding{Kind: KindMissing, Name: segs[0]},
			&PathError{Path: path, Segment: segs[0], Reason: "not found"}
	}

	var owner any
	for _, seg := range segs[1:] {
		owner = cur
		cur, ok = member(cur, seg)
		if !ok {
			return Binding{Kind: KindMissing, Owner: owner, Name: seg},
				&PathError{Path: path, Segment: seg, Reason: "not found"}
		}
	}

	leaf := segs[len(segs)-1]
	return Binding{
		Kind:  classify(cur, leaf),
		Value: cur,
		Owner: owner,
		Name:  leaf,
	}, nil
}

// Bind writes a value at a dotted path. Intermediate segments are
// created as plain mappings inside the binding layer; an intermediate
// that exists but is not a mapping is a PathError. Rebinding a bound
// constant is a ConstantError.
func (s *Scope) Bind(path string, v any) error {
	segs := strings.Split(path, ".")
	leaf := segs[len(segs)-1]

	if isConstant(leaf) {
		if _, err := s.Lookup(path); err == nil {
			return &ConstantError{Path: path}
		}
	}

	if len(segs) == 1 {
		s.set(leaf, v)
		return nil
	}

	cur, ok := s.bindings[segs[0]]
	if !ok {
		m := make(map[string]any)
		s.set(segs[0], m)
		cur = m
	}
	for _, seg := range segs[1 : len(segs)-1] {
		m, isMap := cur.(map[string]any)
		if !isMap {
			return &PathError{Path: path, Segment: seg, Reason: "intermediate value is not a mapping"}
		}
		next, exists := m[seg]
		if !exists {
			next = make(map[string]any)
			m[seg] = next
		}
		cur = next
	}
	m, isMap := cur.(map[string]any)
	if !isMap {
		return &PathError{Path: path, Segment: leaf, Reason: "intermediate value is not a mapping"}
	}
	m[leaf] = v
	return nil
}

// Hook is a per-target extension callable merged into a specification's
// initial scope. The owning scope is supplied as an implicit first
// argument, letting hooks read and create bindings of their own.
type Hook func(s *Scope, args ...any) (any, error)

// BindHook binds a hook under the given name, closing over this scope.
// Hooks are merged before any feature executes and bypass the constant
// convention.
func (s *Scope) BindHook(name string, h Hook) {
	s.set(name, func(args ...any) (any, error) {
		return h(s, args...)
	})
}

// Names returns the top-level binding names in insertion order.
func (s *Scope) Names() []string {
	return append([]string(nil), s.order...)
}

func (s *Scope) set(name string, v any) {
	if _, exists := s.bindings[name]; !exists {
		s.order = append(s.order, name)
	}
	s.bindings[name] = v
}

// member resolves one path segment against a container: map key first,
// then exported struct field, then method. Lookup tolerates the case
// difference between document identifiers and Go's exported names, so
// "toUpper" finds both a "toUpper" map entry and a ToUpper method.
func member(container any, name string) (any, bool) {
	if container == nil {
		return nil, false
	}

	if m, ok := container.(map[string]any); ok {
		for _, candidate := range nameCandidates(name) {
			if v, ok := m[candidate]; ok {
				return v, true
			}
		}
		return nil, false
	}

	rv := reflect.ValueOf(container)

	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		for _, candidate := range nameCandidates(name) {
			if v := rv.MapIndex(reflect.ValueOf(candidate)); v.IsValid() {
				return v.Interface(), true
			}
		}
		return nil, false
	}

	elem := rv
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		elem = rv.Elem()
	}
	if elem.Kind() == reflect.Struct {
		for _, candidate := range nameCandidates(name) {
			if f := elem.FieldByName(candidate); f.IsValid() && f.CanInterface() {
				return f.Interface(), true
			}
		}
	}
	for _, candidate := range nameCandidates(name) {
		if m := rv.MethodByName(candidate); m.IsValid() {
			return m.Interface(), true
		}
	}

	return nil, false
}

// nameCandidates returns the segment as authored plus its Go-exported
// spelling, marker prefix stripped.
func nameCandidates(name string) []string {
	trimmed := strings.TrimLeft(name, "!$")
	candidates := []string{name}
	if trimmed != name {
		candidates = append(candidates, trimmed)
	}
	r, size := utf8.DecodeRuneInString(trimmed)
	if r != utf8.RuneError && !unicode.IsUpper(r) {
		candidates = append(candidates, string(unicode.ToUpper(r))+trimmed[size:])
	}
	return candidates
}

// classify maps a resolved value to its capability. Callables split on
// the leading identifier rune of the authored leaf name: upper-case
// means constructor.
func classify(v any, leaf string) Kind {
	if v == nil {
		return KindValue
	}
	if reflect.ValueOf(v).Kind() != reflect.Func {
		return KindValue
	}
	if unicode.IsUpper(leadingIdentRune(leaf)) {
		return KindConstructible
	}
	return KindCallable
}

// isConstant reports whether a path segment names a constant under the
// leading-upper-case convention.
func isConstant(seg string) bool {
	return unicode.IsUpper(leadingIdentRune(seg))
}

// leadingIdentRune returns the first identifier rune of a segment,
// skipping any non-identifier marker prefix.
func leadingIdentRune(seg string) rune {
	for _, r := range seg {
		if unicode.IsLetter(r) || r == '_' {
			return r
		}
	}
	return 0
}
