package engine

import (
	"fmt"

	"github.com/crosscheck-dev/crosscheck/internal/spec"
)

// Resolve rewrites a parsed value into the plain Go shape the
// implementation under test consumes, substituting every reference
// marker with the live value at its scope path and recursing into list
// elements and mapping values. The result is a structural clone: values
// containing no references come back structurally equal to their input.
//
// Resolution is lazy by design: callers resolve immediately before each
// feature executes, so a reference can point at a binding created by a
// feature earlier in the same document.
func Resolve(v spec.Value, s *Scope) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case spec.Scalar:
		return val.V, nil
	case spec.List:
		out := make([]any, len(val))
		for i, elem := range val {
			r, err := Resolve(elem, s)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case spec.Map:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			r, err := Resolve(elem, s)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case spec.Ref:
		b, err := s.Lookup(val.Path)
		if err != nil {
			return nil, fmt.Errorf("unresolved reference %q: %w", val.Path, err)
		}
		return b.Value, nil
	default:
		return nil, fmt.Errorf("unknown value shape %T", v)
	}
}
