package spec

// Value is a sealed interface over the literal shapes a specification
// document can author. Only Scalar, List, Map, and Ref implement it.
//
// The tree is built once per entry by FromYAML; reference markers are
// tagged here rather than re-inferred during resolution.
type Value interface {
	value() // sealed
}

// Scalar wraps a plain YAML scalar: string, int64, float64, bool, or nil.
// Integers are always widened to int64 at construction.
type Scalar struct {
	V any
}

func (Scalar) value() {}

// List is an ordered sequence of values.
type List []Value

func (List) value() {}

// Map is a literal mapping. A mapping only becomes a Map when it does not
// match the reference-marker shape.
type Map map[string]Value

func (Map) value() {}

// Ref is a reference marker: a dotted scope path whose live value is
// substituted in place of the marker just before execution.
type Ref struct {
	Path string
}

func (Ref) value() {}

// Sentinel expected-value words with special comparison semantics.
//
// A feature whose expected value equals ErrorWord passes when the executed
// operation fails; one whose expected value equals AnyWord passes whenever
// the operation does not fail. A legitimate result value that happens to
// equal ErrorWord is indistinguishable from a real failure; that ambiguity
// is inherited from the document format and kept for compatibility.
const (
	AnyWord   = "ANY"
	ErrorWord = "ERROR"
)

// FromYAML converts a YAML-decoded value into the tagged Value tree.
//
// The reference-marker shape rule is applied here and only here: a mapping
// with exactly one entry whose value is null becomes a Ref keyed by that
// entry's key. Every other mapping stays literal data.
func FromYAML(v any) Value {
	switch val := v.(type) {
	case nil:
		return Scalar{V: nil}
	case bool, string, float64:
		return Scalar{V: val}
	case int:
		return Scalar{V: int64(val)}
	case int64:
		return Scalar{V: val}
	case uint64:
		return Scalar{V: int64(val)}
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			list[i] = FromYAML(elem)
		}
		return list
	case map[string]any:
		if len(val) == 1 {
			for k, inner := range val {
				if inner == nil {
					return Ref{Path: k}
				}
			}
		}
		m := make(Map, len(val))
		for k, inner := range val {
			m[k] = FromYAML(inner)
		}
		return m
	default:
		// Uncommon YAML shapes (timestamps, binary) pass through untagged.
		return Scalar{V: val}
	}
}

// Plain converts a Value back to the plain Go shape it was authored as.
// Refs render as their marker form, a single-entry mapping with a nil
// value, so that Plain is the structural inverse of FromYAML.
func Plain(v Value) any {
	switch val := v.(type) {
	case nil:
		return nil
	case Scalar:
		return val.V
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Plain(elem)
		}
		return out
	case Map:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Plain(elem)
		}
		return out
	case Ref:
		return map[string]any{val.Path: nil}
	default:
		return nil
	}
}
