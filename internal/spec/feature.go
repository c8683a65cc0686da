package spec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Feature is one parsed document entry: a single assertion or binding
// action. Exactly one of three shapes holds per feature:
//
//   - pure value feature: Property empty, the literal Expected is bound
//     to Assign
//   - property read: Property set, IsCall false
//   - property call: Property set, IsCall true; Args/Kwargs populated
//     only in this shape
type Feature struct {
	// Skip marks features filtered out for the current target. Skipped
	// features never execute and are reported separately from passes.
	Skip bool

	// Assign is the dotted scope path to bind the outcome to, or empty.
	Assign string

	// Property is the dotted path of the operand being exercised, or
	// empty for pure value features.
	Property string

	// IsCall distinguishes invoking Property from merely reading it.
	IsCall bool

	// Args and Kwargs are the call arguments; Kwargs preserves authored
	// order so the canonical text is stable.
	Args   []Value
	Kwargs []Kwarg

	// Expected is the literal the outcome is compared against.
	// HasExpected is false when the entry authored no comparison; the
	// outcome then only needs to avoid being an error.
	Expected    Value
	HasExpected bool

	// Text is the canonical one-line rendering, synthesized once at
	// parse time. It is authoritative for reporting: identical features
	// always render identically.
	Text string
}

// Kwarg is one named call argument.
type Kwarg struct {
	Name  string
	Value Value
}

// render synthesizes the canonical text for a feature:
//
//	assign = property(arg, kw=v) == expected
//
// with absent parts omitted. Literal values render as JSON.
func (f *Feature) render() string {
	var b strings.Builder

	if f.Assign != "" {
		b.WriteString(f.Assign)
		b.WriteString(" = ")
	}

	if f.Property == "" {
		// Pure value feature: the literal is the assigned value.
		b.WriteString(renderValue(f.Expected))
		return b.String()
	}

	b.WriteString(f.Property)

	if f.IsCall {
		b.WriteByte('(')
		parts := make([]string, 0, len(f.Args)+len(f.Kwargs))
		for _, a := range f.Args {
			parts = append(parts, renderValue(a))
		}
		for _, kw := range f.Kwargs {
			parts = append(parts, kw.Name+"="+renderValue(kw.Value))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteByte(')')
	}

	if f.HasExpected {
		b.WriteString(" == ")
		b.WriteString(renderValue(f.Expected))
	}

	return b.String()
}

// renderValue renders a Value as a JSON literal. encoding/json sorts map
// keys, which keeps the rendering deterministic for identical features.
func renderValue(v Value) string {
	data, err := json.Marshal(Plain(v))
	if err != nil {
		return fmt.Sprintf("%v", Plain(v))
	}
	return string(data)
}
