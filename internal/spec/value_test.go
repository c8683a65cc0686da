package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYAML_Scalars(t *testing.T) {
	testCases := []struct {
		name     string
		in       any
		expected any
	}{
		{"string", "hello", "hello"},
		{"bool", true, true},
		{"int widened", int(7), int64(7)},
		{"int64", int64(7), int64(7)},
		{"float", 1.5, 1.5},
		{"nil", nil, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := FromYAML(tc.in)
			s, ok := v.(Scalar)
			require.True(t, ok, "expected Scalar, got %T", v)
			assert.Equal(t, tc.expected, s.V)
		})
	}
}

func TestFromYAML_ReferenceMarkerShape(t *testing.T) {
	// A mapping with exactly one entry whose value is null is a
	// reference; every other mapping is literal data.
	v := FromYAML(map[string]any{"x": nil})
	ref, ok := v.(Ref)
	require.True(t, ok, "expected Ref, got %T", v)
	assert.Equal(t, "x", ref.Path)

	v = FromYAML(map[string]any{"point.x": nil})
	ref, ok = v.(Ref)
	require.True(t, ok)
	assert.Equal(t, "point.x", ref.Path)
}

func TestFromYAML_LiteralMappingsStayLiteral(t *testing.T) {
	testCases := []struct {
		name string
		in   map[string]any
	}{
		{"single entry, non-null value", map[string]any{"x": 1}},
		{"two entries", map[string]any{"x": nil, "y": nil}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := FromYAML(tc.in)
			_, ok := v.(Map)
			assert.True(t, ok, "expected Map, got %T", v)
		})
	}
}

func TestFromYAML_RecursesIntoContainers(t *testing.T) {
	v := FromYAML([]any{"a", map[string]any{"ref": nil}, map[string]any{"k": 1}})
	list, ok := v.(List)
	require.True(t, ok)
	require.Len(t, list, 3)

	assert.Equal(t, Scalar{V: "a"}, list[0])
	assert.Equal(t, Ref{Path: "ref"}, list[1])

	m, ok := list[2].(Map)
	require.True(t, ok)
	assert.Equal(t, Scalar{V: int64(1)}, m["k"])
}

func TestPlain_IsStructuralInverseOfFromYAML(t *testing.T) {
	in := map[string]any{
		"list":   []any{int64(1), "two", nil},
		"nested": map[string]any{"deep": true, "ref": map[string]any{"a.b": nil}},
	}

	assert.Equal(t, in, Plain(FromYAML(in)))
}
