package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strutilDoc = `
- PACKAGE: strutil
- toUpper: [ok, {"==": OK}]
- reverse: [ab, {"==": ba}]
`

func TestParseDocument(t *testing.T) {
	s, err := ParseDocument(strutilDoc, "go")
	require.NoError(t, err)

	assert.Equal(t, "strutil", s.Package)
	assert.Nil(t, s.Malformed)
	require.Len(t, s.Features, 3)

	// The header is normalized to the canonical assignment form.
	header := s.Features[0]
	assert.Equal(t, "PACKAGE", header.Assign)
	assert.Empty(t, header.Property)
	assert.Equal(t, `PACKAGE = "strutil"`, header.Text)

	assert.Equal(t, `toUpper("ok") == "OK"`, s.Features[1].Text)
	assert.Equal(t, `reverse("ab") == "ba"`, s.Features[2].Text)
}

func TestParseDocument_AssignmentFormHeader(t *testing.T) {
	s, err := ParseDocument(`["PACKAGE=strutil"]`, "go")
	require.Error(t, err)
	assert.Nil(t, s)

	// The assignment form carries the package name as the literal value,
	// not in the key.
	s, err = ParseDocument("- PACKAGE=: strutil\n- toUpper:\n", "go")
	require.NoError(t, err)
	assert.Equal(t, "strutil", s.Package)
}

func TestParseDocument_NotASpecification(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{"not yaml", "\t{{{"},
		{"not a sequence", "key: value"},
		{"empty", ""},
		{"first entry is not a header", "- toUpper: [ok]"},
		{"header value is not a string", "- PACKAGE: 42"},
		{"header value is empty", `- PACKAGE: ""`},
		{"header is a call", "- PACKAGE: [strutil]"},
		{"header filtered for this target", "- (js) PACKAGE: strutil"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDocument(tc.text, "go")
			assert.ErrorIs(t, err, ErrNotASpecification)
		})
	}
}

func TestParseDocument_MalformedEntryRecordedNotFatal(t *testing.T) {
	doc := `
- PACKAGE: strutil
- toUpper: [ok, {"==": OK}]
- 42
- reverse: [ab]
`
	s, err := ParseDocument(doc, "go")
	require.NoError(t, err)

	require.NotNil(t, s.Malformed)
	assert.Equal(t, 2, s.Malformed.Index)
	// Parsing stops at the malformed entry.
	assert.Len(t, s.Features, 2)
}

func TestMerge(t *testing.T) {
	a, err := ParseDocument("- PACKAGE: strutil\n- toUpper:\n", "go")
	require.NoError(t, err)
	b, err := ParseDocument("- PACKAGE: calc\n- add: [1, 2]\n", "go")
	require.NoError(t, err)
	c, err := ParseDocument("- PACKAGE: strutil\n- reverse:\n", "go")
	require.NoError(t, err)

	merged := Merge([]*Specification{a, b, c})
	require.Len(t, merged, 2)

	// First-seen package order is preserved.
	assert.Equal(t, "strutil", merged[0].Package)
	assert.Equal(t, "calc", merged[1].Package)

	// Later documents contribute their features but not a second PACKAGE
	// binding.
	texts := make([]string, 0, len(merged[0].Features))
	for _, f := range merged[0].Features {
		texts = append(texts, f.Text)
	}
	assert.Equal(t, []string{`PACKAGE = "strutil"`, "toUpper", "reverse"}, texts)
}

func TestMerge_CarriesMalformedState(t *testing.T) {
	ok, err := ParseDocument("- PACKAGE: strutil\n- toUpper:\n", "go")
	require.NoError(t, err)
	bad, err := ParseDocument("- PACKAGE: strutil\n- 42\n", "go")
	require.NoError(t, err)
	require.NotNil(t, bad.Malformed)

	merged := Merge([]*Specification{ok, bad})
	require.Len(t, merged, 1)
	assert.NotNil(t, merged[0].Malformed)
}
