package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscheck-dev/crosscheck/internal/spec"
)

func mustParse(t *testing.T, doc string) *spec.Specification {
	t.Helper()
	s, err := spec.ParseDocument(doc, "go")
	require.NoError(t, err)
	return s
}

func TestRunSpec_AllFeaturesPass(t *testing.T) {
	r := NewRunner(map[string]any{
		"strutil": map[string]any{"toUpper": strings.ToUpper},
	})

	report := r.RunSpec(mustParse(t, `
- PACKAGE: strutil
- toUpper: [ok, {"==": OK}]
`))

	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Features, 2)
	assert.Equal(t, StatusPassed, report.Features[0].Status)
	assert.Equal(t, StatusPassed, report.Features[1].Status)
}

func TestRunSpec_PackageIdentifierIsOpaque(t *testing.T) {
	// Any non-empty string names a package, even one that collides with
	// grammar markers.
	r := NewRunner(map[string]any{
		"==": map[string]any{"toUpper": strings.ToUpper},
	})

	report := r.RunSpec(mustParse(t, `
- PACKAGE: "=="
- toUpper: [ok, {"==": OK}]
`))

	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Passed)
}

func TestRunSpec_WrongResultFailsTheFeature(t *testing.T) {
	r := NewRunner(map[string]any{
		"strutil": map[string]any{"toUpper": func(s string) string { return s }},
	})

	report := r.RunSpec(mustParse(t, `
- PACKAGE: strutil
- toUpper: [ok, {"==": OK}]
`))

	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Passed)
	require.Len(t, report.Features, 2)
	assert.Equal(t, StatusFailed, report.Features[1].Status)
	assert.Equal(t, `got "ok", want "OK"`, report.Features[1].Detail)
}

func TestRunSpec_ErrorSentinelMatchesThrownError(t *testing.T) {
	r := NewRunner(map[string]any{
		"things": map[string]any{
			"Thing": func(a, b int64) (any, error) {
				return nil, errors.New("no thing for you")
			},
		},
	})

	report := r.RunSpec(mustParse(t, `
- PACKAGE: things
- Thing: [1, 2, {"==": ERROR}]
`))

	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Passed)
}

func TestRunSpec_ReferencesReachEarlierBindings(t *testing.T) {
	var received any
	r := NewRunner(map[string]any{
		"demo": map[string]any{
			"value": 42,
			"check": func(v int64) int64 {
				received = v
				return v
			},
		},
	})

	report := r.RunSpec(mustParse(t, `
- PACKAGE: demo
- x=value:
- check:
    - x:
`))

	assert.True(t, report.OK())
	assert.Equal(t, 3, report.Passed)
	assert.Equal(t, int64(42), received)
}

func TestRunSpec_SkippedFeaturesNeverExecute(t *testing.T) {
	r := NewRunner(map[string]any{
		"demo": map[string]any{
			"forbidden": func() { panic("must not run") },
		},
	})

	report := r.RunSpec(mustParse(t, `
- PACKAGE: demo
- (js) forbidden: []
`))

	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Features, 2)
	assert.Equal(t, StatusSkipped, report.Features[1].Status)
}

func TestRunSpec_MalformedSpecificationIsFatal(t *testing.T) {
	r := NewRunner(map[string]any{"demo": map[string]any{}})

	report := r.RunSpec(mustParse(t, `
- PACKAGE: demo
- 42
`))

	assert.False(t, report.OK())
	require.NotNil(t, report.Fatal)
	assert.True(t, spec.IsMalformed(report.Fatal))
	assert.Empty(t, report.Features)
}

func TestRunSpec_UnknownPackageIsFatal(t *testing.T) {
	r := NewRunner(map[string]any{})

	report := r.RunSpec(mustParse(t, "- PACKAGE: ghost\n"))

	assert.False(t, report.OK())
	var upe *UnknownPackageError
	require.ErrorAs(t, report.Fatal, &upe)
	assert.Equal(t, "ghost", upe.Package)
}

func TestRunSpec_ConstantReassignmentAbortsMidRun(t *testing.T) {
	r := NewRunner(map[string]any{"demo": map[string]any{"touch": func() bool {
		return true
	}}})

	report := r.RunSpec(mustParse(t, `
- PACKAGE: demo
- touch: []
- PACKAGE=: other
- touch: []
`))

	assert.False(t, report.OK())
	assert.True(t, IsConstantError(report.Fatal))
	// Features before the abort are still reported; the rest never ran.
	assert.Len(t, report.Features, 2)
	assert.Equal(t, 2, report.Passed)
}

func TestRunSpec_HooksAreMergedBeforeExecution(t *testing.T) {
	r := NewRunner(map[string]any{"demo": map[string]any{}})
	r.RegisterHook("fixture", func(s *Scope, args ...any) (any, error) {
		return "loaded", nil
	})

	report := r.RunSpec(mustParse(t, `
- PACKAGE: demo
- x=fixture: []
- x==: loaded
`))

	assert.True(t, report.OK())
	assert.Equal(t, 3, report.Passed)
}

func TestRun_NoShortCircuit(t *testing.T) {
	r := NewRunner(map[string]any{
		"first":  map[string]any{"ok": func() bool { return false }},
		"second": map[string]any{"ok": func() bool { return true }},
	})

	specs := []*spec.Specification{
		mustParse(t, "- PACKAGE: first\n- ok: [{\"==\": true}]\n"),
		mustParse(t, "- PACKAGE: second\n- ok: [{\"==\": true}]\n"),
	}

	report := r.Run(specs)

	assert.False(t, report.OK)
	require.Len(t, report.Specs, 2)
	assert.False(t, report.Specs[0].OK())
	assert.True(t, report.Specs[1].OK())
}
