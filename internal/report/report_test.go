package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscheck-dev/crosscheck/internal/engine"
)

func mixedRunReport() engine.RunReport {
	return engine.RunReport{
		OK: false,
		Specs: []engine.SpecReport{
			{
				Package: "strutil",
				Features: []engine.FeatureResult{
					{Text: `PACKAGE = "strutil"`, Status: engine.StatusPassed},
					{Text: `toUpper("ok") == "OK"`, Status: engine.StatusPassed},
					{Text: `reverse("ab") == "ba"`, Status: engine.StatusFailed, Detail: `got "ab", want "ba"`},
					{Text: `toLocale("x")`, Status: engine.StatusSkipped},
				},
				Passed:  2,
				Skipped: 1,
				Total:   4,
			},
			{
				Package: "calc",
				Features: []engine.FeatureResult{
					{Text: `PACKAGE = "calc"`, Status: engine.StatusPassed},
				},
				Passed: 1,
				Total:  1,
			},
			{
				Package: "ghost",
				Total:   1,
				Fatal:   &engine.UnknownPackageError{Package: "ghost"},
			},
		},
	}
}

func TestRenderText_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "run_report", []byte(RenderText(mixedRunReport())))
}

func TestRenderText_AllPassing(t *testing.T) {
	out := RenderText(engine.RunReport{
		OK: true,
		Specs: []engine.SpecReport{
			{
				Package: "strutil",
				Features: []engine.FeatureResult{
					{Text: `PACKAGE = "strutil"`, Status: engine.StatusPassed},
				},
				Passed: 1,
				Total:  1,
			},
		},
	})

	assert.Contains(t, out, "strutil\n")
	assert.Contains(t, out, "  1/1 passed\n")
	assert.True(t, strings.HasSuffix(out, "PASS (1 specifications)\n"))
}

func TestPrinter_PlainWriterGetsNoColor(t *testing.T) {
	var buf bytes.Buffer
	r := mixedRunReport()

	NewPrinter(&buf).PrintRun(r)

	assert.Equal(t, RenderText(r), buf.String())
}

func TestPrinter_ForcedColor(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.SetColor(true)

	p.PrintRun(mixedRunReport())
	out := buf.String()

	assert.Contains(t, out, colorGreen+"  ✓ "+`PACKAGE = "strutil"`+colorReset)
	assert.Contains(t, out, colorRed)
	assert.Contains(t, out, colorYellow)
}

func TestToJSON(t *testing.T) {
	js := ToJSON(mixedRunReport())

	assert.False(t, js.OK)
	require.Len(t, js.Specs, 3)

	strutil := js.Specs[0]
	assert.Equal(t, "strutil", strutil.Package)
	assert.False(t, strutil.OK)
	require.Len(t, strutil.Features, 4)
	assert.Equal(t, "passed", strutil.Features[0].Status)
	assert.Equal(t, "failed", strutil.Features[2].Status)
	assert.Equal(t, `got "ab", want "ba"`, strutil.Features[2].Detail)
	assert.Equal(t, "skipped", strutil.Features[3].Status)

	assert.True(t, js.Specs[1].OK)

	ghost := js.Specs[2]
	assert.False(t, ghost.OK)
	assert.Contains(t, ghost.Fatal, "no implementation registered")
}
