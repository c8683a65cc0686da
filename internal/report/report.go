// Package report renders run results for people and machines. The
// engine produces structured pass/fail signals; everything about glyphs,
// color, and layout lives here.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/crosscheck-dev/crosscheck/internal/engine"
)

// Status glyphs for feature lines.
const (
	glyphPassed  = "✓"
	glyphFailed  = "✗"
	glyphSkipped = "-"
	glyphFatal   = "!"
)

// ANSI colors, applied only when the writer is a terminal.
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

// Printer writes human-readable run reports.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a printer for w. Color is enabled automatically
// when w is a terminal; use SetColor to override.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{w: w}
	if f, ok := w.(*os.File); ok {
		p.color = term.IsTerminal(int(f.Fd()))
	}
	return p
}

// SetColor forces colorized output on or off.
func (p *Printer) SetColor(on bool) {
	p.color = on
}

// PrintRun writes the full report for a run.
func (p *Printer) PrintRun(r engine.RunReport) {
	text := RenderText(r)
	if !p.color {
		fmt.Fprint(p.w, text)
		return
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		fmt.Fprint(p.w, colorizeLine(line))
	}
}

func colorizeLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	switch {
	case strings.HasPrefix(trimmed, glyphPassed+" "), strings.HasPrefix(trimmed, "PASS"):
		return colorGreen + strings.TrimRight(line, "\n") + colorReset + trailingNewline(line)
	case strings.HasPrefix(trimmed, glyphFailed+" "), strings.HasPrefix(trimmed, glyphFatal+" "), strings.HasPrefix(trimmed, "FAIL"):
		return colorRed + strings.TrimRight(line, "\n") + colorReset + trailingNewline(line)
	case strings.HasPrefix(trimmed, glyphSkipped+" "):
		return colorYellow + strings.TrimRight(line, "\n") + colorReset + trailingNewline(line)
	default:
		return line
	}
}

func trailingNewline(line string) string {
	if strings.HasSuffix(line, "\n") {
		return "\n"
	}
	return ""
}

// RenderText renders a run report as plain text. The output is
// deterministic for a given report, which lets golden files pin the
// layout.
func RenderText(r engine.RunReport) string {
	var b strings.Builder

	for _, sr := range r.Specs {
		fmt.Fprintf(&b, "%s\n", sr.Package)

		for _, fr := range sr.Features {
			glyph := glyphPassed
			switch fr.Status {
			case engine.StatusFailed:
				glyph = glyphFailed
			case engine.StatusSkipped:
				glyph = glyphSkipped
			}
			fmt.Fprintf(&b, "  %s %s\n", glyph, fr.Text)
			if fr.Detail != "" {
				fmt.Fprintf(&b, "      %s\n", fr.Detail)
			}
		}

		if sr.Fatal != nil {
			fmt.Fprintf(&b, "  %s specification aborted: %v\n", glyphFatal, sr.Fatal)
		}

		tested := sr.Total - sr.Skipped
		fmt.Fprintf(&b, "  %d/%d passed", sr.Passed, tested)
		if sr.Skipped > 0 {
			fmt.Fprintf(&b, ", %d skipped", sr.Skipped)
		}
		b.WriteString("\n\n")
	}

	if r.OK {
		fmt.Fprintf(&b, "PASS (%d specifications)\n", len(r.Specs))
	} else {
		failed := 0
		for _, sr := range r.Specs {
			if !sr.OK() {
				failed++
			}
		}
		fmt.Fprintf(&b, "FAIL (%d of %d specifications failed)\n", failed, len(r.Specs))
	}
	return b.String()
}

// JSONReport is the machine-readable shape of a run report.
type JSONReport struct {
	OK    bool       `json:"ok"`
	Specs []JSONSpec `json:"specs"`
}

// JSONSpec is one specification's result.
type JSONSpec struct {
	Package  string        `json:"package"`
	Passed   int           `json:"passed"`
	Skipped  int           `json:"skipped"`
	Total    int           `json:"total"`
	OK       bool          `json:"ok"`
	Fatal    string        `json:"fatal,omitempty"`
	Features []JSONFeature `json:"features"`
}

// JSONFeature is one feature's result.
type JSONFeature struct {
	Text   string `json:"text"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// ToJSON converts a run report into its machine-readable shape.
func ToJSON(r engine.RunReport) JSONReport {
	out := JSONReport{OK: r.OK, Specs: make([]JSONSpec, 0, len(r.Specs))}
	for _, sr := range r.Specs {
		js := JSONSpec{
			Package: sr.Package,
			Passed:  sr.Passed,
			Skipped: sr.Skipped,
			Total:   sr.Total,
			OK:      sr.OK(),
		}
		if sr.Fatal != nil {
			js.Fatal = sr.Fatal.Error()
		}
		for _, fr := range sr.Features {
			js.Features = append(js.Features, JSONFeature{
				Text:   fr.Text,
				Status: fr.Status.String(),
				Detail: fr.Detail,
			})
		}
		out.Specs = append(out.Specs, js)
	}
	return out
}
