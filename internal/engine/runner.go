package engine

import (
	"io"
	"log/slog"

	"github.com/crosscheck-dev/crosscheck/internal/spec"
)

// Status is the reported disposition of one feature.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// FeatureResult is the per-feature output handed to the presentation
// layer: the feature's canonical text, its status, and a failure detail.
type FeatureResult struct {
	Text   string
	Status Status
	Detail string
}

// SpecReport aggregates one specification's run. Passed counts only
// executed features; Skipped is tracked separately so summaries can
// report tested-versus-total excluding skips.
type SpecReport struct {
	Package  string
	Features []FeatureResult
	Passed   int
	Skipped  int
	Total    int

	// Fatal is set for specification-authoring errors: malformed
	// grammar, a missing implementation, or a constant reassignment.
	// These abort the specification and are reported distinctly from
	// test failures.
	Fatal error
}

// OK reports the specification verdict: every non-skipped feature
// passed and nothing aborted the run.
func (r SpecReport) OK() bool {
	return r.Fatal == nil && r.Passed+r.Skipped == r.Total
}

// RunReport aggregates a whole run. OK is the logical AND over all
// specification verdicts.
type RunReport struct {
	Specs []SpecReport
	OK    bool
}

// Runner executes specifications against registered implementations,
// one at a time, in the order given.
type Runner struct {
	impls map[string]any
	hooks map[string]Hook
	log   *slog.Logger
}

// NewRunner creates a runner over an implementation registry mapping
// package identifiers (as named by PACKAGE headers) to their live
// implementation roots.
func NewRunner(impls map[string]any) *Runner {
	return &Runner{
		impls: impls,
		hooks: make(map[string]Hook),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// RegisterHook adds a per-target extension callable merged into every
// specification's initial scope before any feature executes.
func (r *Runner) RegisterHook(name string, h Hook) {
	r.hooks[name] = h
}

// SetLogger replaces the runner's logger. The default discards.
func (r *Runner) SetLogger(log *slog.Logger) {
	if log != nil {
		r.log = log
	}
}

// RunSpec executes one specification in document order against a fresh
// scope. The scope and its bindings live for this call only.
func (r *Runner) RunSpec(s *spec.Specification) SpecReport {
	report := SpecReport{
		Package: s.Package,
		Total:   len(s.Features),
	}

	if s.Malformed != nil {
		report.Fatal = s.Malformed
		r.log.Error("specification is malformed", "package", s.Package, "err", s.Malformed)
		return report
	}

	impl, ok := r.impls[s.Package]
	if !ok {
		report.Fatal = &UnknownPackageError{Package: s.Package}
		r.log.Error("no implementation registered", "package", s.Package)
		return report
	}

	scope := NewScope(impl)
	for name, h := range r.hooks {
		scope.BindHook(name, h)
	}

	for _, f := range s.Features {
		if f.Skip {
			report.Features = append(report.Features, FeatureResult{
				Text:   f.Text,
				Status: StatusSkipped,
			})
			report.Skipped++
			continue
		}

		ex, err := Execute(f, scope)
		if err != nil {
			// Authoring error: the specification cannot be trusted
			// past this point.
			report.Fatal = err
			r.log.Error("specification aborted", "package", s.Package, "feature", f.Text, "err", err)
			break
		}

		result := FeatureResult{Text: f.Text, Status: StatusPassed}
		pass, detail := Match(ex.Outcome, ex.Expected, ex.HasExpected)
		if pass {
			report.Passed++
		} else {
			result.Status = StatusFailed
			result.Detail = detail
		}
		report.Features = append(report.Features, result)

		r.log.Debug("feature executed",
			"package", s.Package,
			"feature", f.Text,
			"status", result.Status.String(),
		)
	}

	return report
}

// Run executes every specification and aggregates the verdict. There is
// no short-circuit: every specification runs and reports even after an
// earlier failure.
func (r *Runner) Run(specs []*spec.Specification) RunReport {
	report := RunReport{OK: true}
	for _, s := range specs {
		sr := r.RunSpec(s)
		report.Specs = append(report.Specs, sr)
		if !sr.OK() {
			report.OK = false
		}
	}
	return report
}
