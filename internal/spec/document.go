package spec

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Specification is one logical unit of testing for one package: the
// ordered features declared for it across one or more documents. It is
// built once per run and discarded after reporting.
type Specification struct {
	// Package identifies the live implementation the features run
	// against.
	Package string

	// Features in document order. Order matters: later features may
	// reference scope bindings produced by earlier ones. Features[0] is
	// always the PACKAGE binding.
	Features []*Feature

	// Malformed is set when an entry after the header failed to parse.
	// The specification cannot be trusted and must not run; this is
	// reported as an authoring error, never as a test failure.
	Malformed *MalformedFeatureError
}

// ParseDocument parses one specification document: a YAML sequence of
// entries whose first entry binds the PACKAGE constant to the identifier
// of the implementation under test.
//
// Documents that are not YAML sequences, or whose first entry is not a
// valid PACKAGE header for this target, fail with ErrNotASpecification
// and are meant to be excluded from the run silently. Grammar errors in
// later entries do not fail the parse; they are recorded on the returned
// Specification so the run can report them as authoring errors.
func ParseDocument(text, target string) (*Specification, error) {
	var entries []any
	if err := yaml.Unmarshal([]byte(text), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotASpecification, err)
	}
	if len(entries) == 0 {
		return nil, ErrNotASpecification
	}

	header, err := ParseEntry(entries[0], 0, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotASpecification, err)
	}
	pkg, ok := packageHeader(header)
	if !ok {
		return nil, ErrNotASpecification
	}

	s := &Specification{
		Package:  pkg,
		Features: []*Feature{header},
	}
	for i, entry := range entries[1:] {
		f, err := ParseEntry(entry, i+1, target)
		if err != nil {
			var me *MalformedFeatureError
			errors.As(err, &me)
			s.Malformed = me
			break
		}
		s.Features = append(s.Features, f)
	}
	return s, nil
}

// packageHeader validates a document's first feature as the PACKAGE
// binding and returns the package identifier it names.
//
// The canonical form is the assignment "PACKAGE=", but a bare "PACKAGE"
// key with a literal value is accepted and normalized to it, since the
// grammar cannot otherwise tell a lone name apart from a property read.
// A header skipped for this target is not a match.
func packageHeader(f *Feature) (string, bool) {
	if f.Skip || f.IsCall || !f.HasExpected {
		return "", false
	}
	switch {
	case f.Assign == "PACKAGE" && f.Property == "":
	case f.Assign == "" && f.Property == "PACKAGE":
		f.Assign = "PACKAGE"
		f.Property = ""
		f.Text = f.render()
	default:
		return "", false
	}
	scalar, ok := f.Expected.(Scalar)
	if !ok {
		return "", false
	}
	pkg, ok := scalar.V.(string)
	if !ok || pkg == "" {
		return "", false
	}
	return pkg, true
}

// Merge concatenates specifications naming the same package into one,
// preserving first-seen package order and document order within each
// package. The PACKAGE header of later documents is dropped so the
// constant is bound exactly once per merged specification.
func Merge(specs []*Specification) []*Specification {
	var order []string
	byPkg := make(map[string]*Specification)

	for _, s := range specs {
		existing, ok := byPkg[s.Package]
		if !ok {
			merged := &Specification{
				Package:   s.Package,
				Features:  append([]*Feature(nil), s.Features...),
				Malformed: s.Malformed,
			}
			byPkg[s.Package] = merged
			order = append(order, s.Package)
			continue
		}
		existing.Features = append(existing.Features, s.Features[1:]...)
		if existing.Malformed == nil {
			existing.Malformed = s.Malformed
		}
	}

	out := make([]*Specification, len(order))
	for i, pkg := range order {
		out[i] = byPkg[pkg]
	}
	return out
}
