package engine

import (
	"fmt"
	"reflect"

	"github.com/crosscheck-dev/crosscheck/internal/spec"
)

// Outcome is the result of performing a feature's operation. Err marks
// the error sentinel: the operation failed (an error return, a panic, or
// an unresolvable operand). A failed outcome is a first-class value that
// participates in ordinary comparison; it never aborts the run.
type Outcome struct {
	Value any
	Err   error
}

// Failed reports whether the outcome is the error sentinel.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Execution carries an executed feature's outcome together with its
// independently resolved expected value, ready for comparison.
type Execution struct {
	Outcome     Outcome
	Expected    any
	HasExpected bool
}

// Execute interprets one feature against its owning scope: it resolves
// the expected value and arguments, performs the read, call, or literal
// assignment, and applies any scope binding.
//
// Failures inside the implementation under test are captured into the
// outcome; Execute itself fails only for specification-authoring errors
// (rebinding a constant, an unwritable assignment path), which abort the
// enclosing specification.
func Execute(f *spec.Feature, s *Scope) (Execution, error) {
	var ex Execution

	if f.HasExpected {
		expected, err := Resolve(f.Expected, s)
		if err != nil {
			// An unresolvable expected value fails the feature the same
			// way an unresolvable operand does.
			ex.Outcome = Outcome{Err: err}
			return ex, nil
		}
		ex.Expected = expected
		ex.HasExpected = true
	}

	switch {
	case f.Property == "":
		ex.Outcome = Outcome{Value: ex.Expected}

	case !f.IsCall:
		b, err := s.Lookup(f.Property)
		if err != nil {
			ex.Outcome = Outcome{Err: err}
		} else {
			ex.Outcome = Outcome{Value: b.Value}
		}

	default:
		ex.Outcome = executeCall(f, s)
	}

	if f.Assign != "" && !ex.Outcome.Failed() {
		if err := s.Bind(f.Assign, ex.Outcome.Value); err != nil {
			return ex, err
		}
	}

	return ex, nil
}

// executeCall resolves the arguments and invokes the feature's operand.
// For Go implementations a constructor is an ordinary function that
// returns a new instance, so Constructible and Callable bindings share
// one call path; the classification exists for the naming policy and
// for reporting.
func executeCall(f *spec.Feature, s *Scope) Outcome {
	args := make([]any, 0, len(f.Args)+1)
	for _, a := range f.Args {
		r, err := Resolve(a, s)
		if err != nil {
			return Outcome{Err: err}
		}
		args = append(args, r)
	}

	if len(f.Kwargs) > 0 {
		// Named arguments travel as one trailing mapping argument.
		kw := make(map[string]any, len(f.Kwargs))
		for _, k := range f.Kwargs {
			r, err := Resolve(k.Value, s)
			if err != nil {
				return Outcome{Err: err}
			}
			kw[k.Name] = r
		}
		args = append(args, kw)
	}

	b, err := s.Lookup(f.Property)
	if err != nil {
		return Outcome{Err: err}
	}
	if b.Kind != KindCallable && b.Kind != KindConstructible {
		return Outcome{Err: &PathError{Path: f.Property, Segment: b.Name, Reason: "not callable"}}
	}

	return call(b.Value, args)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// call invokes a function value reflectively. Panics and trailing error
// returns both collapse into a failed outcome.
func call(fn any, args []any) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	fv := reflect.ValueOf(fn)
	in, err := buildArgs(fv.Type(), args)
	if err != nil {
		return Outcome{Err: err}
	}

	results := fv.Call(in)

	if n := len(results); n > 0 && results[n-1].Type().Implements(errType) {
		if !results[n-1].IsNil() {
			return Outcome{Err: results[n-1].Interface().(error)}
		}
		results = results[:n-1]
	}

	switch len(results) {
	case 0:
		return Outcome{}
	case 1:
		return Outcome{Value: results[0].Interface()}
	default:
		vals := make([]any, len(results))
		for i, r := range results {
			vals[i] = r.Interface()
		}
		return Outcome{Value: vals}
	}
}

// buildArgs adapts resolved argument values to a function signature,
// widening numeric kinds where needed.
func buildArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	if ft.IsVariadic() {
		if len(args) < ft.NumIn()-1 {
			return nil, fmt.Errorf("expected at least %d arguments, got %d", ft.NumIn()-1, len(args))
		}
	} else if len(args) != ft.NumIn() {
		return nil, fmt.Errorf("expected %d arguments, got %d", ft.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= ft.NumIn()-1 {
			pt = ft.In(ft.NumIn() - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		av, err := adaptArg(a, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = av
	}
	return in, nil
}

func adaptArg(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch pt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use null as %s", pt)
	}

	av := reflect.ValueOf(a)
	if av.Type().AssignableTo(pt) {
		return av, nil
	}
	if isNumericKind(av.Kind()) && isNumericKind(pt.Kind()) && av.Type().ConvertibleTo(pt) {
		return av.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", a, pt)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
