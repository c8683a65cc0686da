package engine

import (
	"errors"
	"fmt"
)

// ConstantError reports an attempt to rebind an already-bound constant
// (a path whose last segment leads with an upper-case letter). It is a
// specification-authoring error: the run for the enclosing specification
// aborts rather than recording a test failure.
type ConstantError struct {
	Path string
}

func (e *ConstantError) Error() string {
	return fmt.Sprintf("constant %q is already bound and may not be reassigned", e.Path)
}

// PathError reports a dotted path that could not be walked or written.
type PathError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *PathError) Error() string {
	if e.Segment != "" && e.Segment != e.Path {
		return fmt.Sprintf("path %q: segment %q: %s", e.Path, e.Segment, e.Reason)
	}
	return fmt.Sprintf("path %q: %s", e.Path, e.Reason)
}

// UnknownPackageError reports a specification naming a package with no
// registered implementation.
type UnknownPackageError struct {
	Package string
}

func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("no implementation registered for package %q", e.Package)
}

// IsConstantError reports whether err is a ConstantError.
// Uses errors.As to handle wrapped errors.
func IsConstantError(err error) bool {
	var ce *ConstantError
	return errors.As(err, &ce)
}
