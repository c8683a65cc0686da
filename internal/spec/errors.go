package spec

import (
	"errors"
	"fmt"
)

// ErrNotASpecification marks a document whose first entry is not a valid
// PACKAGE header. Such documents are excluded from the run silently; they
// are treated as non-matching files, not as errors.
var ErrNotASpecification = errors.New("document is not a specification")

// MalformedFeatureError reports an entry that does not match the feature
// grammar. It is a specification-authoring error: fatal to the enclosing
// specification, never coerced into a passed or failed test result.
type MalformedFeatureError struct {
	// Entry is a rendering of the offending document entry.
	Entry string

	// Index is the position of the entry within its document.
	Index int

	// Reason describes what failed to parse.
	Reason string
}

func (e *MalformedFeatureError) Error() string {
	return fmt.Sprintf("malformed feature at entry %d (%s): %s", e.Index, e.Entry, e.Reason)
}

// IsMalformed reports whether err is a MalformedFeatureError.
// Uses errors.As to handle wrapped errors.
func IsMalformed(err error) bool {
	var me *MalformedFeatureError
	return errors.As(err, &me)
}
