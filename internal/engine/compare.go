package engine

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/crosscheck-dev/crosscheck/internal/spec"
)

// Match judges an executed feature: pass or fail, with a human-readable
// detail on failure.
//
// With no expected value, or the ANY sentinel, the outcome only needs to
// avoid being an error. The ERROR sentinel matches a failed outcome.
// Everything else is deep equality after canonicalization, so equivalent
// values compare equal regardless of native representation.
//
// Known limitation, kept for compatibility with the document format: a
// legitimate result value equal to the ERROR sentinel string cannot be
// told apart from a real failure.
func Match(out Outcome, expected any, hasExpected bool) (bool, string) {
	if !hasExpected || expected == spec.AnyWord {
		if out.Failed() {
			return false, out.Err.Error()
		}
		return true, ""
	}

	if out.Failed() {
		if expected == spec.ErrorWord {
			return true, ""
		}
		return false, out.Err.Error()
	}

	got := canonicalize(out.Value)
	want := canonicalize(expected)
	if reflect.DeepEqual(got, want) {
		return true, ""
	}
	return false, fmt.Sprintf("got %s, want %s", describe(got), describe(want))
}

// canonicalize rewrites a value into a representation-independent form:
// times become RFC 3339 UTC text, integer kinds widen to int64, integral
// floats fold to integers, strings are NFC-normalized, and containers
// are rebuilt recursively.
func canonicalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case string:
		return norm.NFC.String(val)
	case bool:
		return val
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return canonicalize(float64(val))
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return canonicalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = canonicalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = canonicalize(iter.Value().Interface())
		}
		return out
	default:
		return v
	}
}

// describe renders a canonicalized value for failure details.
func describe(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
