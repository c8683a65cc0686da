package spec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseEntry converts one raw document entry - a scalar string or a
// single-key mapping - into a Feature, or fails with a
// MalformedFeatureError.
//
// The mapping key (left-hand side) is matched against the fixed pattern
//
//	(filter)? (assign=)? property? (==)?
//
// and the mapping value (right-hand side) determines the call shape: a
// list makes the feature a call whose elements are scanned for the
// expected-value marker {==: v} and keyword arguments {name=: v}; any
// other value is the literal expected value. A trailing == on the key
// forces a comparison even when the value looks call-shaped.
//
// target is the identifier of the implementation being driven; it decides
// whether an inline filter tag-list skips the feature.
func ParseEntry(entry any, index int, target string) (*Feature, error) {
	var lhs string
	var rhs any
	rhsPresent := false

	switch e := entry.(type) {
	case string:
		lhs = e
	case map[string]any:
		if len(e) != 1 {
			return nil, &MalformedFeatureError{
				Entry:  describeEntry(entry),
				Index:  index,
				Reason: fmt.Sprintf("entry mapping must have exactly one key, got %d", len(e)),
			}
		}
		for k, v := range e {
			lhs, rhs, rhsPresent = k, v, true
		}
	default:
		return nil, &MalformedFeatureError{
			Entry:  describeEntry(entry),
			Index:  index,
			Reason: fmt.Sprintf("entry must be a string or a single-key mapping, got %T", entry),
		}
	}

	f := &Feature{}

	forceCompare, err := parseLHS(f, lhs, index, target)
	if err != nil {
		return nil, err
	}
	if err := parseRHS(f, rhs, rhsPresent, forceCompare, index); err != nil {
		return nil, err
	}

	f.Text = f.render()
	return f, nil
}

// pathSegment accepts ordinary identifiers plus the marker prefixes and
// suffixes other target conventions carry (e.g. "!reset", "empty?").
var pathSegment = regexp.MustCompile(`^[!$]?[A-Za-z_][A-Za-z0-9_]*[!?]?$`)

// parseLHS decodes the mapping key into filter, assign, and property.
// It returns whether a trailing == forced the feature into a comparison.
func parseLHS(f *Feature, lhs string, index int, target string) (bool, error) {
	s := strings.TrimSpace(lhs)

	if strings.HasPrefix(s, "(") {
		end := strings.Index(s, ")")
		if end < 0 {
			return false, &MalformedFeatureError{Entry: lhs, Index: index, Reason: "unterminated filter tag-list"}
		}
		f.Skip = skipFor(s[1:end], target)
		s = strings.TrimSpace(s[end+1:])
	}

	forceCompare := false
	if strings.HasSuffix(s, "==") {
		forceCompare = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "=="))
	}

	if i := strings.Index(s, "="); i >= 0 {
		f.Assign = strings.TrimSpace(s[:i])
		f.Property = strings.TrimSpace(s[i+1:])
	} else {
		f.Property = s
	}

	if f.Assign == "" && f.Property == "" {
		return false, &MalformedFeatureError{
			Entry:  lhs,
			Index:  index,
			Reason: "entry names neither an assignment target nor a property",
		}
	}

	for _, p := range []*string{&f.Assign, &f.Property} {
		if *p == "" {
			continue
		}
		norm, err := normalizePath(*p)
		if err != nil {
			return false, &MalformedFeatureError{Entry: lhs, Index: index, Reason: err.Error()}
		}
		*p = norm
	}

	return forceCompare, nil
}

// skipFor evaluates a filter tag-list against the current target.
// The list names targets the feature applies to; a leading ! inverts the
// membership test.
func skipFor(body, target string) bool {
	body = strings.TrimSpace(body)
	negate := strings.HasPrefix(body, "!")
	if negate {
		body = strings.TrimSpace(body[1:])
	}
	member := false
	for _, tag := range strings.FieldsFunc(body, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	}) {
		if tag == target {
			member = true
			break
		}
	}
	if negate {
		return member
	}
	return !member
}

// normalizePath validates a dotted path and camelizes snake_case segments
// so document authors and target-language identifier conventions can
// differ without extra configuration: the letter after each underscore is
// upper-cased and the underscore dropped.
func normalizePath(path string) (string, error) {
	segs := strings.Split(path, ".")
	for i, seg := range segs {
		if !pathSegment.MatchString(seg) {
			return "", fmt.Errorf("invalid path segment %q in %q", seg, path)
		}
		segs[i] = camelizeSegment(seg)
	}
	return strings.Join(segs, "."), nil
}

func camelizeSegment(seg string) string {
	if !strings.Contains(seg, "_") {
		return seg
	}
	i := 0
	for i < len(seg) && seg[i] == '_' {
		i++
	}
	lead := seg[:i] // leading underscores are not separators
	parts := strings.Split(seg[i:], "_")

	var b strings.Builder
	b.WriteString(lead)
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(p[size:])
	}
	return b.String()
}

// parseRHS decodes the mapping value. A list is the call-args shape
// unless the key carried a trailing == (or the entry has no property to
// call); anything else is the literal expected value. A bare null means
// no comparison was authored, leaving "must not error" semantics.
func parseRHS(f *Feature, rhs any, present, forceCompare bool, index int) error {
	if !present || rhs == nil {
		return nil
	}

	list, isList := rhs.([]any)
	if !isList || forceCompare || f.Property == "" {
		f.Expected = FromYAML(rhs)
		f.HasExpected = true
		return nil
	}

	f.IsCall = true
	for _, elem := range list {
		if m, ok := elem.(map[string]any); ok && len(m) == 1 {
			var key string
			var val any
			for k, v := range m {
				key, val = k, v
			}
			if key == "==" {
				f.Expected = FromYAML(val)
				f.HasExpected = true
				continue
			}
			if strings.HasSuffix(key, "=") && !strings.HasSuffix(key, "==") {
				f.Kwargs = append(f.Kwargs, Kwarg{
					Name:  strings.TrimSuffix(key, "="),
					Value: FromYAML(val),
				})
				continue
			}
		}
		f.Args = append(f.Args, FromYAML(elem))
	}
	return nil
}

// describeEntry renders an entry for error messages.
func describeEntry(entry any) string {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf("%v", entry)
	}
	return string(data)
}
