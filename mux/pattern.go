package mux

import (
	"fmt"
	"strings"
)

// segment is one compiled pattern segment: either a literal or a named
// placeholder.
type segment struct {
	literal string
	name    string
}

// isVar reports whether the segment is a placeholder.
func (s segment) isVar() bool {
	return s.name != ""
}

// compilePattern splits a route pattern into segments. A placeholder must
// span a whole segment ("{id}"); partial-segment placeholders, empty names,
// unbalanced braces and duplicate names are rejected.
func compilePattern(pattern string) ([]segment, error) {
	parts := splitPath(pattern)
	segments := make([]segment, len(parts))
	seen := make(map[string]struct{})

	for i, part := range parts {
		open := strings.IndexByte(part, '{')
		end := strings.LastIndexByte(part, '}')

		if open == -1 && end == -1 {
			segments[i] = segment{literal: part}
			continue
		}

		if open != 0 || end != len(part)-1 {
			return nil, fmt.Errorf("mux: placeholder must span a whole segment in %q from %q", part, pattern)
		}

		name := part[1 : len(part)-1]
		if name == "" {
			return nil, fmt.Errorf("mux: missing name in %q from %q", part, pattern)
		}
		if strings.ContainsAny(name, "{}") {
			return nil, fmt.Errorf("mux: unbalanced braces in %q", pattern)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("mux: duplicated route variable %q", name)
		}
		seen[name] = struct{}{}

		segments[i] = segment{name: name}
	}

	return segments, nil
}
