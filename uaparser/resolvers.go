package uaparser

import (
	"strings"
)

// resolver computes one field of an extraction result from the capture
// groups of the matching regex. An empty result means the field is unset.
type resolver struct {
	kind  resolverKind
	value string // replacement or template
	group int    // capture group for resolveCapture
}

type resolverKind uint8

const (
	resolveNone        resolverKind = iota // always unset
	resolveReplacement                     // value as is
	resolveCapture                         // capture group
	resolveTemplate                        // value with $1-$9 expanded, trimmed
	resolveFamily                          // value with $1 expanded
)

// newResolver returns a resolver with full templating. A non-blank
// replacement is used, expanded if it refers to groups; otherwise the
// capture group idx if the regex has it, or an empty string.
func newResolver(repl *string, groups, idx int) resolver {
	if r, ok := templated(repl); ok {
		return r
	}
	if groups >= idx {
		return resolver{kind: resolveCapture, group: idx}
	}
	return resolver{kind: resolveReplacement}
}

// newOptResolver is like newResolver but leaves the field unset when
// there is neither a replacement nor a group.
func newOptResolver(repl *string, groups, idx int) resolver {
	if r, ok := templated(repl); ok {
		return r
	}
	if groups >= idx {
		return resolver{kind: resolveCapture, group: idx}
	}
	return resolver{kind: resolveNone}
}

func templated(repl *string) (resolver, bool) {
	if repl == nil || strings.TrimSpace(*repl) == "" {
		return resolver{}, false
	}
	if hasSubstitution(*repl) {
		return resolver{kind: resolveTemplate, value: *repl}, true
	}
	return resolver{kind: resolveReplacement, value: *repl}, true
}

// newFamilyResolver returns the resolver of the user agent family. Its
// replacement may only refer to the first group, as $1.
func newFamilyResolver(repl *string, groups int) (resolver, error) {
	switch {
	case repl != nil && strings.Contains(*repl, "$1"):
		if groups < 1 {
			return resolver{}, &MissingGroupError{Group: 1}
		}
		return resolver{kind: resolveFamily, value: *repl}, nil
	case repl != nil && *repl != "":
		return resolver{kind: resolveReplacement, value: *repl}, nil
	case groups >= 1:
		return resolver{kind: resolveCapture, group: 1}, nil
	default:
		return resolver{kind: resolveReplacement}, nil
	}
}

// newFallbackResolver returns an untemplated resolver: the replacement as
// is, or else the capture group idx.
func newFallbackResolver(repl *string, groups, idx int) resolver {
	switch {
	case repl != nil && *repl != "":
		return resolver{kind: resolveReplacement, value: *repl}
	case groups >= idx:
		return resolver{kind: resolveCapture, group: idx}
	default:
		return resolver{kind: resolveNone}
	}
}

func (r resolver) resolve(c captures) string {
	switch r.kind {
	case resolveReplacement:
		return r.value
	case resolveCapture:
		return c.get(r.group)
	case resolveTemplate:
		return strings.TrimSpace(c.expand(r.value))
	case resolveFamily:
		return strings.ReplaceAll(r.value, "$1", c.get(1))
	default:
		return ""
	}
}

// hasSubstitution reports whether s contains a $n group reference.
func hasSubstitution(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '$' && isDigit(s[i+1]) {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// captures are the submatch positions of a regex on an input.
type captures struct {
	input   string
	indices []int
}

// get returns group i, or "" if the group did not participate.
func (c captures) get(i int) string {
	if 2*i+1 >= len(c.indices) || c.indices[2*i] < 0 {
		return ""
	}
	return c.input[c.indices[2*i]:c.indices[2*i+1]]
}

// expand replaces every $n in template, n a single digit, with group n.
// "$$" stands for a literal "$".
func (c captures) expand(template string) string {
	var sb strings.Builder
	for i := 0; i < len(template); i++ {
		ch := template[i]
		if ch == '$' && i+1 < len(template) {
			next := template[i+1]
			switch {
			case isDigit(next):
				sb.WriteString(c.get(int(next - '0')))
				i++
				continue
			case next == '$':
				sb.WriteByte('$')
				i++
				continue
			}
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}
