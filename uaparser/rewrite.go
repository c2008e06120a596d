package uaparser

import "strings"

// rewriteRegex turns bounded repetitions with a large upper bound, {0,N}
// and {1,N} with N of three digits or more, into * and +. The parser
// rejects bounds above 1000.
//
// Perl classes (\d, \w, \s) are already ASCII-only in this syntax and are
// left alone. Escaped braces and braces inside character classes are not
// repetitions.
func rewriteRegex(re string) string {
	var sb strings.Builder
	from := 0
	escape := false
	classStart := -1 // index of the '[' opening the current class

	for i := 0; i < len(re); i++ {
		c := re[i]
		switch {
		case escape:
			escape = false
		case c == '\\':
			escape = true
		case classStart >= 0:
			switch {
			case c == '[' && i+1 < len(re) && re[i+1] == ':':
				// [:alpha:]
				if end := strings.Index(re[i:], ":]"); end > 0 {
					i += end + 1
				}
			case c == ']' && !classOpening(re, classStart, i):
				classStart = -1
			}
		case c == '[':
			classStart = i
		case c == '{' && i > 0:
			if end, op, ok := largeRepetition(re, i); ok {
				sb.WriteString(re[from:i])
				sb.WriteByte(op)
				from = end + 1
				i = end
			}
		}
	}

	if from == 0 {
		return re
	}
	sb.WriteString(re[from:])
	return sb.String()
}

// classOpening reports whether the ']' at i is a literal: the first
// character of the class opened at start, possibly after a negation.
func classOpening(re string, start, i int) bool {
	return i == start+1 || (i == start+2 && re[start+1] == '^')
}

// largeRepetition matches {0,N} or {1,N} with N of at least three digits
// at re[i]. It returns the index of the closing brace and the replacement
// operator.
func largeRepetition(re string, i int) (int, byte, bool) {
	if i+3 >= len(re) || re[i+2] != ',' {
		return 0, 0, false
	}
	var op byte
	switch re[i+1] {
	case '0':
		op = '*'
	case '1':
		op = '+'
	default:
		return 0, 0, false
	}

	j := i + 3
	for j < len(re) && re[j] >= '0' && re[j] <= '9' {
		j++
	}
	if j-(i+3) < 3 || j >= len(re) || re[j] != '}' {
		return 0, 0, false
	}
	return j, op, true
}
