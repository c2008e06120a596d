package literal

import (
	"unicode"
	"unicode/utf8"
)

// FoldRune maps r to the canonical representative of its simple case-folding
// orbit. Two runes that compare equal under Unicode simple case folding map
// to the same rune, so folded text can be compared byte for byte.
//
// ASCII letters fold to lower case. Runes such as U+212A KELVIN SIGN fold to
// the ASCII letter of their orbit ('k').
//
// Example:
//
//	fmt.Println(string(literal.FoldRune('Q'))) // Output: q
func FoldRune(r rune) rune {
	if r < utf8.RuneSelf {
		if 'A' <= r && r <= 'Z' {
			return r + 'a' - 'A'
		}
		// 'k' and 's' have non-ASCII orbit members, but the ASCII upper
		// case letter is always the smallest element of the orbit.
		return r
	}
	lowest := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < lowest {
			lowest = f
		}
	}
	return unicode.ToLower(lowest)
}

// Fold returns s with every rune replaced by FoldRune.
//
// Example:
//
//	fmt.Println(literal.Fold("Mozilla/5.0")) // Output: mozilla/5.0
func Fold(s string) string {
	return string(AppendFold(make([]byte, 0, len(s)), s))
}

// AppendFold appends the case-folded form of s to dst and returns the
// extended buffer. Bytes that are not valid UTF-8 are copied unchanged.
func AppendFold(dst []byte, s string) []byte {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			dst = append(dst, c)
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, c)
			i++
			continue
		}
		dst = utf8.AppendRune(dst, FoldRune(r))
		i += size
	}
	return dst
}

// hasCase reports whether any rune of s has another member in its
// case-folding orbit.
func hasCase(s string) bool {
	for _, r := range s {
		if unicode.SimpleFold(r) != r {
			return true
		}
	}
	return false
}
