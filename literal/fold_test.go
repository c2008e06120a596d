package literal

import (
	"testing"
)

func TestFoldRune(t *testing.T) {
	tests := []struct {
		in, want rune
	}{
		{'A', 'a'},
		{'a', 'a'},
		{'1', '1'},
		{'\u212A', 'k'}, // KELVIN SIGN
		{'K', 'k'},
		{'ſ', 's'}, // LATIN SMALL LETTER LONG S
		{'À', 'à'},
		{'Σ', 'σ'}, // Σ
		{'ς', 'σ'}, // final sigma
		{'世', '世'},
	}

	for _, tt := range tests {
		if got := FoldRune(tt.in); got != tt.want {
			t.Errorf("FoldRune(%U) = %U, want %U", tt.in, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Mozilla/5.0", "mozilla/5.0"},
		{"ÀB", "àb"},
		{"\u212Aelvin", "kelvin"},
		{"ΣΊΣΥΦΟΣ", "σίσυφοσ"},
		{"a\xffB", "a\xffb"}, // invalid UTF-8 is copied as is
	}

	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAppendFold_Reuse(t *testing.T) {
	buf := make([]byte, 0, 4)
	buf = AppendFold(buf[:0], "ABC")
	if string(buf) != "abc" {
		t.Errorf("got %q", buf)
	}
	buf = AppendFold(buf[:0], "XY")
	if string(buf) != "xy" {
		t.Errorf("got %q", buf)
	}
}

func TestHasCase(t *testing.T) {
	if hasCase("123-_/") {
		t.Error("digits and punctuation have no case")
	}
	if !hasCase("v1") {
		t.Error("letters have case")
	}
}
