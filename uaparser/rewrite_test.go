package uaparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteRegex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"small upper bound", ".{0,2}x", ".{0,2}x"},
		{"open bound zero", ".{0,}", ".{0,}"},
		{"open bound one", ".{1,}", ".{1,}"},
		{"two digits", ".{0,20}x", ".{0,20}x"},
		{"star", "(.{0,100})", "(.*)"},
		{"two digits plus", "(.{1,50})", "(.{1,50})"},
		{"plus", ".{1,300}x", ".+x"},
		{"several", `a{0,100}b\d{1,1000}`, `a*b\d+`},
		{"other lower bound", ".{2,100}", ".{2,100}"},
		{"escaped brace", `\{1,200}`, `\{1,200}`},
		{"inside class", "[.{1,100}]", "[.{1,100}]"},
		{"after class", "[a-z]{0,100}", "[a-z]*"},
		{"literal bracket", "[]{0,100}]x", "[]{0,100}]x"},
		{"negated literal bracket", "[^]{1,100}]x", "[^]{1,100}]x"},
		{"named class", "[[:alpha:]]{0,100}", "[[:alpha:]]*"},
		{"leading brace", "{0,100}", "{0,100}"},
		{"unterminated", ".{0,100", ".{0,100"},
		{"perl class untouched", `\d\w\s`, `\d\w\s`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteRegex(tt.in))
		})
	}
}
