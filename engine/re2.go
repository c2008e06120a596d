package engine

import (
	re2 "github.com/wasilibs/go-re2"
)

// re2Engine compiles patterns with RE2, run as WebAssembly through
// github.com/wasilibs/go-re2 (or natively with the re2_cgo build tag).
type re2Engine struct{}

func init() {
	Register(re2Engine{})
}

func (re2Engine) Name() string {
	return "re2"
}

func (re2Engine) Compile(pattern string, flags Flags) (Regexp, error) {
	re, err := re2.Compile(flags.Prefix() + pattern)
	if err != nil {
		return nil, err
	}
	return re, nil
}
