package engine

import (
	"regexp"
)

// stdlibEngine compiles patterns with the standard library regexp package.
// It accepts exactly the syntax the prefilter synthesizer parses.
type stdlibEngine struct{}

func init() {
	Register(stdlibEngine{})
}

func (stdlibEngine) Name() string {
	return "stdlib"
}

func (stdlibEngine) Compile(pattern string, flags Flags) (Regexp, error) {
	re, err := regexp.Compile(flags.Prefix() + pattern)
	if err != nil {
		return nil, err
	}
	return re, nil
}
