package engine

import (
	"github.com/coregx/coregex"
)

// coregexEngine compiles patterns with github.com/coregx/coregex, a pure Go
// engine with literal prefilters and a lazy DFA.
//
// coregex v0.10.3 misses some case-insensitive and alternation matches
// (such as (?i)firefox/[0-9]+ on "FireFox/115") and can miscount capture
// groups, so it is opt-in only.
type coregexEngine struct{}

func init() {
	Register(coregexEngine{})
}

func (coregexEngine) Name() string {
	return "coregex"
}

func (coregexEngine) Compile(pattern string, flags Flags) (Regexp, error) {
	re, err := coregex.Compile(flags.Prefix() + pattern)
	if err != nil {
		return nil, err
	}
	return re, nil
}
