// Package engine abstracts the regex engines used to verify prefilter
// candidates.
//
// The filtering layers only need two things from a regex engine: compile a
// pattern with a few flags, and tell whether a compiled regex matches a
// string. Engines register themselves by name:
//
//	stdlib     regexp from the standard library (default)
//	re2        github.com/wasilibs/go-re2
//	coregex    github.com/coregx/coregex
//	hyperscan  github.com/flier/gohs, built with -tags hyperscan (cgo, libhs)
//
// Example:
//
//	eng, err := engine.Lookup("re2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re, err := eng.Compile(`firefox/(\d+)`, engine.Flags{CaseInsensitive: true})
package engine

import (
	"regexp/syntax"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultName is the name of the default engine.
const DefaultName = "stdlib"

// Flags are the pattern options understood by every engine.
type Flags struct {
	// CaseInsensitive matches letters regardless of case, as (?i).
	CaseInsensitive bool

	// DotMatchesNewLine lets . match \n, as (?s).
	DotMatchesNewLine bool

	// MultiLine makes ^ and $ match at line boundaries, as (?m).
	MultiLine bool
}

// Prefix returns the inline flag group equivalent to f, such as "(?is)",
// or "" when no flag is set.
func (f Flags) Prefix() string {
	if f == (Flags{}) {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("(?")
	if f.CaseInsensitive {
		sb.WriteByte('i')
	}
	if f.MultiLine {
		sb.WriteByte('m')
	}
	if f.DotMatchesNewLine {
		sb.WriteByte('s')
	}
	sb.WriteByte(')')
	return sb.String()
}

// Syntax returns the regexp/syntax parse flags equivalent to f on top of
// syntax.Perl.
func (f Flags) Syntax() syntax.Flags {
	flags := syntax.Perl
	if f.CaseInsensitive {
		flags |= syntax.FoldCase
	}
	if f.DotMatchesNewLine {
		flags |= syntax.DotNL
	}
	if f.MultiLine {
		flags &^= syntax.OneLine
	}
	return flags
}

// Regexp is a compiled regular expression. Implementations must be safe for
// concurrent use.
type Regexp interface {
	// MatchString reports whether s contains any match.
	MatchString(s string) bool

	// String returns the source text used to compile the regexp.
	String() string
}

// SubmatchRegexp is a Regexp that also reports capture group positions.
type SubmatchRegexp interface {
	Regexp

	// FindStringSubmatchIndex returns the index pairs of the leftmost match
	// and its capture groups, or nil if there is no match.
	FindStringSubmatchIndex(s string) []int

	// NumSubexp returns the number of capture groups.
	NumSubexp() int
}

// Engine compiles patterns into Regexps.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string

	// Compile compiles pattern with the given flags.
	Compile(pattern string, flags Flags) (Regexp, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Engine)
)

// Register makes an engine available by its name.
// Panics if the name is empty or already registered.
func Register(e Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name := e.Name()
	if name == "" {
		panic("engine: Register with empty name")
	}
	if _, dup := registry[name]; dup {
		panic("engine: Register called twice for " + name)
	}
	registry[name] = e
}

// Lookup returns the engine registered under name.
func Lookup(name string) (Engine, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[name]
	if !ok {
		return nil, &UnknownEngineError{Name: name}
	}
	return e, nil
}

// Names returns the registered engine names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Default returns the default engine.
func Default() Engine {
	e, err := Lookup(DefaultName)
	if err != nil {
		panic(err)
	}
	return e
}

// UnknownEngineError is returned by Lookup for an unregistered name.
type UnknownEngineError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownEngineError) Error() string {
	return "engine: unknown engine " + strconv.Quote(e.Name) +
		" (available: " + strings.Join(Names(), ", ") + ")"
}

// CountingEngine wraps an Engine and counts MatchString calls on every
// Regexp it compiles.
type CountingEngine struct {
	inner Engine
	calls atomic.Uint64
}

// Counting wraps e so that every MatchString call is counted.
//
// Example:
//
//	eng := engine.Counting(engine.Default())
//	re, _ := eng.Compile("abc", engine.Flags{})
//	re.MatchString("xabcx")
//	fmt.Println(eng.Calls()) // Output: 1
func Counting(e Engine) *CountingEngine {
	return &CountingEngine{inner: e}
}

// Name returns the name of the wrapped engine.
func (c *CountingEngine) Name() string {
	return c.inner.Name()
}

// Compile compiles pattern with the wrapped engine. The returned Regexp
// implements SubmatchRegexp when the wrapped one does.
func (c *CountingEngine) Compile(pattern string, flags Flags) (Regexp, error) {
	re, err := c.inner.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	if sub, ok := re.(SubmatchRegexp); ok {
		return &countingSubmatch{SubmatchRegexp: sub, calls: &c.calls}, nil
	}
	return &countingRegexp{Regexp: re, calls: &c.calls}, nil
}

// Calls returns the number of MatchString calls so far.
func (c *CountingEngine) Calls() uint64 {
	return c.calls.Load()
}

// Reset sets the call counter back to zero.
func (c *CountingEngine) Reset() {
	c.calls.Store(0)
}

type countingRegexp struct {
	Regexp
	calls *atomic.Uint64
}

func (r *countingRegexp) MatchString(s string) bool {
	r.calls.Add(1)
	return r.Regexp.MatchString(s)
}

type countingSubmatch struct {
	SubmatchRegexp
	calls *atomic.Uint64
}

func (r *countingSubmatch) MatchString(s string) bool {
	r.calls.Add(1)
	return r.SubmatchRegexp.MatchString(s)
}
