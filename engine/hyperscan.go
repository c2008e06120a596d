//go:build hyperscan && cgo

package engine

import (
	"errors"
	"fmt"
	"sync"

	hs "github.com/flier/gohs/hyperscan"
)

// hyperscanEngine compiles each pattern into its own Hyperscan (or
// Vectorscan) block database. Hyperscan reports no capture groups, so its
// regexps only implement Regexp.
//
// Requires libhs; build with -tags hyperscan.
type hyperscanEngine struct{}

func init() {
	Register(hyperscanEngine{})
}

func (hyperscanEngine) Name() string {
	return "hyperscan"
}

func (hyperscanEngine) Compile(pattern string, flags Flags) (Regexp, error) {
	hsFlags := hs.SingleMatch | hs.Utf8Mode | hs.AllowEmpty
	if flags.CaseInsensitive {
		hsFlags |= hs.Caseless
	}
	if flags.DotMatchesNewLine {
		hsFlags |= hs.DotAll
	}
	if flags.MultiLine {
		hsFlags |= hs.MultiLine
	}

	db, err := hs.NewBlockDatabase(hs.NewPattern(pattern, hsFlags))
	if err != nil {
		return nil, fmt.Errorf("hyperscan: %w", err)
	}
	scratch, err := hs.NewScratch(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("hyperscan: allocate scratch: %w", err)
	}

	re := &hyperscanRegexp{pattern: flags.Prefix() + pattern, db: db, scratch: scratch}
	re.pool.New = func() any {
		s, err := re.scratch.Clone()
		if err != nil {
			return nil
		}
		return s
	}
	return re, nil
}

// hyperscanRegexp matches with a single-pattern block database. Scratch
// space is per goroutine, taken from a pool cloned from a prototype.
type hyperscanRegexp struct {
	pattern string
	db      hs.BlockDatabase
	scratch *hs.Scratch
	pool    sync.Pool
}

func (r *hyperscanRegexp) MatchString(s string) bool {
	scratch, _ := r.pool.Get().(*hs.Scratch)
	if scratch == nil {
		return false
	}
	defer r.pool.Put(scratch)

	matched := false
	handler := hs.MatchHandler(func(id uint, from, to uint64, flags uint, context interface{}) error {
		matched = true
		return hs.ErrScanTerminated
	})
	err := r.db.Scan([]byte(s), scratch, handler, nil)
	if err != nil && !errors.Is(err, hs.ErrScanTerminated) {
		return false
	}
	return matched
}

func (r *hyperscanRegexp) String() string {
	return r.pattern
}
