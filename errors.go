package refilter

import (
	"errors"
	"regexp/syntax"

	"github.com/coregx/refilter/prefilter"
)

// ErrEmptySet is returned by Builder.Compile when no regex was registered
// and Config.Filter.AllowEmpty is false.
var ErrEmptySet = errors.New("refilter: no regex registered")

// ErrSealedTable is returned when registering into, or compiling, a builder
// that has already been compiled.
var ErrSealedTable = prefilter.ErrSealedTable

// InvalidPatternError reports a pattern rejected at registration, either by
// the syntax parser or by the regex engine. The builder is left unchanged.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
// Syntax errors already quote the offending expression and are returned
// as is.
func (e *InvalidPatternError) Error() string {
	var syntaxErr *syntax.Error
	if errors.As(e.Err, &syntaxErr) {
		return "refilter: " + e.Err.Error()
	}
	return "refilter: invalid pattern `" + e.Pattern + "`: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}
