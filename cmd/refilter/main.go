// Command refilter matches lines of text against large regex sets and
// inspects how the sets are filtered.
//
// Usage:
//
//	refilter bench REGEXES INPUTS [-r N] [-q] [--workers N] [--metrics]
//	refilter ua REGEXES_YAML USER_AGENTS [-r N] [-q]
//	refilter explain REGEXES [--match GLOB]
//
// REGEXES holds one regex per line; blank lines are skipped.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "refilter:", err)
		os.Exit(1)
	}
}
