package refilter_test

import (
	"fmt"

	"github.com/coregx/refilter"
)

func Example() {
	config := refilter.DefaultConfig()
	config.Filter.MinAtomLen = 2
	b, err := refilter.NewBuilderWithConfig(config)
	if err != nil {
		panic(err)
	}
	if err := b.RegisterAll(`ab.*cd`, `xyz`, `[0-9]+`); err != nil {
		panic(err)
	}
	set, err := b.Compile()
	if err != nil {
		panic(err)
	}

	input := "zz ab123cd"
	fmt.Println(set.Candidates(input))
	fmt.Println(set.Match(input))
	fmt.Println(set.MatchAll(input))
	// Output:
	// [0 2]
	// 0 true
	// [0 2]
}

func ExampleBuilder_RegisterWithOptions() {
	b := refilter.NewBuilder()
	if _, err := b.RegisterWithOptions(`firefox/(\d+)`, refilter.Options{CaseInsensitive: true}); err != nil {
		panic(err)
	}
	set, err := b.Compile()
	if err != nil {
		panic(err)
	}

	fmt.Println(set.IsMatch("Mozilla/5.0 Firefox/121.0"))
	fmt.Println(set.Regex(0).Formula())
	// Output:
	// true
	// i"firefox/"
}

func ExampleSet_MatchScratch() {
	b := refilter.NewBuilder()
	if err := b.RegisterAll(`hello`, `world`); err != nil {
		panic(err)
	}
	set, err := b.Compile()
	if err != nil {
		panic(err)
	}

	s := set.NewScratch()
	for _, line := range []string{"hello there", "nothing", "big world"} {
		id, ok := set.MatchScratch(line, s)
		fmt.Println(id, ok)
	}
	// Output:
	// 0 true
	// -1 false
	// 1 true
}
