// Package catalog provides the built-in challenges and reads YAML challenge
// packs.
package catalog

import (
	"codequest/internal/challenge"
)

// Areas of the world the built-in challenges live in.
const (
	AlgorithmForest        = "Algorithm Forest"
	DataStructureMountains = "Data Structure Mountains"
)

// builtins is the registration list, in menu order.
var builtins = []struct {
	id  string
	def func() challenge.Definition
}{
	{"hello-world", helloWorld},
	{"sum-of-two", sumOfTwo},
	{"two-sum", twoSum},
	{"binary-search", binarySearch},
	{"linked-list-cycle", linkedListCycle},
	{"max-stack", maxStack},
}

// Builtin returns a source per built-in challenge. opts are applied to every
// challenge built.
func Builtin(opts ...challenge.Option) []challenge.Source {
	out := make([]challenge.Source, 0, len(builtins))
	for _, b := range builtins {
		def := b.def
		out = append(out, challenge.Source{
			Name: b.id,
			Factory: func() (*challenge.Challenge, error) {
				return challenge.New(def(), opts...)
			},
		})
	}
	return out
}

// Definitions returns the definitions of every built-in challenge.
func Definitions() []challenge.Definition {
	out := make([]challenge.Definition, len(builtins))
	for i, b := range builtins {
		out[i] = b.def()
	}
	return out
}

// Filter keeps the sources whose name is in enabled. An empty enabled list
// keeps everything.
func Filter(sources []challenge.Source, enabled []string) []challenge.Source {
	if len(enabled) == 0 {
		return sources
	}
	keep := make(map[string]bool, len(enabled))
	for _, id := range enabled {
		keep[id] = true
	}
	var out []challenge.Source
	for _, s := range sources {
		if keep[s.Name] {
			out = append(out, s)
		}
	}
	return out
}
