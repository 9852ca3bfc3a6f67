// Package hints produces topic hints for challenges and reviews learner code
// without running it.
package hints

import (
	"math/rand"
	"strings"
	"unicode"
)

// DefaultCount is how many hints Generate returns when asked for none.
const DefaultCount = 3

// similarityThreshold is the word overlap above which two hints count as
// the same hint.
const similarityThreshold = 0.7

var topicBanks = map[string][]string{
	"arrays": {
		"Consider using a two-pointer approach.",
		"Can you solve this in-place to optimize space complexity?",
		"Think about edge cases like empty arrays or arrays with a single element.",
		"Have you considered using a hash map to reduce time complexity?",
	},
	"linked_lists": {
		"Consider using a fast and slow pointer technique.",
		"Would a dummy head node simplify your code?",
		"Be careful with nil pointers when manipulating links.",
		"Think about whether a recursive solution might be cleaner.",
	},
	"trees": {
		"Consider if a depth-first or breadth-first approach is more appropriate.",
		"Recursive solutions often work well with tree problems.",
		"Check if you need to handle unbalanced or degenerate trees.",
		"Is there a way to avoid using extra space?",
	},
	"dynamic_programming": {
		"Try identifying the overlapping subproblems.",
		"Can you define a recurrence relation?",
		"Consider using memoization to avoid redundant calculations.",
		"Think about the base cases of your recursion.",
	},
	"sorting": {
		"Consider the trade-offs between different sorting algorithms.",
		"Can you sort in-place to save memory?",
		"Is stability important for this sorting problem?",
		"Could you use a non-comparison-based sort?",
	},
	"searching": {
		"Consider if the input has any special properties you can exploit.",
		"Is the data sorted? If so, binary search might be useful.",
		"Think about space complexity: can you search in-place?",
		"Consider using two pointers or a sliding window approach.",
	},
	"stacks": {
		"A slice makes a fine stack: append to push, reslice to pop.",
		"Can a second stack remember something about the first one at every depth?",
		"Think about what must happen to your bookkeeping when an element is popped.",
	},
}

// topicAliases maps the problem types challenges declare onto hint banks.
var topicAliases = map[string]string{
	"array":       "arrays",
	"string":      "arrays",
	"linked_list": "linked_lists",
	"tree":        "trees",
	"dp":          "dynamic_programming",
	"sort":        "sorting",
	"search":      "searching",
	"stack":       "stacks",
}

var generalHints = []string{
	"Break down the problem into smaller steps.",
	"Consider edge cases in your solution.",
	"Think about the time and space complexity of your approach.",
	"Try working through a simple example by hand first.",
	"Can you simplify the problem to solve a smaller version first?",
}

// Generator hands out hints, most specific first. It draws from its random
// source, so a Generator must not be shared between goroutines.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator drawing from rng. A nil rng is seeded
// with 1.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Generator{rng: rng}
}

// Topic returns the hint bank name for a problem type, or "" if there is
// none.
func Topic(problemType string) string {
	t := strings.ToLower(strings.TrimSpace(problemType))
	t = strings.NewReplacer(" ", "_", "-", "_").Replace(t)
	if alias, ok := topicAliases[t]; ok {
		t = alias
	}
	if _, ok := topicBanks[t]; ok {
		return t
	}
	return ""
}

// Generate returns up to n hints for problemType. Specific hints come first
// in their given order, then the topic bank in order, skipping hints similar
// to ones already chosen, then random picks from the topic bank and the
// general hints. It returns fewer than n hints only when every source is
// exhausted.
func (g *Generator) Generate(problemType string, specific []string, n int) []string {
	if n <= 0 {
		n = DefaultCount
	}
	out := make([]string, 0, n)
	has := func(h string) bool {
		for _, e := range out {
			if e == h {
				return true
			}
		}
		return false
	}

	for _, h := range specific {
		if len(out) == n {
			return out
		}
		if !has(h) {
			out = append(out, h)
		}
	}

	bank := topicBanks[Topic(problemType)]
	if len(specific) > 0 {
		for _, h := range bank {
			if len(out) == n {
				return out
			}
			if !g.similarToAny(h, out) {
				out = append(out, h)
			}
		}
	}

	for _, pool := range [][]string{bank, generalHints} {
		for _, i := range g.rng.Perm(len(pool)) {
			if len(out) == n {
				return out
			}
			if !has(pool[i]) {
				out = append(out, pool[i])
			}
		}
	}
	return out
}

func (g *Generator) similarToAny(h string, existing []string) bool {
	for _, e := range existing {
		if Similar(h, e) {
			return true
		}
	}
	return false
}

// Similar reports whether two hints share enough words to be considered the
// same: the shared word count over the larger word set exceeds 0.7.
func Similar(a, b string) bool {
	wa, wb := words(a), words(b)
	if len(wa) == 0 || len(wb) == 0 {
		return false
	}
	shared := 0
	for w := range wa {
		if wb[w] {
			shared++
		}
	}
	larger := len(wa)
	if len(wb) > larger {
		larger = len(wb)
	}
	return float64(shared)/float64(larger) > similarityThreshold
}

func words(s string) map[string]bool {
	out := make(map[string]bool)
	split := func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}
	for _, w := range strings.FieldsFunc(strings.ToLower(s), split) {
		out[w] = true
	}
	return out
}
