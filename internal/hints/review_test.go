package hints

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(r Review) []FindingKind {
	out := make([]FindingKind, len(r.Findings))
	for i, f := range r.Findings {
		out[i] = f.Kind
	}
	return out
}

func TestReviewCleanSource(t *testing.T) {
	r := NewReviewer().Review(`
// twoSum remembers each value's index.
func twoSum(nums []int, target int) []int {
	seen := map[int]int{}
	for i, n := range nums {
		if j, ok := seen[target-n]; ok {
			return []int{j, i}
		}
		seen[n] = i
	}
	return nil
}
`)
	assert.Empty(t, r.Findings)
	assert.Equal(t, 1, r.Funcs)
	assert.Equal(t, 1, r.Loops)
	assert.Equal(t, []string{"Your solution has good readability."}, r.Lines())
}

func TestReviewFindings(t *testing.T) {
	r := NewReviewer().Review(`package main

import (
	"fmt"
	"strconv"
	"unsafe"
)

func twoSum(nums []int, target int) []int {
	for i := range nums {
		for j := i + 1; j < len(nums); j++ {
			if nums[i]+nums[j] == target {
				fmt.Println("found", i, j)
				return []int{i, j}
			}
		}
	}
	n, _ := strconv.Atoi("1")
	_ = unsafe.Sizeof(n)
	panic("no answer")
}
`)
	assert.Equal(t, []FindingKind{
		FindingRiskyImport,
		FindingNestedLoops,
		FindingDebugOutput,
		FindingIgnoredError,
		FindingPanic,
		FindingNoComments,
	}, kinds(r))
	assert.Equal(t, 2, r.Loops)

	lines := r.Lines()
	assert.True(t, strings.HasPrefix(lines[0], "line 6: import \"unsafe\""), lines[0])
	assert.Equal(t, "Consider adding a comment to explain your approach.", lines[len(lines)-1])
}

func TestReviewLongFunction(t *testing.T) {
	rv := NewReviewer()
	rv.MaxFuncLines = 2
	r := rv.Review("// f counts.\nfunc f() int {\n\tx := 1\n\tx++\n\tx++\n\treturn x\n}\n")
	require.Len(t, r.Findings, 1)
	assert.Equal(t, FindingLongFunction, r.Findings[0].Kind)
	assert.Contains(t, r.Findings[0].Message, "f is 4 lines long")
}

func TestReviewParseError(t *testing.T) {
	r := NewReviewer().Review("func broken( {")
	require.Len(t, r.Findings, 1)
	assert.Equal(t, FindingParseError, r.Findings[0].Kind)
	assert.Equal(t, SeverityCritical, r.Findings[0].Severity)
}
