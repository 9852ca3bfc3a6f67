package submission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"codequest/internal/verify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func load(t *testing.T, p Program) *Submission {
	t.Helper()
	sub, err := NewExecutor(Config{CaptureOutput: true}).Load(p)
	require.NoError(t, err)
	return sub
}

const twoSumSource = `
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
`

func TestCallNamedArguments(t *testing.T) {
	sub := load(t, Program{Source: twoSumSource, Entry: "twoSum"})
	assert.Equal(t, "twoSum", sub.Entry())

	got, err := sub.Call(verify.Named(map[string]any{"nums": []any{2, 7, 11, 15}, "target": 9}))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(0), int64(1)}, got)
}

func TestCallPositionalAndSingle(t *testing.T) {
	sub := load(t, Program{Source: `
func sum(xs ...int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func double(n int) int { return n * 2 }
`, Entry: "double"})

	got, err := sub.Call(verify.Single(21))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	variadic := load(t, Program{Source: `func sum(xs ...int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}`, Entry: "sum"})
	got, err = variadic.Call(verify.Positional(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(6), got)
}

func TestCallCanonicalParameterNames(t *testing.T) {
	sub := load(t, Program{Source: `func add(firstValue, secondValue int) int { return firstValue + secondValue }`, Entry: "add"})

	got, err := sub.Call(verify.Named(map[string]any{"first_value": 1, "second_value": 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestCallArgumentErrors(t *testing.T) {
	sub := load(t, Program{Source: twoSumSource, Entry: "twoSum"})

	_, err := sub.Call(verify.Named(map[string]any{"nums": []any{1}}))
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Contains(t, argErr.Reason, `missing argument "target"`)

	_, err = sub.Call(verify.Named(map[string]any{"nums": []any{1}, "target": 1, "extra": true}))
	require.ErrorAs(t, err, &argErr)
	assert.Contains(t, argErr.Reason, `unexpected argument "extra"`)

	_, err = sub.Call(verify.Positional([]any{1}))
	require.ErrorAs(t, err, &argErr)
	assert.Contains(t, argErr.Reason, "takes 2 arguments, got 1")
}

func TestEntryFallsBackToFirstFunction(t *testing.T) {
	sub := load(t, Program{Source: `
func helper(n int) int { return n + 1 }
func other() {}
`, Entry: "solve"})
	assert.Equal(t, "helper", sub.Entry())
}

func TestNoEntrypoint(t *testing.T) {
	sub := load(t, Program{Source: `type Empty struct{}`})
	_, err := sub.Call(verify.Positional())
	assert.ErrorIs(t, err, ErrNoEntrypoint)
}

func TestCompileErrors(t *testing.T) {
	exec := NewExecutor(Config{})

	_, err := exec.Load(Program{Source: `func broken( {`})
	var ce *CompileError
	require.ErrorAs(t, err, &ce)

	_, err = exec.Load(Program{Source: `func f() int { return undefinedName }`, Entry: "f"})
	require.ErrorAs(t, err, &ce)

	sub, err := exec.Compile(Program{Source: `func f() {`})
	assert.Nil(t, sub)
	require.ErrorAs(t, err, &ce)
}

func TestBlockedImports(t *testing.T) {
	exec := NewExecutor(Config{BlockedImports: []string{"os/exec", "net/..."}})

	_, err := exec.Load(Program{Source: `import "os/exec"

func run() { _ = exec.Command }`})
	assert.ErrorIs(t, err, ErrForbiddenImport)

	_, err = exec.Load(Program{Source: `import "net/http"

func get() { _ = http.Get }`})
	assert.ErrorIs(t, err, ErrForbiddenImport)

	_, err = exec.Load(Program{Source: `import "strings"

func up(s string) string { return strings.ToUpper(s) }`})
	assert.NoError(t, err)
}

func TestErrorsAndPanicsBecomeErrors(t *testing.T) {
	sub := load(t, Program{Source: `
import "errors"

func check(n int) (int, error) {
	if n < 0 {
		return 0, errors.New("negative input")
	}
	if n == 0 {
		panic("boom")
	}
	xs := []int{1}
	return xs[n], nil
}
`, Entry: "check"})

	_, err := sub.Call(verify.Single(-1))
	require.Error(t, err)
	assert.Equal(t, "negative input", err.Error())

	_, err = sub.Call(verify.Single(0))
	var pe *verify.PanicError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "boom")

	_, err = sub.Call(verify.Single(5))
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "index out of range")
}

func TestOutputCapture(t *testing.T) {
	sub := load(t, Program{Source: `
import "fmt"

func greet(name string) string {
	fmt.Println("debug:", name)
	return "Hello, " + name + "!"
}

func main() { fmt.Println("main never runs") }
`, Entry: "greet"})

	got, err := sub.Call(verify.Single("Ada"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada!", got)
	assert.Contains(t, sub.Output(), "debug: Ada")
	assert.NotContains(t, sub.Output(), "main never runs")
}

const maxStackSource = `
type MaxStack struct {
	items []int
	maxes []int
}

func NewMaxStack() *MaxStack { return &MaxStack{} }

func (s *MaxStack) Push(x int) {
	s.items = append(s.items, x)
	if len(s.maxes) == 0 || x >= s.maxes[len(s.maxes)-1] {
		s.maxes = append(s.maxes, x)
	}
}

func (s *MaxStack) Pop() int {
	x := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	if x == s.maxes[len(s.maxes)-1] {
		s.maxes = s.maxes[:len(s.maxes)-1]
	}
	return x
}

func (s *MaxStack) GetMax() int { return s.maxes[len(s.maxes)-1] }
`

func TestConstructAndInvoke(t *testing.T) {
	sub := load(t, Program{Source: maxStackSource})

	for _, name := range []string{"NewMaxStack", "MaxStack", "max_stack"} {
		t.Run(name, func(t *testing.T) {
			inst, err := sub.Construct(name, nil)
			require.NoError(t, err)

			_, err = inst.Invoke("Push", []any{3})
			require.NoError(t, err)
			_, err = inst.Invoke("push", []any{5})
			require.NoError(t, err)

			got, err := inst.Invoke("get_max", nil)
			require.NoError(t, err)
			assert.Equal(t, int64(5), got)

			got, err = inst.Invoke("Pop", nil)
			require.NoError(t, err)
			assert.Equal(t, int64(5), got)

			got, err = inst.Invoke("GetMax", nil)
			require.NoError(t, err)
			assert.Equal(t, int64(3), got)
		})
	}
}

func TestInstancesAreIsolated(t *testing.T) {
	sub := load(t, Program{Source: `
type Counter struct{ n int }

func (c *Counter) Inc() int { c.n++; return c.n }
`})
	a, err := sub.Construct("Counter", nil)
	require.NoError(t, err)
	b, err := sub.Construct("Counter", nil)
	require.NoError(t, err)

	_, err = a.Invoke("Inc", nil)
	require.NoError(t, err)
	got, err := b.Invoke("Inc", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestConstructorWithError(t *testing.T) {
	sub := load(t, Program{Source: `
import "errors"

type Bounded struct{ limit int }

func NewBounded(limit int) (*Bounded, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	return &Bounded{limit: limit}, nil
}

func (b *Bounded) Limit() int { return b.limit }
`})

	inst, err := sub.Construct("Bounded", []any{4})
	require.NoError(t, err)
	got, err := inst.Invoke("Limit", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	_, err = sub.Construct("Bounded", []any{0})
	assert.EqualError(t, err, "limit must be positive")
}

func TestConstructErrors(t *testing.T) {
	sub := load(t, Program{Source: maxStackSource})

	_, err := sub.Construct("Queue", nil)
	assert.ErrorIs(t, err, ErrNoConstructor)

	inst, err := sub.Construct("MaxStack", nil)
	require.NoError(t, err)
	_, err = inst.Invoke("Peek", nil)
	assert.ErrorIs(t, err, ErrNoMethod)
}

const listNodeFixture = `
type ListNode struct {
	Val  int
	Next *ListNode
}
`

const hasCycleSource = `
func hasCycle(head *ListNode) bool {
	slow, fast := head, head
	for fast != nil && fast.Next != nil {
		slow = slow.Next
		fast = fast.Next.Next
		if slow == fast {
			return true
		}
	}
	return false
}
`

func TestRunScript(t *testing.T) {
	sub := load(t, Program{Source: hasCycleSource, Entry: "hasCycle", Fixture: listNodeFixture})

	err := sub.RunScript(verify.ScriptCase{
		Name: "cycle",
		Body: `
	a := &ListNode{Val: 1}
	b := &ListNode{Val: 2}
	a.Next = b
	b.Next = a
	assert.True(Solution(a), "expected a cycle")
	assert.False(Solution(&ListNode{Val: 1}), "single node has no cycle")
	assert.Equal(Solution(nil), false)
`,
	})
	assert.NoError(t, err)
}

func TestRunScriptAssertionFailure(t *testing.T) {
	sub := load(t, Program{Source: `func hasCycle(head *ListNode) bool { return true }`, Entry: "hasCycle", Fixture: listNodeFixture})

	err := sub.RunScript(verify.ScriptCase{
		Name: "no_cycle",
		Body: `assert.False(Solution(&ListNode{Val: 1}), "single node has no cycle")`,
	})
	var ae *verify.AssertionError
	require.True(t, errors.As(err, &ae), "got %v", err)
	assert.Equal(t, "single node has no cycle", ae.Message)
}

func TestRunScriptLearnerDeclarationWins(t *testing.T) {
	sub := load(t, Program{
		Source: `
type ListNode struct {
	Val  int
	Next *ListNode
	Seen bool
}

func hasCycle(head *ListNode) bool {
	for n := head; n != nil; n = n.Next {
		if n.Seen {
			return true
		}
		n.Seen = true
	}
	return false
}
`,
		Entry:   "hasCycle",
		Fixture: listNodeFixture,
	})

	err := sub.RunScript(verify.ScriptCase{
		Body: `
	a := &ListNode{Val: 1}
	a.Next = a
	assert.True(Solution(a))
`,
	})
	assert.NoError(t, err)
}

func TestRunScriptExtraImports(t *testing.T) {
	sub := load(t, Program{Source: `func shout(s string) string { return s + "!" }`, Entry: "shout"})

	err := sub.RunScript(verify.ScriptCase{
		Imports: []string{"strings"},
		Body:    `assert.Equal(strings.ToUpper(Solution("hi")), "HI!")`,
	})
	assert.NoError(t, err)
}

func TestRunScriptEntrypointNamedSolution(t *testing.T) {
	sub := load(t, Program{Source: `func Solution(n int) int { return n * 2 }`, Entry: "Solution"})

	err := sub.RunScript(verify.ScriptCase{Body: `assert.Equal(Solution(21), 42)`})
	assert.NoError(t, err)

	err = sub.RunScript(verify.ScriptCase{Body: `assert.Equal(Solution(1), 3)`})
	var ae *verify.AssertionError
	assert.ErrorAs(t, err, &ae)
}
