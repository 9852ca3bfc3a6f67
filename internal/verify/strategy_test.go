package verify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"codequest/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSubmission scripts every hook of a Submission with plain Go funcs.
type fakeSubmission struct {
	call      func(Args) (any, error)
	construct func(name string, args []any) (Instance, error)
	script    func(ScriptCase) error
}

func (f *fakeSubmission) Call(a Args) (any, error) { return f.call(a) }

func (f *fakeSubmission) Construct(name string, args []any) (Instance, error) {
	return f.construct(name, args)
}

func (f *fakeSubmission) RunScript(sc ScriptCase) error { return f.script(sc) }

type instanceFunc func(method string, args []any) (any, error)

func (f instanceFunc) Invoke(method string, args []any) (any, error) { return f(method, args) }

// stepClock advances by one second on every reading.
func stepClock() func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func greet() *fakeSubmission {
	return &fakeSubmission{call: func(a Args) (any, error) {
		name := a.SingleValue().(string)
		switch name {
		case "panic":
			panic("kaboom")
		case "error":
			return nil, errors.New("bad input")
		}
		return fmt.Sprintf("Hello, %s!", name), nil
	}}
}

func TestRunnerRun(t *testing.T) {
	r := NewRunner(WithClock(stepClock()))

	out := r.Run(greet(), FunctionalCase{Input: Single("World"), Expected: "Hello, World!"})
	assert.True(t, out.Passed)
	assert.Equal(t, FailureNone, out.Kind)
	assert.Equal(t, time.Second, out.Elapsed)
	assert.Equal(t, "Hello, World!", out.Snapshot.Actual)

	out = r.Run(greet(), FunctionalCase{Input: Single("Bob"), Expected: "Hi, Bob!"})
	assert.False(t, out.Passed)
	assert.Equal(t, FailureMismatch, out.Kind)
	assert.Empty(t, out.Error)

	out = r.Run(greet(), FunctionalCase{Input: Single("error"), Expected: "x"})
	assert.Equal(t, FailureError, out.Kind)
	assert.Equal(t, "bad input", out.Error)

	out = r.Run(greet(), FunctionalCase{Input: Single("panic"), Expected: "x"})
	assert.Equal(t, FailureError, out.Kind)
	assert.Equal(t, "kaboom", out.Error)
	assert.NotEmpty(t, out.Trace)
}

func TestFunctionalContinuesAfterFailure(t *testing.T) {
	s, err := StrategyFor(ShapeFunctional, WithClock(stepClock()))
	require.NoError(t, err)

	res, err := s.Verify(greet(), []TestCase{
		FunctionalCase{Input: Single("panic"), Expected: "x"},
		FunctionalCase{Input: Single("World"), Expected: "Hello, World!"},
		FunctionalCase{Input: Single("Ann"), Expected: "Hello, Ann!"},
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.Len(t, res.Outcomes, 3)
	assert.Equal(t, 2, res.Passed())
	assert.Equal(t, 1, res.Failed())
	assert.Greater(t, res.Elapsed, time.Duration(0))
}

func TestFunctionalRejectsWrongShape(t *testing.T) {
	_, err := NewFunctional().Verify(greet(), []TestCase{TraceCase{}})
	assert.ErrorIs(t, err, ErrWrongShape)
}

// counterSub builds counters whose Get returns the running total.
func counterSub() *fakeSubmission {
	return &fakeSubmission{construct: func(name string, args []any) (Instance, error) {
		if name != "Counter" {
			return nil, errors.New("unknown constructor")
		}
		total := 0
		return instanceFunc(func(method string, args []any) (any, error) {
			switch method {
			case "Add":
				total += args[0].(int)
				return nil, nil
			case "Get":
				return total, nil
			case "Boom":
				panic("exploded")
			}
			return nil, fmt.Errorf("no method %s", method)
		}), nil
	}}
}

func TestTraceReplay(t *testing.T) {
	s := NewTrace()
	res, err := s.Verify(counterSub(), []TestCase{
		TraceCase{
			Steps:    []Step{Construct("Counter"), Call("Add", 2), Call("Add", 3), Call("Get")},
			Expected: []any{nil, nil, nil, 5},
		},
		TraceCase{
			// a fresh instance per trace
			Steps:    []Step{Construct("Counter"), Call("Get")},
			Expected: []any{nil, 0},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Success, "%+v", res.Outcomes)
}

func TestTraceFailures(t *testing.T) {
	s := NewTrace()
	res, err := s.Verify(counterSub(), []TestCase{
		TraceCase{
			Steps:    []Step{Construct("Counter"), Call("Add", 1), Call("Get")},
			Expected: []any{nil, nil, 2},
		},
		TraceCase{
			Steps:    []Step{Call("Get")},
			Expected: []any{0},
		},
		TraceCase{
			Steps:    []Step{Construct("Counter"), Call("Boom")},
			Expected: []any{nil, nil},
		},
		TraceCase{
			Steps:    []Step{Construct("Counter"), Construct("Counter")},
			Expected: []any{nil, nil},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 4)
	assert.Equal(t, 0, res.Passed())

	mismatch := res.Outcomes[0]
	assert.Equal(t, FailureMismatch, mismatch.Kind)
	assert.Equal(t, "Expected [nil, nil, 2], but got [nil, nil, 1]", mismatch.Error)
	assert.Equal(t, []string{"Counter()", "Add(1)", "Get()"}, mismatch.Snapshot.Input)

	assert.Contains(t, res.Outcomes[1].Error, ErrNotInitialized.Error())
	assert.Equal(t, "exploded", res.Outcomes[2].Error)
	assert.Contains(t, res.Outcomes[3].Error, "must be the first step")
}

func TestScriptStrategy(t *testing.T) {
	sub := &fakeSubmission{script: func(sc ScriptCase) error {
		switch sc.Name {
		case "assert":
			panic(&AssertionError{Message: "expected a cycle"})
		case "error":
			return errors.New("undefined: ListNode")
		case "panic":
			panic("nil map write")
		}
		return nil
	}}

	res, err := NewScript().Verify(sub, []TestCase{
		ScriptCase{Name: "ok"},
		ScriptCase{Name: "assert"},
		ScriptCase{Name: "error"},
		ScriptCase{Name: "panic"},
	})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 4)
	assert.True(t, res.Outcomes[0].Passed)
	assert.Equal(t, FailureAssertion, res.Outcomes[1].Kind)
	assert.Equal(t, "expected a cycle", res.Outcomes[1].Error)
	assert.Equal(t, "Error: undefined: ListNode", res.Outcomes[2].Error)
	assert.Equal(t, "Error: nil map write", res.Outcomes[3].Error)
}

func TestStrategyForUnknownShape(t *testing.T) {
	_, err := StrategyFor(Shape(42))
	assert.Error(t, err)
}

func TestSynthesizeSuccess(t *testing.T) {
	res := Result{Success: true, Elapsed: 1500 * time.Millisecond}
	Synthesize(&res, Extra{OnSuccess: []string{"Try the sorted variant next."}})
	assert.Equal(t, []string{
		DefaultSuccessMessage,
		"Your solution ran in 1.50000 seconds.",
		"Try the sorted variant next.",
	}, res.Feedback)

	custom := Result{Success: true}
	Synthesize(&custom, Extra{SuccessMessage: "The gate opens."})
	assert.Equal(t, "The gate opens.", custom.Feedback[0])
}

func TestSynthesizeFailure(t *testing.T) {
	res := Result{}
	for i := 0; i < 5; i++ {
		res.add(Outcome{
			Kind:     FailureMismatch,
			Snapshot: &Snapshot{Input: map[string]any{"n": i}, Expected: i, Actual: i + 1},
		})
	}
	res.add(Outcome{Passed: true})
	res.Outcomes[1] = Outcome{Kind: FailureError, Error: "index out of range"}

	Synthesize(&res, Extra{OnFailure: []string{"Remember the empty input."}})
	require.Len(t, res.Feedback, 5)
	assert.Equal(t, "Your solution passed 1 out of 6 test cases.", res.Feedback[0])
	assert.Equal(t, "Test case 1 failed. Input: n=0, Expected: 0, Got: 1", res.Feedback[1])
	assert.Equal(t, "Test case 2 failed: index out of range", res.Feedback[2])
	assert.True(t, strings.HasPrefix(res.Feedback[3], "Test case 3 failed."))
	assert.Equal(t, "Remember the empty input.", res.Feedback[4])
}

func TestSynthesizeRunLevelError(t *testing.T) {
	res := Fail("compile error: %s", "unexpected }")
	res.Feedback = nil
	Synthesize(&res, Extra{})
	assert.Equal(t, []string{"compile error: unexpected }"}, res.Feedback)
}

func TestStrategyLogsEveryCase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, logging.Initialize(logging.Config{DebugMode: true, Level: "debug", Dir: dir}))
	t.Cleanup(func() { _ = logging.Initialize(logging.Config{}) })

	res, err := NewFunctional(WithClock(stepClock())).Verify(greet(), []TestCase{
		FunctionalCase{Input: Single("World"), Expected: "Hello, World!"},
		FunctionalCase{Input: Single("error"), Expected: "x"},
	})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2)
	logging.CloseAll()

	matches, err := filepath.Glob(filepath.Join(dir, "*_verify.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Case 1: passed=true kind=none")
	assert.Contains(t, string(data), "Case 2: passed=false kind=error")
}
