package verify

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoTestCases is returned for a challenge with nothing to score.
	ErrNoTestCases = errors.New("no test cases")
	// ErrMixedShapes is returned when one challenge mixes test case variants.
	ErrMixedShapes = errors.New("mixed test case shapes")
	// ErrWrongShape is returned when a strategy receives a case it cannot run.
	ErrWrongShape = errors.New("test case shape not supported by strategy")
	// ErrNotInitialized is reported when a trace calls a method before any
	// constructor step produced an instance.
	ErrNotInitialized = errors.New("instance not initialized")
)

// FailureKind classifies a failed outcome.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureMismatch: the code ran but produced the wrong value.
	FailureMismatch
	// FailureError: the learner's code returned an error or panicked.
	FailureError
	// FailureAssertion: a script assertion failed.
	FailureAssertion
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureMismatch:
		return "mismatch"
	case FailureError:
		return "error"
	case FailureAssertion:
		return "assertion"
	default:
		return "unknown"
	}
}

// Snapshot records what a case was fed and what it produced.
type Snapshot struct {
	Input    any
	Expected any
	Actual   any
}

// Outcome is the result of one test case.
type Outcome struct {
	Passed   bool
	Kind     FailureKind
	Snapshot *Snapshot
	// Error is the failure text when the case errored; empty for a plain mismatch.
	Error string
	// Trace holds a stack trace for diagnostic display.
	Trace   string
	Elapsed time.Duration
}

// Complexity is the expected complexity a challenge declares. It is an
// annotation only and never enforced.
type Complexity struct {
	Time  string
	Space string
}

// Result aggregates every outcome of one verification run.
type Result struct {
	Success    bool
	Outcomes   []Outcome
	Elapsed    time.Duration
	Feedback   []string
	Complexity Complexity
	// Error is a run-level failure: compile error, infrastructure error or a
	// time limit violation.
	Error string
}

// Passed counts passing outcomes.
func (r *Result) Passed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Passed {
			n++
		}
	}
	return n
}

// Failed counts failing outcomes.
func (r *Result) Failed() int {
	return len(r.Outcomes) - r.Passed()
}

// add appends an outcome and keeps Success equal to the AND of all outcomes.
func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if !o.Passed {
		r.Success = false
	}
}

// Fail builds a failed result with a single diagnostic feedback entry.
func Fail(format string, args ...any) Result {
	msg := fmt.Sprintf(format, args...)
	return Result{
		Success:  false,
		Error:    msg,
		Feedback: []string{msg},
	}
}

// AssertionError is raised (as a panic value) by script assertions.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}
