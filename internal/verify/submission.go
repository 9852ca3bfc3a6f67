package verify

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Callable is a compiled learner function.
type Callable interface {
	Call(args Args) (any, error)
}

// Instance is one live object built by a constructor step.
type Instance interface {
	Invoke(method string, args []any) (any, error)
}

// Constructor builds fresh instances for stateful traces.
type Constructor interface {
	Construct(name string, args []any) (Instance, error)
}

// ScriptHost runs a script case with the learner's entrypoint bound as
// Solution, returning the raised failure if any.
type ScriptHost interface {
	RunScript(sc ScriptCase) error
}

// Submission is everything a strategy may ask of compiled learner code.
type Submission interface {
	Callable
	Constructor
	ScriptHost
}

// PanicError wraps a panic recovered from learner code.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// StackTrace returns the goroutine stack captured at recovery.
func (e *PanicError) StackTrace() string {
	return e.Stack
}

// Recovered converts a recovered panic value into an error, keeping an
// existing PanicError as is.
func Recovered(r any) error {
	if pe, ok := r.(*PanicError); ok {
		return pe
	}
	return &PanicError{Value: r, Stack: string(debug.Stack())}
}

// protect runs fn and turns any panic into an error.
func protect[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Recovered(r)
		}
	}()
	return fn()
}

// traceOf returns the diagnostic stack attached to err, if any.
func traceOf(err error) string {
	var st interface{ StackTrace() string }
	if errors.As(err, &st) {
		return st.StackTrace()
	}
	return ""
}

// classify maps an error raised by learner code to a failure kind.
func classify(err error) FailureKind {
	var ae *AssertionError
	if errors.As(err, &ae) {
		return FailureAssertion
	}
	return FailureError
}
