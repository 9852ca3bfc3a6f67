package verify

import "time"

// Option configures runners and strategies.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the wall clock used for elapsed-time measurement.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Runner executes one functional case against a callable.
type Runner struct {
	opts options
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	return &Runner{opts: buildOptions(opts)}
}

// Run calls fn with the case input and compares the return value with the
// expected value. Errors and panics raised by fn are recorded on the outcome
// and never propagate.
func (r *Runner) Run(fn Callable, tc FunctionalCase) Outcome {
	out := Outcome{
		Snapshot: &Snapshot{
			Input:    tc.Input.Snapshot(),
			Expected: tc.Expected,
		},
	}

	start := r.opts.now()
	actual, err := protect(func() (any, error) {
		return fn.Call(tc.Input)
	})
	out.Elapsed = r.opts.now().Sub(start)

	if err != nil {
		out.Kind = classify(err)
		out.Error = err.Error()
		out.Trace = traceOf(err)
		return out
	}

	out.Snapshot.Actual = actual
	if Equal(actual, tc.Expected) {
		out.Passed = true
		out.Kind = FailureNone
	} else {
		out.Kind = FailureMismatch
	}
	return out
}
