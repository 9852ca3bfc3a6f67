package verify

import (
	"fmt"
	"time"

	"codequest/internal/logging"
)

// Strategy drives a submission across a challenge's test cases. The returned
// error reports a problem with the verification itself (malformed cases),
// never a failure of the learner's code.
type Strategy interface {
	Verify(sub Submission, cases []TestCase) (Result, error)
}

// StrategyFor returns the strategy that runs cases of the given shape.
func StrategyFor(shape Shape, opts ...Option) (Strategy, error) {
	switch shape {
	case ShapeFunctional:
		return NewFunctional(opts...), nil
	case ShapeTrace:
		return NewTrace(opts...), nil
	case ShapeScript:
		return NewScript(opts...), nil
	default:
		return nil, fmt.Errorf("no strategy for shape %d", shape)
	}
}

// batch times a whole run and owns the Result being built.
type batch struct {
	opts  options
	start time.Time
	res   Result
}

func newBatch(o options) *batch {
	return &batch{opts: o, start: o.now(), res: Result{Success: true}}
}

// add records the outcome of the next case.
func (b *batch) add(o Outcome) {
	logging.VerifyDebug("Case %d: passed=%v kind=%s elapsed=%s", len(b.res.Outcomes)+1, o.Passed, o.Kind, o.Elapsed)
	b.res.add(o)
}

func (b *batch) finish() Result {
	b.res.Elapsed = b.opts.now().Sub(b.start)
	return b.res
}

// Functional runs input/output cases through a Runner.
type Functional struct {
	opts   options
	runner *Runner
}

// NewFunctional creates the functional strategy.
func NewFunctional(opts ...Option) *Functional {
	o := buildOptions(opts)
	return &Functional{opts: o, runner: &Runner{opts: o}}
}

func (f *Functional) Verify(sub Submission, cases []TestCase) (Result, error) {
	b := newBatch(f.opts)
	for i, tc := range cases {
		fc, ok := tc.(FunctionalCase)
		if !ok {
			return Result{}, fmt.Errorf("case %d is %s: %w", i+1, tc.Shape(), ErrWrongShape)
		}
		b.add(f.runner.Run(sub, fc))
	}
	return b.finish(), nil
}

// Trace replays method sequences against fresh instances.
type Trace struct {
	opts options
}

// NewTrace creates the stateful-trace strategy.
func NewTrace(opts ...Option) *Trace {
	return &Trace{opts: buildOptions(opts)}
}

func (t *Trace) Verify(sub Submission, cases []TestCase) (Result, error) {
	b := newBatch(t.opts)
	for i, tc := range cases {
		trace, ok := tc.(TraceCase)
		if !ok {
			return Result{}, fmt.Errorf("case %d is %s: %w", i+1, tc.Shape(), ErrWrongShape)
		}
		b.add(t.run(sub, trace))
	}
	return b.finish(), nil
}

func (t *Trace) run(sub Submission, tc TraceCase) Outcome {
	out := Outcome{
		Snapshot: &Snapshot{
			Input:    stepsSnapshot(tc.Steps),
			Expected: tc.Expected,
		},
	}

	start := t.opts.now()
	actual, err := protect(func() ([]any, error) {
		return replay(sub, tc.Steps)
	})
	out.Elapsed = t.opts.now().Sub(start)

	if err != nil {
		out.Kind = classify(err)
		out.Error = err.Error()
		out.Trace = traceOf(err)
		return out
	}

	out.Snapshot.Actual = actual
	if EqualExact(actual, tc.Expected) {
		out.Passed = true
		return out
	}
	out.Kind = FailureMismatch
	out.Error = fmt.Sprintf("Expected %s, but got %s", Format(tc.Expected), Format(actual))
	return out
}

// replay applies steps in order against one instance and collects every
// return value. Panics are left to the caller's failure boundary.
func replay(sub Submission, steps []Step) ([]any, error) {
	var (
		inst   Instance
		actual = make([]any, 0, len(steps))
	)
	for i, step := range steps {
		if step.New {
			if i != 0 {
				return actual, fmt.Errorf("step %d: constructor %s must be the first step", i+1, step.Method)
			}
			created, err := sub.Construct(step.Method, step.Args)
			if err != nil {
				return actual, fmt.Errorf("step %d: %s: %w", i+1, step, err)
			}
			inst = created
			actual = append(actual, nil)
			continue
		}

		if inst == nil {
			return actual, fmt.Errorf("step %d: %s: %w", i+1, step, ErrNotInitialized)
		}
		v, err := inst.Invoke(step.Method, step.Args)
		if err != nil {
			return actual, fmt.Errorf("step %d: %s: %w", i+1, step, err)
		}
		actual = append(actual, v)
	}
	return actual, nil
}

func stepsSnapshot(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.String()
	}
	return out
}

// Script executes procedural test bodies inside the submission's host.
type Script struct {
	opts options
}

// NewScript creates the script strategy.
func NewScript(opts ...Option) *Script {
	return &Script{opts: buildOptions(opts)}
}

func (s *Script) Verify(sub Submission, cases []TestCase) (Result, error) {
	b := newBatch(s.opts)
	for i, tc := range cases {
		sc, ok := tc.(ScriptCase)
		if !ok {
			return Result{}, fmt.Errorf("case %d is %s: %w", i+1, tc.Shape(), ErrWrongShape)
		}

		start := s.opts.now()
		_, err := protect(func() (struct{}, error) {
			return struct{}{}, sub.RunScript(sc)
		})
		out := Outcome{Elapsed: s.opts.now().Sub(start)}
		if err != nil {
			out.Kind = classify(err)
			out.Error = err.Error()
			if out.Kind == FailureError {
				out.Error = "Error: " + out.Error
			}
			out.Trace = traceOf(err)
		} else {
			out.Passed = true
		}
		b.add(out)
	}
	return b.finish(), nil
}
