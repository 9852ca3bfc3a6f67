package verify

import (
	"fmt"
	"reflect"
	"sort"
)

// TestCase is one check belonging to a challenge. It is a closed sum type:
// the only implementations are FunctionalCase, TraceCase and ScriptCase.
type TestCase interface {
	isTestCase()
	// Shape names the variant for diagnostics.
	Shape() Shape
}

// Shape identifies a TestCase variant and the strategy that runs it.
type Shape int

const (
	ShapeFunctional Shape = iota
	ShapeTrace
	ShapeScript
)

func (s Shape) String() string {
	switch s {
	case ShapeFunctional:
		return "functional"
	case ShapeTrace:
		return "trace"
	case ShapeScript:
		return "script"
	default:
		return "unknown"
	}
}

// FunctionalCase maps an argument list to an expected return value.
type FunctionalCase struct {
	Input    Args
	Expected any
}

func (FunctionalCase) isTestCase()  {}
func (FunctionalCase) Shape() Shape { return ShapeFunctional }

// Step is one method invocation in a stateful trace.
type Step struct {
	Method string
	Args   []any
	// New marks a constructor step. Only the first step of a trace may be one.
	New bool
}

// Construct builds a constructor step.
func Construct(name string, args ...any) Step {
	return Step{Method: name, Args: args, New: true}
}

// Call builds a method step.
func Call(method string, args ...any) Step {
	return Step{Method: method, Args: args}
}

func (s Step) String() string {
	return fmt.Sprintf("%s(%s)", s.Method, formatArgs(s.Args))
}

// TraceCase drives one object through a sequence of method calls and compares
// every return value, in order, with Expected. The constructor step and void
// methods yield nil.
type TraceCase struct {
	Steps    []Step
	Expected []any
}

func (TraceCase) isTestCase()  {}
func (TraceCase) Shape() Shape { return ShapeTrace }

// ScriptCase is a self-contained Go test body. The learner's entrypoint is
// bound as Solution; the body fails by panicking, usually through the
// codequest/assert package.
type ScriptCase struct {
	Name    string
	Fixture string
	Body    string
	Imports []string
}

func (ScriptCase) isTestCase()  {}
func (ScriptCase) Shape() Shape { return ShapeScript }

// ArgsKind is the call convention an Args value selects.
type ArgsKind int

const (
	ArgsNamed ArgsKind = iota
	ArgsPositional
	ArgsSingle
)

// Args is the input of a functional case: named arguments, positional
// arguments or a single value.
type Args struct {
	kind       ArgsKind
	named      map[string]any
	positional []any
	single     any
}

// Named builds named arguments, matched against declared parameter names.
func Named(m map[string]any) Args {
	if m == nil {
		m = map[string]any{}
	}
	return Args{kind: ArgsNamed, named: m}
}

// Positional builds positional arguments.
func Positional(vals ...any) Args {
	if vals == nil {
		vals = []any{}
	}
	return Args{kind: ArgsPositional, positional: vals}
}

// Single passes v as the only argument.
func Single(v any) Args {
	return Args{kind: ArgsSingle, single: v}
}

// ArgsFrom classifies decoded data: a mapping becomes named arguments, an
// ordered list positional arguments, anything else a single argument.
func ArgsFrom(v any) Args {
	if v == nil {
		return Single(nil)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return Named(m)
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return Positional(out...)
	default:
		return Single(v)
	}
}

func (a Args) Kind() ArgsKind { return a.kind }

// NamedValues returns the named arguments; nil unless Kind is ArgsNamed.
func (a Args) NamedValues() map[string]any { return a.named }

// PositionalValues returns the positional arguments; nil unless Kind is ArgsPositional.
func (a Args) PositionalValues() []any { return a.positional }

// SingleValue returns the single argument.
func (a Args) SingleValue() any { return a.single }

// Snapshot returns the input as plain data for result snapshots.
func (a Args) Snapshot() any {
	switch a.kind {
	case ArgsNamed:
		return a.named
	case ArgsPositional:
		return a.positional
	default:
		return a.single
	}
}

func (a Args) String() string {
	switch a.kind {
	case ArgsNamed:
		keys := make([]string, 0, len(a.named))
		for k := range a.named {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s := ""
		for i, k := range keys {
			if i > 0 {
				s += ", "
			}
			s += k + "=" + Format(a.named[k])
		}
		return s
	case ArgsPositional:
		return formatArgs(a.positional)
	default:
		return Format(a.single)
	}
}

func formatArgs(vals []any) string {
	s := ""
	for i, v := range vals {
		if i > 0 {
			s += ", "
		}
		s += Format(v)
	}
	return s
}

// ShapeOf returns the common shape of cases, or an error when they mix shapes
// or the list is empty.
func ShapeOf(cases []TestCase) (Shape, error) {
	if len(cases) == 0 {
		return 0, ErrNoTestCases
	}
	shape := cases[0].Shape()
	for i, tc := range cases[1:] {
		if tc.Shape() != shape {
			return 0, fmt.Errorf("test case %d is %s, expected %s: %w", i+2, tc.Shape(), shape, ErrMixedShapes)
		}
	}
	return shape, nil
}
