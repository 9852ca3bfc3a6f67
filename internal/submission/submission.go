package submission

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"

	"codequest/internal/verify"
)

// Submission is one learner program loaded into the interpreter. It is not
// safe for concurrent use.
type Submission struct {
	exec    *Executor
	learner *piece
	fixture *piece
	outline *outline
	entry   *signature
	fn      reflect.Value
	out     *bytes.Buffer
}

var _ verify.Submission = (*Submission)(nil)

// Entry returns the name of the function functional cases call, or "" when
// the source defines none.
func (s *Submission) Entry() string {
	if s.entry == nil {
		return ""
	}
	return s.entry.name
}

// Output returns everything the learner's code has printed so far when
// output capture is enabled.
func (s *Submission) Output() string {
	if s.out == nil {
		return ""
	}
	return s.out.String()
}

func (s *Submission) output() io.Writer {
	if s.out == nil {
		return io.Discard
	}
	return s.out
}

// Call invokes the entrypoint with args.
func (s *Submission) Call(args verify.Args) (any, error) {
	if !s.fn.IsValid() {
		return nil, ErrNoEntrypoint
	}
	in, spread, err := bind(s.entry, s.fn.Type(), args)
	if err != nil {
		return nil, err
	}
	return invoke(s.fn, in, spread)
}

// Construct builds a fresh instance in its own interpreter so no state leaks
// between traces.
func (s *Submission) Construct(name string, args []any) (verify.Instance, error) {
	plan, err := s.outline.constructor(name)
	if err != nil {
		return nil, err
	}
	glue, err := parsePiece("construct.go", plan.glue)
	if err != nil {
		return nil, fmt.Errorf("constructor glue: %w", err)
	}

	i, err := s.exec.load(s.output(), assemble(s.learner, s.fixture, glue))
	if err != nil {
		return nil, err
	}
	ctor, err := lookup(i, "main.QuestConstruct")
	if err != nil {
		return nil, err
	}
	in, spread, err := bind(plan.sig, ctor.Type(), verify.Positional(args...))
	if err != nil {
		return nil, err
	}
	if _, err := invoke(ctor, in, spread); err != nil {
		return nil, err
	}
	return &instance{
		sub:    s,
		interp: i,
		recv:   plan.recv,
		calls:  make(map[int]reflect.Value),
	}, nil
}

// RunScript runs sc in a fresh interpreter with the entrypoint bound to
// Solution. A failed assertion is returned as *verify.AssertionError.
func (s *Submission) RunScript(sc verify.ScriptCase) (err error) {
	if s.entry == nil {
		return ErrNoEntrypoint
	}

	var extra *piece
	if strings.TrimSpace(sc.Fixture) != "" {
		if extra, err = parsePiece("case_fixture.go", sc.Fixture); err != nil {
			return fmt.Errorf("script fixture: %w", err)
		}
	}
	glue, err := parsePiece(scriptFile(sc), scriptGlue(s.entry.name, sc))
	if err != nil {
		return fmt.Errorf("script %q: %w", sc.Name, err)
	}

	i, err := s.exec.load(s.output(), assemble(s.learner, s.fixture, extra, glue))
	if err != nil {
		return err
	}
	run, err := lookup(i, "main.QuestScript")
	if err != nil {
		return err
	}
	_, err = invoke(run, nil, false)
	return err
}

func scriptFile(sc verify.ScriptCase) string {
	if sc.Name == "" {
		return "script.go"
	}
	return sc.Name + ".go"
}

func scriptGlue(entry string, sc verify.ScriptCase) string {
	imports := append([]string(nil), sc.Imports...)
	if strings.Contains(sc.Body, "assert.") {
		imports = append(imports, AssertPackage)
	}

	var b strings.Builder
	b.WriteString("package main\n\n")
	for _, path := range imports {
		fmt.Fprintf(&b, "import %q\n", path)
	}
	// A learner function already named Solution is used as is.
	if entry != "Solution" {
		fmt.Fprintf(&b, "\nvar Solution = %s\n", entry)
	}
	fmt.Fprintf(&b, "\nfunc QuestScript() {\n%s\n}\n", sc.Body)
	return b.String()
}

// instance is one constructed object living in its own interpreter.
type instance struct {
	sub    *Submission
	interp *interp.Interpreter
	recv   string
	calls  map[int]reflect.Value
}

func (in *instance) Invoke(method string, args []any) (any, error) {
	idx, sig := in.sub.outline.method(in.recv, method)
	if sig == nil {
		return nil, fmt.Errorf("%s.%s: %w", in.recv, method, ErrNoMethod)
	}
	fn, ok := in.calls[idx]
	if !ok {
		var err error
		if fn, err = lookup(in.interp, fmt.Sprintf("main.QuestCall%d", idx)); err != nil {
			return nil, err
		}
		in.calls[idx] = fn
	}
	vals, spread, err := bind(sig, fn.Type(), verify.Positional(args...))
	if err != nil {
		return nil, err
	}
	return invoke(fn, vals, spread)
}

// invoke calls fn and turns a panic into an error. Panics raised by
// interpreted code can arrive wrapped in a reflect.Value.
func invoke(fn reflect.Value, in []reflect.Value, spread bool) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rv, ok := r.(reflect.Value); ok && rv.IsValid() && rv.CanInterface() {
				r = rv.Interface()
			}
			err = verify.Recovered(r)
		}
	}()
	var out []reflect.Value
	if spread {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	return exportResults(out)
}

// bind maps test arguments onto the parameters of ft. Named arguments are
// matched to declared parameter names. Trailing positional arguments of a
// variadic function are packed into one slice; the bool result reports
// whether that slice must be passed with CallSlice.
func bind(sig *signature, ft reflect.Type, args verify.Args) ([]reflect.Value, bool, error) {
	fname := "function"
	if sig != nil {
		fname = sig.name
	}
	n := ft.NumIn()
	spread := ft.IsVariadic()
	variadic := spread || (sig != nil && sig.variadic() && n > 0 && ft.In(n-1).Kind() == reflect.Slice)

	var raw []any
	switch args.Kind() {
	case verify.ArgsNamed:
		named := args.NamedValues()
		raw = make([]any, n)
		used := make(map[string]bool, len(named))
		for i := 0; i < n; i++ {
			name := ""
			if sig != nil && i < len(sig.params) {
				name = sig.params[i].name
			}
			key, ok := argKey(named, name)
			if !ok {
				return nil, false, &ArgumentError{Func: fname, Reason: fmt.Sprintf("missing argument %q", name)}
			}
			raw[i] = named[key]
			used[key] = true
		}
		var extra []string
		for k := range named {
			if !used[k] {
				extra = append(extra, k)
			}
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			return nil, false, &ArgumentError{Func: fname, Reason: fmt.Sprintf("unexpected argument %q", extra[0])}
		}
	case verify.ArgsSingle:
		raw = []any{args.SingleValue()}
	default:
		raw = args.PositionalValues()
	}

	if args.Kind() != verify.ArgsNamed {
		if variadic {
			if len(raw) < n-1 {
				return nil, false, &ArgumentError{Func: fname, Reason: fmt.Sprintf("takes at least %d arguments, got %d", n-1, len(raw))}
			}
			packed := append([]any(nil), raw[:n-1]...)
			raw = append(packed, append([]any{}, raw[n-1:]...))
		} else if len(raw) != n {
			return nil, false, &ArgumentError{Func: fname, Reason: fmt.Sprintf("takes %d arguments, got %d", n, len(raw))}
		}
	}

	vals := make([]reflect.Value, n)
	for i := range vals {
		v, err := coerce(raw[i], ft.In(i))
		if err != nil {
			return nil, false, &ArgumentError{Func: fname, Reason: fmt.Sprintf("argument %d: %v", i+1, err)}
		}
		vals[i] = v
	}
	return vals, spread, nil
}

func argKey(named map[string]any, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if _, ok := named[name]; ok {
		return name, true
	}
	want := canonical(name)
	for k := range named {
		if canonical(k) == want {
			return k, true
		}
	}
	return "", false
}
