// Package submission compiles learner Go source with the yaegi interpreter
// and exposes it to the verification engine.
//
// Learner code is interpreted, not sandboxed. Imports can be restricted with
// a deny-list but the interpreter otherwise has the full standard library.
package submission

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"codequest/internal/logging"
	"codequest/internal/verify"
)

// Config controls how learner code is interpreted.
type Config struct {
	// BlockedImports lists import paths learner code may not use. A path
	// ending in "/..." blocks the whole subtree.
	BlockedImports []string
	// CaptureOutput keeps what learner code prints so it can be shown after
	// a run. When false, output is discarded.
	CaptureOutput bool
}

// Program is the code one submission is built from.
type Program struct {
	// Source is the learner's code. A package clause is optional.
	Source string
	// Entry names the function functional and script cases call. When the
	// source has no function of that name the first top-level function is used.
	Entry string
	// Fixture is support code compiled alongside the source, such as a
	// ListNode type. Declarations in Source win over same-named fixture ones.
	Fixture string
}

// Executor turns learner source into runnable submissions.
type Executor struct {
	blocked []string
	capture bool
}

// NewExecutor creates an executor.
func NewExecutor(cfg Config) *Executor {
	blocked := append([]string(nil), cfg.BlockedImports...)
	sort.Strings(blocked)
	return &Executor{
		blocked: blocked,
		capture: cfg.CaptureOutput,
	}
}

// Compile satisfies the challenge compiler contract.
func (e *Executor) Compile(p Program) (verify.Submission, error) {
	sub, err := e.Load(p)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Load parses, validates and interprets p, returning a submission ready to
// be verified. Parse and interpreter errors are returned as *CompileError.
func (e *Executor) Load(p Program) (*Submission, error) {
	learner, err := parsePiece("solution.go", p.Source)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	if err := e.validateImports(learner); err != nil {
		return nil, err
	}

	var fixture *piece
	if strings.TrimSpace(p.Fixture) != "" {
		if fixture, err = parsePiece("fixture.go", p.Fixture); err != nil {
			return nil, fmt.Errorf("fixture: %w", err)
		}
	}

	sub := &Submission{
		exec:    e,
		learner: learner,
		fixture: fixture,
		outline: learner.outline(),
	}
	if e.capture {
		sub.out = new(bytes.Buffer)
	}
	sub.entry = sub.outline.entry(p.Entry)

	pieces := []*piece{learner, fixture}
	if sub.entry != nil {
		glue, err := parsePiece("entry.go", "package main\n\n"+sub.entry.wrapper("QuestEntry", sub.entry.name))
		if err != nil {
			return nil, fmt.Errorf("entry glue: %w", err)
		}
		pieces = append(pieces, glue)
	}

	i, err := e.load(sub.output(), assemble(pieces...))
	if err != nil {
		return nil, err
	}
	if sub.entry != nil {
		if sub.fn, err = lookup(i, "main.QuestEntry"); err != nil {
			return nil, err
		}
		logging.SubmissionDebug("Loaded submission with entrypoint %s", sub.entry.name)
	} else {
		logging.SubmissionDebug("Loaded submission without a top-level function")
	}
	return sub, nil
}

func (e *Executor) newInterpreter(out io.Writer) (*interp.Interpreter, error) {
	i := interp.New(interp.Options{Stdout: out, Stderr: out})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	if err := i.Use(assertSymbols); err != nil {
		return nil, fmt.Errorf("failed to load assertions: %w", err)
	}
	return i, nil
}

// load evaluates a complete program in a fresh interpreter.
func (e *Executor) load(out io.Writer, src string) (*interp.Interpreter, error) {
	i, err := e.newInterpreter(out)
	if err != nil {
		return nil, err
	}
	if _, err := i.Eval(src); err != nil {
		logging.SubmissionDebug("Evaluation failed: %v", err)
		return nil, &CompileError{Err: err}
	}
	return i, nil
}

func lookup(i *interp.Interpreter, name string) (reflect.Value, error) {
	v, err := i.Eval(name)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%s not found: %w", name, err)
	}
	if v.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("%s is %s, not a function", name, v.Kind())
	}
	return v, nil
}

// validateImports rejects imports on the deny-list.
func (e *Executor) validateImports(p *piece) error {
	var forbidden []string
	for _, path := range p.imports() {
		if e.isBlocked(path) {
			forbidden = append(forbidden, path)
		}
	}
	if len(forbidden) > 0 {
		logging.Submission("Rejected submission importing %s", strings.Join(forbidden, ", "))
		return fmt.Errorf("%w: %s", ErrForbiddenImport, strings.Join(forbidden, ", "))
	}
	return nil
}

func (e *Executor) isBlocked(path string) bool {
	for _, b := range e.blocked {
		if prefix, ok := strings.CutSuffix(b, "/..."); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == b {
			return true
		}
	}
	return false
}
