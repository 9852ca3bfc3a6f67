package submission

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEntrypoint is returned when the source defines no callable the
	// challenge can run.
	ErrNoEntrypoint = errors.New("no entrypoint function found")
	// ErrNoConstructor is returned when a trace names a constructor the
	// source cannot satisfy.
	ErrNoConstructor = errors.New("no matching constructor")
	// ErrNoMethod is returned when a trace calls a method the instance lacks.
	ErrNoMethod = errors.New("no such method")
	// ErrForbiddenImport is returned when the source imports a blocked package.
	ErrForbiddenImport = errors.New("forbidden import")
)

// CompileError reports source that failed to parse or type-check.
type CompileError struct {
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: %v", e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// ArgumentError reports test data that cannot be bound to the callable's
// parameters.
type ArgumentError struct {
	Func   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Func, e.Reason)
}
