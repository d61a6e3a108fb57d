package kernel

import (
	"errors"
	"fmt"
)

var (
	// ErrBind is the sentinel all bind failures wrap.
	ErrBind = errors.New("kernel: bind error")

	// ErrCompile is the sentinel all compile failures wrap.
	ErrCompile = errors.New("kernel: compile error")

	// ErrProgramTooLarge indicates a program exceeded the backend's
	// instruction budget.
	ErrProgramTooLarge = errors.New("kernel: program exceeds instruction limit")
)

// BindError reports an unresolved symbol or out-of-range reference found
// while binding a parsed equation.
type BindError struct {
	Symbol string
	Offset int
	Msg    string
}

func (e *BindError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("bind error at offset %d: %s", e.Offset, e.Msg)
	}
	return fmt.Sprintf("bind error at offset %d: %s: %q", e.Offset, e.Msg, e.Symbol)
}

func (e *BindError) Unwrap() error { return ErrBind }

func bindErrorf(symbol string, offset int, format string, args ...any) *BindError {
	return &BindError{Symbol: symbol, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// CompileError marks a program Failed. It is surfaced through the
// program's status, not returned to the caller that submitted it.
type CompileError struct {
	Channel string
	Wrapped error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling channel %s: %v", e.Channel, e.Wrapped)
}

func (e *CompileError) Unwrap() error { return e.Wrapped }
