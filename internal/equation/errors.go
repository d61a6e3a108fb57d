package equation

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel all parse failures wrap.
var ErrParse = errors.New("equation: parse error")

// ParseError reports a malformed equation source. Offset is the byte
// position in the full source string (across all channels); Token is the
// offending text, empty at end of input.
type ParseError struct {
	Offset int
	Token  string
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
	}
	return fmt.Sprintf("parse error at offset %d near %q: %s", e.Offset, e.Token, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

func parseErrorf(offset int, token, format string, args ...any) *ParseError {
	return &ParseError{Offset: offset, Token: token, Msg: fmt.Sprintf(format, args...)}
}
