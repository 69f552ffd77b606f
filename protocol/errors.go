// Package protocol parses administrative command lines and UPDATE wire
// payloads into typed operations, with strict arity and format checks.
package protocol

import (
	"errors"
	"fmt"
)

// SyntaxError is a malformed administrative command line. The CLI boundary
// maps it to exit code 2; the runtime listener logs and skips instead.
type SyntaxError struct {
	msg string
}

func (e *SyntaxError) Error() string { return e.msg }

func syntaxf(format string, args ...any) error {
	return &SyntaxError{msg: fmt.Sprintf(format, args...)}
}

// WireError is a malformed UPDATE payload. It is fatal to the process (exit
// code 3), unlike command syntax errors inside the listening runtime.
type WireError struct {
	msg string
}

func (e *WireError) Error() string { return e.msg }

func wireErr() error {
	return &WireError{msg: "Error: Invalid update packet format."}
}

// ExitCode maps an error to the process exit status: 2 for command syntax,
// 3 for UPDATE payloads, 1 for everything else (startup/config).
func ExitCode(err error) int {
	var se *SyntaxError
	var we *WireError
	switch {
	case errors.As(err, &we):
		return 3
	case errors.As(err, &se):
		return 2
	default:
		return 1
	}
}
