// Package errors defines the structured error type returned by every stage
// of the expression engine's compile-and-evaluate pipeline.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/exprscript/internal/lexer"
)

// Kind classifies an EngineError by the pipeline stage that raised it.
type Kind int

const (
	// Internal indicates an engine bug; it should never happen in normal use.
	Internal Kind = iota
	// Lex is raised by the tokenizer: malformed number, unterminated string,
	// invalid character.
	Lex
	// Parse is raised by the parser: unexpected token, unmatched bracket,
	// bad ternary, assignment to a non-reference.
	Parse
	// Resolve is raised at eval time: undefined variable or function.
	Resolve
	// Type is raised when an operator or function is applied to operand
	// variants it does not support.
	Type
	// Arithmetic is raised by division/modulo by zero or bitwise ops on
	// non-integral operands.
	Arithmetic
	// Arity is raised for a wrong argument count to a function or operator.
	Arity
)

// String returns the kind's name, as used in EngineError.Error().
func (k Kind) String() string {
	switch k {
	case Lex:
		return "Lex"
	case Parse:
		return "Parse"
	case Resolve:
		return "Resolve"
	case Type:
		return "Type"
	case Arithmetic:
		return "Arithmetic"
	case Arity:
		return "Arity"
	default:
		return "Internal"
	}
}

// EngineError is the single error type returned by compile and eval. It
// carries the offending source offset (when known) so a host can render a
// caret-pointing diagnostic.
type EngineError struct {
	ErrKind Kind
	Message string
	Source  string         // full source text, for context rendering; may be empty
	Pos     lexer.Position // zero value if not applicable (e.g. a pure eval-time Resolve error with no offset)
	Wrapped error          // set when this wraps a redirected operator handler's own error
}

// New creates an EngineError with no source context attached.
func New(kind Kind, pos lexer.Position, format string, args ...any) *EngineError {
	return &EngineError{
		ErrKind: kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// Wrap wraps an operator/function handler's own error with the operator
// name and source offset, per spec: "wrapped with context (operator name,
// offset) before surfacing."
func Wrap(kind Kind, pos lexer.Position, operator string, err error) *EngineError {
	return &EngineError{
		ErrKind: kind,
		Message: fmt.Sprintf("operator %q: %s", operator, err.Error()),
		Pos:     pos,
		Wrapped: err,
	}
}

// WithSource attaches the full source text so Format can render context
// lines around Pos.
func (e *EngineError) WithSource(source string) *EngineError {
	e.Source = source
	return e
}

// Kind reports which pipeline stage raised the error.
func (e *EngineError) Kind() Kind { return e.ErrKind }

// Unwrap exposes a wrapped handler error for errors.As/errors.Is.
func (e *EngineError) Unwrap() error { return e.Wrapped }

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Pos.Line == 0 && e.Pos.Column == 0 {
		return fmt.Sprintf("%s: %s", e.ErrKind, e.Message)
	}
	return fmt.Sprintf("%s error at %d:%d: %s", e.ErrKind, e.Pos.Line, e.Pos.Column, e.Message)
}

// Format renders the error with a caret pointing at Pos within Source.
func (e *EngineError) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s error at %d:%d\n", e.ErrKind, e.Pos.Line, e.Pos.Column))

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		col := e.Pos.Column - 1
		if col < 0 {
			col = 0
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col))
		sb.WriteString("^\n")
	}

	sb.WriteString(e.Message)
	return sb.String()
}

func (e *EngineError) sourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
