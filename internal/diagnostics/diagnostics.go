// Package diagnostics defines the unified, span-carrying error type used
// by every stage of the interpreter pipeline: lexer, parser, compiler,
// and VM.
package diagnostics

import (
	"fmt"

	"github.com/aoclang/aoclang/internal/token"
)

// Kind identifies which pipeline stage raised an error.
type Kind string

const (
	LexError     Kind = "lex error"
	ParseError   Kind = "parse error"
	CompileError Kind = "compile error"
	RuntimeError Kind = "runtime error"
)

// RuntimeKind further classifies a RuntimeError.
type RuntimeKind string

const (
	TypeMismatch      RuntimeKind = "TypeMismatch"
	ArityMismatch     RuntimeKind = "ArityMismatch"
	IndexOutOfBounds  RuntimeKind = "IndexOutOfBounds"
	KeyUnhashable     RuntimeKind = "KeyUnhashable"
	DivisionByZero    RuntimeKind = "DivisionByZero"
	NotCallable       RuntimeKind = "NotCallable"
	DestructureLength RuntimeKind = "DestructureLength"
	StackOverflow     RuntimeKind = "StackOverflow"
	Cancelled         RuntimeKind = "Cancelled"
)

// Error is the error type returned by every stage of the pipeline.
type Error struct {
	Kind        Kind
	RuntimeKind RuntimeKind // only set when Kind == RuntimeError
	Span        token.Span
	Message     string
}

func (e *Error) Error() string {
	kind := string(e.Kind)
	if e.Kind == RuntimeError && e.RuntimeKind != "" {
		kind = fmt.Sprintf("%s(%s)", e.Kind, e.RuntimeKind)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Span.StartLine, e.Span.StartCol, kind, e.Message)
}

// New builds a plain error for the given stage.
func New(kind Kind, span token.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

// NewRuntime builds a runtime error with a specific subkind.
func NewRuntime(rk RuntimeKind, span token.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: RuntimeError, RuntimeKind: rk, Span: span, Message: fmt.Sprintf(format, args...)}
}

// Lexf is a convenience constructor for LexError.
func Lexf(span token.Span, format string, args ...interface{}) *Error {
	return New(LexError, span, format, args...)
}

// Parsef is a convenience constructor for ParseError.
func Parsef(span token.Span, format string, args ...interface{}) *Error {
	return New(ParseError, span, format, args...)
}

// Compilef is a convenience constructor for CompileError.
func Compilef(span token.Span, format string, args ...interface{}) *Error {
	return New(CompileError, span, format, args...)
}
