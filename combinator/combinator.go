// Package combinator provides a small backtracking parser-combinator engine.
//
// A Parser is a function from an Input and a cursor position to a Result. The
// cursor is a plain token.Position value: parsers never mutate shared state,
// they return the position at which the next parser should continue. This
// makes backtracking explicit and composable:
//
//   - Seq2..Seq6 run parsers in order. On failure the result carries the
//     position where the failing sub-parser stopped, so callers can tell how
//     far the input was consumed.
//   - Batch rewinds a failed parser back to where it started.
//   - AnyOf returns the first success. A failure that consumed input is
//     returned immediately, so the order of alternatives matters.
//   - Optional, ZeroOrMany and OneOrMany handle repetition.
//
// Grammar rules are built from these primitives only.
package combinator

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// Input is the immutable text being parsed, split into trimmed lines.
type Input struct {
	lines []string
	file  string
}

// NewInput splits text into lines and trims surrounding whitespace from each.
func NewInput(text, filename string) *Input {
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return &Input{lines: lines, file: filename}
}

// Start returns the position of the first character of the input.
func (in *Input) Start() token.Position {
	return token.Position{File: in.file}
}

// LineCount returns the number of lines in the input.
func (in *Input) LineCount() int {
	return len(in.lines)
}

// Line returns the text of line i, or false if i is out of range.
func (in *Input) Line(i int) (string, bool) {
	if i < 0 || i >= len(in.lines) {
		return "", false
	}
	return in.lines[i], true
}

// Rest returns the unconsumed text of the line at the given position.
func (in *Input) Rest(at token.Position) string {
	line, ok := in.Line(at.Line)
	if !ok || at.Column >= len(line) {
		return ""
	}
	return line[at.Column:]
}

// AtEnd reports whether the position is past the last line.
func (in *Input) AtEnd(at token.Position) bool {
	return at.Line >= len(in.lines)
}

// Filename returns the name of the file the input was read from.
func (in *Input) Filename() string {
	return in.file
}

// Error describes why a parser failed and where.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, offset %d: %s", e.Pos.LineNumber(), e.Pos.Column, e.Message)
}

// Errorf creates an Error at the given position.
func Errorf(pos token.Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Result is the outcome of running a parser: either a value and the position
// following it, or an error and the position at which parsing stopped.
type Result[T any] struct {
	Value T
	Next  token.Position
	Err   *Error
}

// Ok reports whether the parse succeeded.
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Parser parses a T from the input starting at the given position.
type Parser[T any] func(in *Input, at token.Position) Result[T]

// Parse runs the parser from the start of the input.
func (p Parser[T]) Parse(in *Input) Result[T] {
	return p(in, in.Start())
}

func succeed[T any](value T, next token.Position) Result[T] {
	return Result[T]{Value: value, Next: next}
}

func fail[T any](next token.Position, err *Error) Result[T] {
	return Result[T]{Next: next, Err: err}
}

// propagate converts a failed result to a failed result of another type,
// keeping its position and error.
func propagate[R, T any](r Result[T]) Result[R] {
	return Result[R]{Next: r.Next, Err: r.Err}
}

// At returns a parser that consumes nothing and yields the current position.
// Sequences use it to record where a node starts.
func At() Parser[token.Position] {
	return func(in *Input, at token.Position) Result[token.Position] {
		return succeed(at, at)
	}
}

// Succeed returns a parser that consumes nothing and yields value.
func Succeed[T any](value T) Parser[T] {
	return func(in *Input, at token.Position) Result[T] {
		return succeed(value, at)
	}
}

// Fail returns a parser that consumes nothing and always fails.
func Fail[T any](message string) Parser[T] {
	return func(in *Input, at token.Position) Result[T] {
		return fail[T](at, Errorf(at, "%s", message))
	}
}

// Lazy defers construction of a parser until it runs. It allows recursive
// grammar rules to refer to each other.
func Lazy[T any](f func() Parser[T]) Parser[T] {
	return func(in *Input, at token.Position) Result[T] {
		return f()(in, at)
	}
}
