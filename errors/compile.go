// Package errors defines the error types reported while compiling Rockstar
// programs, along with a formatter for human friendly diagnostics.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// Error kinds, one per compilation stage.
const (
	KindParse   = "parse error"
	KindCompile = "compile error"
	KindEncode  = "encode error"
)

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// CompileError represents a failure in any compilation stage with rich
// context. Line and Column are 1-based; zero means the location is unknown.
type CompileError struct {
	Kind        string
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int
	Column      int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
	Cause       error
}

// Error implements the error interface. The message names the line, the
// character offset within the line and the reason.
func (e *CompileError) Error() string {
	var b strings.Builder
	kind := e.Kind
	if kind == "" {
		kind = "error"
	}
	b.WriteString(kind)
	b.WriteString(": ")
	if e.Filename != "" {
		b.WriteString(e.Filename)
		b.WriteString(": ")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d, offset %d: ", e.Line, e.Column-1)
	}
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     e.Code,
		Kind:     e.Kind,
		Message:  e.Message,
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Note:     e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// ParseErrorf returns a parse error at the given position. sourceLine is the
// text of the offending line, used to draw the caret.
func ParseErrorf(code ErrorCode, pos token.Position, sourceLine, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:       KindParse,
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		Filename:   pos.File,
		Line:       pos.LineNumber(),
		Column:     pos.ColumnNumber(),
		SourceLine: sourceLine,
	}
}

// CompileErrorf returns a compile error at the given position. Pass
// token.NoPos when the location is unknown.
func CompileErrorf(code ErrorCode, pos token.Position, format string, args ...any) *CompileError {
	e := &CompileError{
		Kind:     KindCompile,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Filename: pos.File,
	}
	if pos.IsValid() {
		e.Line = pos.LineNumber()
		e.Column = pos.ColumnNumber()
	}
	return e
}

// EncodeErrorf returns an encode error. Encode errors have no source location.
func EncodeErrorf(code ErrorCode, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:    KindEncode,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithSuggestions returns the error with did-you-mean suggestions for target
// drawn from candidates.
func (e *CompileError) WithSuggestions(target string, candidates []string) *CompileError {
	e.Suggestions = SuggestSimilar(target, candidates)
	return e
}

// AsCompileError finds the first CompileError in err's chain.
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
