package parser

import (
	"strings"

	pc "github.com/deepnoodle-ai/rockwasm/combinator"
	"github.com/deepnoodle-ai/rockwasm/errors"
	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// Messages for grammar failures that map to a specific error code.
const (
	msgUnterminatedString = "unterminated string literal"
	msgUnclosedComment    = "unclosed comment"
	msgMissingResult      = `missing function result: expected "Give back"`
	msgMissingExpression  = "expected an expression"
	msgExpectedName       = "expected a variable name"
	msgPoeticNumber       = "poetic number has no digits"
)

var messageCodes = []struct {
	prefix string
	code   errors.ErrorCode
}{
	{msgUnterminatedString, errors.E1002},
	{msgUnclosedComment, errors.E1007},
	{msgMissingResult, errors.E1009},
	{msgMissingExpression, errors.E1004},
	{msgExpectedName, errors.E1006},
	{msgPoeticNumber, errors.E1008},
	{"invalid number", errors.E1008},
	{"reserved word", errors.E1005},
}

func codeFor(message string) errors.ErrorCode {
	for _, mc := range messageCodes {
		if strings.HasPrefix(message, mc.prefix) {
			return mc.code
		}
	}
	return errors.E1003
}

// newParseError converts a grammar failure into a CompileError carrying the
// offending source line.
func newParseError(in *pc.Input, err *pc.Error) *errors.CompileError {
	line, _ := in.Line(err.Pos.Line)
	return errors.ParseErrorf(codeFor(err.Message), err.Pos, line, "%s", err.Message)
}

// expect replaces the error of a parser that fails without consuming input.
func expect[T any](p pc.Parser[T], message string) pc.Parser[T] {
	return func(in *pc.Input, at token.Position) pc.Result[T] {
		r := p(in, at)
		if r.Err != nil && r.Next == at {
			r.Err = pc.Errorf(at, "%s", message)
		}
		return r
	}
}
