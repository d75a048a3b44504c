// Package parser builds the abstract syntax tree (AST) for a Rockstar program.
//
// The grammar is written with the combinator package. Source text is first
// normalized: possessive "'s" becomes " is" and other apostrophes are removed,
// so "Tommy's" reads as "Tommy is" and "ain't" as "aint". Each line is then
// trimmed and parsed as one statement, except for blocks and function
// declarations, which span lines and close at a blank line or the end of the
// input.
//
// Parse reports an error unless the whole input is consumed. There is no
// recovery: the first failure ends the parse.
package parser

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/rockwasm/ast"
	pc "github.com/deepnoodle-ai/rockwasm/combinator"
	"github.com/deepnoodle-ai/rockwasm/errors"
)

// Option is a configuration function for Parse.
type Option func(*config)

type config struct {
	filename string
}

// WithFilename sets the file name reported in positions and errors.
func WithFilename(filename string) Option {
	return func(c *config) {
		c.filename = filename
	}
}

var possessive = regexp.MustCompile(`'s\b`)

// Normalize rewrites possessives and strips apostrophes.
func Normalize(source string) string {
	source = possessive.ReplaceAllString(source, " is")
	return strings.ReplaceAll(source, "'", "")
}

var rules = sync.OnceValue(newGrammar)

// Parse the provided input as Rockstar source code and return the AST.
func Parse(ctx context.Context, source string, options ...Option) (*ast.Program, error) {
	var cfg config
	for _, opt := range options {
		opt(&cfg)
	}
	in := pc.NewInput(Normalize(source), cfg.filename)
	g := rules()
	program := &ast.Program{}
	at := in.Start()
	for !in.AtEnd(at) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := g.topLevel(in, at)
		if r.Err != nil {
			if r.Next == at {
				line, _ := in.Line(at.Line)
				return nil, errors.ParseErrorf(errors.E1001, at, line,
					"unexpected input %q", in.Rest(at))
			}
			return nil, newParseError(in, r.Err)
		}
		if r.Value != nil {
			program.Stmts = append(program.Stmts, r.Value)
		}
		at = r.Next
	}
	return program, nil
}

// ParseExpression parses a single expression occupying the whole input. It
// is mostly useful for tools and tests.
func ParseExpression(source string) (ast.Expr, error) {
	in := pc.NewInput(strings.TrimSpace(Normalize(source)), "")
	r := pc.Left(rules().expr, pc.Right(pc.OptionalWhitespace(), pc.EndOfLine()))(in, in.Start())
	if r.Err != nil {
		return nil, newParseError(in, r.Err)
	}
	if !in.AtEnd(r.Next) {
		line, _ := in.Line(r.Next.Line)
		return nil, errors.ParseErrorf(errors.E1001, r.Next, line, "unexpected input %q", in.Rest(r.Next))
	}
	return r.Value, nil
}
