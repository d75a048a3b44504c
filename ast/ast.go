// Package ast defines the abstract syntax tree representation of Rockstar code.
package ast

import (
	"strings"

	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Assignable is an expression that may appear as the target of an
// assignment: a named variable or a pronoun.
type Assignable interface {
	Expr
	assignable()
}

// Program represents a complete program: an ordered sequence of top-level
// statements, including function declarations.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.NoPos
}

func (p *Program) String() string {
	return joinStmts(p.Stmts, "")
}

func joinStmts(stmts []Stmt, indent string) string {
	var out strings.Builder
	for _, s := range stmts {
		for _, line := range strings.Split(s.String(), "\n") {
			out.WriteString(indent)
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	return out.String()
}
