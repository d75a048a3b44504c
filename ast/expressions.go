package ast

import (
	"strings"

	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// NameKind identifies which naming convention a variable was written in.
type NameKind int

const (
	// SimpleName is a single word, e.g. "tommy".
	SimpleName NameKind = iota
	// CommonName is an article or possessive followed by a word, e.g. "my heart".
	CommonName
	// ProperName is two or more capitalized words, e.g. "Doctor Feelgood".
	ProperName
)

func (k NameKind) String() string {
	switch k {
	case CommonName:
		return "common"
	case ProperName:
		return "proper"
	default:
		return "simple"
	}
}

// Variable is an expression node that refers to a variable by name. Simple
// and common names are lowercased; proper names are capitalized word by word.
type Variable struct {
	NamePos token.Position // position of the name
	Name    string         // normalized name
	Kind    NameKind
}

func (x *Variable) exprNode()   {}
func (x *Variable) assignable() {}

func (x *Variable) Pos() token.Position { return x.NamePos }

func (x *Variable) String() string { return x.Name }

// Pronoun is an expression node for a pronoun such as "it". It carries no
// identity of its own: the variable it refers to is resolved from context.
type Pronoun struct {
	WordPos token.Position
	Word    string
}

func (x *Pronoun) exprNode()   {}
func (x *Pronoun) assignable() {}

func (x *Pronoun) Pos() token.Position { return x.WordPos }

func (x *Pronoun) String() string { return x.Word }

// Binary is an operator expression where the operator is between the operands.
// Examples include "x plus y" and "my heart is greater than your soul".
type Binary struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    Operator
	Y     Expr // right operand
}

func (x *Binary) exprNode() {}

func (x *Binary) Pos() token.Position { return x.X.Pos() }

func (x *Binary) String() string {
	var out strings.Builder
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" ")
	out.WriteString(OperatorWord(x.Op))
	out.WriteString(" ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Unary is an operator expression with a single, following operand. The only
// unary operator is "not".
type Unary struct {
	OpPos token.Position
	Op    Operator
	X     Expr
}

func (x *Unary) exprNode() {}

func (x *Unary) Pos() token.Position { return x.OpPos }

func (x *Unary) String() string {
	return "(" + OperatorWord(x.Op) + " " + x.X.String() + ")"
}

// Call is an expression node that calls a function, e.g.
// "Midnight taking my heart, your soul".
type Call struct {
	Fn   *Variable // function name
	Args []Expr
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fn.Pos() }

func (x *Call) String() string {
	var out strings.Builder
	out.WriteString(x.Fn.String())
	out.WriteString(" taking ")
	for i, arg := range x.Args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(arg.String())
	}
	return out.String()
}

var operatorWords = map[Operator]string{
	Or:           "or",
	And:          "and",
	Nor:          "nor",
	Equal:        "is",
	NotEqual:     "is not",
	Greater:      "is greater than",
	Less:         "is less than",
	GreaterEqual: "is as great as",
	LessEqual:    "is as low as",
	Add:          "plus",
	Subtract:     "minus",
	Multiply:     "times",
	Divide:       "over",
	Not:          "not",
}

// OperatorWord returns the canonical Rockstar spelling of an operator.
func OperatorWord(op Operator) string {
	if w, ok := operatorWords[op]; ok {
		return w
	}
	return op.String()
}
