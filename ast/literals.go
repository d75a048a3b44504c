package ast

import (
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// Number is an expression node that holds a numeric literal. Poetic number
// literals are decoded to the same node, with Literal holding the digits.
type Number struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the literal text, e.g. "42" or "3.1415"
	Value    float64        // the parsed value
}

func (x *Number) exprNode() {}

func (x *Number) Pos() token.Position { return x.ValuePos }

func (x *Number) String() string { return x.Literal }

// IsFloat reports whether the literal was written with a fractional part.
func (x *Number) IsFloat() bool { return strings.Contains(x.Literal, ".") }

// String is an expression node that holds a string literal.
type String struct {
	ValuePos token.Position // position of the literal
	Value    string         // the text between the quotes
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }

func (x *String) String() string { return strconv.Quote(x.Value) }

// Boolean is an expression node that holds a boolean literal.
type Boolean struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the word used, e.g. "right" or "lies"
	Value    bool
}

func (x *Boolean) exprNode() {}

func (x *Boolean) Pos() token.Position { return x.ValuePos }

func (x *Boolean) String() string {
	if x.Value {
		return "true"
	}
	return "false"
}

// Null is an expression node that holds a null literal.
type Null struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the word used, e.g. "nothing"
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.ValuePos }

func (x *Null) String() string { return "null" }

// Mysterious is the value of a variable that was never assigned. It is a
// constant of its own, distinct from null.
type Mysterious struct {
	ValuePos token.Position
}

func (x *Mysterious) exprNode() {}

func (x *Mysterious) Pos() token.Position { return x.ValuePos }

func (x *Mysterious) String() string { return "mysterious" }

// IsLiteral reports whether the expression is a literal constant.
func IsLiteral(e Expr) bool {
	switch e.(type) {
	case *Number, *String, *Boolean, *Null, *Mysterious:
		return true
	}
	return false
}
