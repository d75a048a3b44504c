// Package types resolves the static type of Rockstar expressions. It is used
// by tooling to report type errors before a program is compiled; code
// generation does not depend on it.
package types

import "github.com/deepnoodle-ai/rockwasm/ast"

// Type is the static type of an expression.
type Type int

const (
	Unknown Type = iota
	Integer
	Float
	String
	Boolean
	Null
	Mysterious
)

var typeNames = map[Type]string{
	Unknown:    "unknown",
	Integer:    "integer",
	Float:      "float",
	String:     "string",
	Boolean:    "boolean",
	Null:       "null",
	Mysterious: "mysterious",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "invalid"
}

// IsNumeric reports whether t is an integer or a float.
func (t Type) IsNumeric() bool {
	return t == Integer || t == Float
}

// Combine returns the type of "x op y". Comparison and logical operators
// always yield a boolean. Arithmetic follows these rules: integer with integer
// is an integer, a float operand makes a float, adding a string to anything is
// a string, and multiplying a string by an integer is a string. Any other
// arithmetic combination is invalid and reports false. Unknown operands give
// an unknown result.
func Combine(x Type, op ast.Operator, y Type) (Type, bool) {
	if !op.IsArithmetic() {
		return Boolean, true
	}
	if op == ast.Add && (x == String || y == String) {
		return String, true
	}
	if op == ast.Multiply && ((x == String && y == Integer) || (x == Integer && y == String)) {
		return String, true
	}
	if x == Unknown || y == Unknown {
		return Unknown, true
	}
	if x.IsNumeric() && y.IsNumeric() {
		if x == Float || y == Float {
			return Float, true
		}
		return Integer, true
	}
	return Unknown, false
}
