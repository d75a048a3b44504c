package ast

// Operator identifies a unary or binary operation.
type Operator int

const (
	Or Operator = iota + 1
	And
	Nor
	Equal
	NotEqual
	Greater
	Less
	GreaterEqual
	LessEqual
	Add
	Subtract
	Multiply
	Divide
	Not
)

var operatorNames = map[Operator]string{
	Or:           "or",
	And:          "and",
	Nor:          "nor",
	Equal:        "eq",
	NotEqual:     "ne",
	Greater:      "gt",
	Less:         "lt",
	GreaterEqual: "ge",
	LessEqual:    "le",
	Add:          "add",
	Subtract:     "subtract",
	Multiply:     "multiply",
	Divide:       "divide",
	Not:          "not",
}

// String returns the short name of the operator, e.g. "add".
func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return "unknown"
}

// IsArithmetic reports whether the operator is add, subtract, multiply or divide.
func (o Operator) IsArithmetic() bool {
	return o >= Add && o <= Divide
}

// IsComparison reports whether the operator compares its operands.
func (o Operator) IsComparison() bool {
	return o >= Equal && o <= LessEqual
}

// IsLogical reports whether the operator is a boolean connective.
func (o Operator) IsLogical() bool {
	return o == Or || o == And || o == Nor || o == Not
}
