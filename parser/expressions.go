package parser

import (
	"github.com/deepnoodle-ai/rockwasm/ast"
	pc "github.com/deepnoodle-ai/rockwasm/combinator"
	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// An operator and the phrases that spell it. Phrases sharing a prefix are
// listed longest first.
type operatorSpelling struct {
	op      ast.Operator
	phrases []string
}

var binaryOperators = []operatorSpelling{
	{ast.NotEqual, []string{"is not", "isnt", "aint"}},
	{ast.Greater, []string{"is higher than", "is greater than", "is bigger than", "is stronger than"}},
	{ast.Less, []string{"is lower than", "is less than", "is smaller than", "is weaker than"}},
	{ast.GreaterEqual, []string{"is as high as", "is as great as", "is as big as", "is as strong as"}},
	{ast.LessEqual, []string{"is as low as", "is as little as", "is as small as", "is as weak as"}},
	{ast.Equal, []string{"is"}},
	{ast.Add, []string{"plus", "with"}},
	{ast.Subtract, []string{"minus", "without"}},
	{ast.Multiply, []string{"times", "of"}},
	{ast.Divide, []string{"over", "between"}},
	{ast.And, []string{"and"}},
	{ast.Or, []string{"or"}},
	{ast.Nor, []string{"nor"}},
}

// Operator ranks used to fold a flat expression. Higher binds tighter.
const (
	rankLowest     = 0
	rankOr         = 1
	rankAnd        = 2
	rankNor        = 3
	rankEquality   = 6
	rankOrdering   = 7
	rankAdditive   = 8
	rankMultiplied = 9
	rankNot        = 10
)

var ranks = map[ast.Operator]int{
	ast.Or:           rankOr,
	ast.And:          rankAnd,
	ast.Nor:          rankNor,
	ast.Equal:        rankEquality,
	ast.NotEqual:     rankEquality,
	ast.Greater:      rankOrdering,
	ast.Less:         rankOrdering,
	ast.GreaterEqual: rankOrdering,
	ast.LessEqual:    rankOrdering,
	ast.Add:          rankAdditive,
	ast.Subtract:     rankAdditive,
	ast.Multiply:     rankMultiplied,
	ast.Divide:       rankMultiplied,
	ast.Not:          rankNot,
}

// Rank returns the binding strength of an operator.
func Rank(op ast.Operator) int {
	if r, ok := ranks[op]; ok {
		return r
	}
	return rankLowest
}

// item is one element of a flat expression: an operand or an operator.
type item struct {
	expr ast.Expr
	op   ast.Operator
	pos  token.Position
}

func (it item) isOperator() bool { return it.expr == nil }

func operatorParser(spellings []operatorSpelling) pc.Parser[item] {
	var alternatives []pc.Parser[item]
	for _, s := range spellings {
		op := s.op
		alternatives = append(alternatives, pc.Seq2(func(at token.Position, _ string) item {
			return item{op: op, pos: at}
		}, pc.At(), oneOf(s.phrases...)))
	}
	return pc.AnyOf(alternatives...)
}

// binaryOperator matches any binary operator phrase.
func binaryOperator() pc.Parser[item] {
	return operatorParser(binaryOperators)
}

// arithmeticOperator matches the operators allowed in "Let Y be <op> X".
func arithmeticOperator() pc.Parser[ast.Operator] {
	return pc.Convert(operatorParser(binaryOperators[6:10]), func(it item) ast.Operator {
		return it.op
	})
}

// call matches "Name taking arg, arg". Arguments are literals, pronouns or
// variables and are separated by commas, ampersands or "n".
func call() pc.Parser[ast.Expr] {
	argument := pc.AnyOf(
		literal(),
		pc.Convert(pronoun(), func(p *ast.Pronoun) ast.Expr { return p }),
		pc.Convert(variable(), func(v *ast.Variable) ast.Expr { return v }),
	)
	separator := pc.AnyOf(word(pc.Match("separator", `[,&]`)), keyword("n"))
	return pc.Seq2(func(fn *ast.Variable, args []ast.Expr) ast.Expr {
		return &ast.Call{Fn: fn, Args: args}
	},
		pc.Batch(pc.Left(variable(), keyword("taking"))),
		pc.SeparatedBy(expect(argument, msgMissingExpression), separator),
	)
}

// operand matches a call, literal, pronoun or variable, in that order.
func operand() pc.Parser[ast.Expr] {
	return pc.AnyOf(
		call(),
		literal(),
		pc.Convert(pronoun(), func(p *ast.Pronoun) ast.Expr { return p }),
		pc.Convert(variable(), func(v *ast.Variable) ast.Expr { return v }),
	)
}

// term matches an operand with any number of leading "not" operators.
func term() pc.Parser[[]item] {
	not := pc.Seq2(func(at token.Position, _ string) item {
		return item{op: ast.Not, pos: at}
	}, pc.At(), keyword("not"))
	return pc.Seq2(func(nots []item, x ast.Expr) []item {
		return append(nots, item{expr: x, pos: x.Pos()})
	}, pc.ZeroOrMany(not), expect(operand(), msgMissingExpression))
}

// expression parses a flat sequence of terms and binary operators and folds
// it into a tree.
func expression() pc.Parser[ast.Expr] {
	tail := pc.ZeroOrMany(pc.Batch(pc.Seq2(func(op item, t []item) []item {
		return append([]item{op}, t...)
	}, binaryOperator(), term())))
	return pc.Seq2(func(head []item, rest [][]item) ast.Expr {
		items := head
		for _, t := range rest {
			items = append(items, t...)
		}
		return fold(items)
	}, term(), tail)
}

// fold builds an expression tree from a flat sequence. The operator with the
// lowest rank becomes the root, the rightmost one on ties, so operators of
// equal rank group to the left. A "not" is always the first item of the
// sequence it governs and applies to everything after it.
func fold(items []item) ast.Expr {
	if len(items) == 1 {
		return items[0].expr
	}
	split := -1
	lowest := rankNot + 1
	for i, it := range items {
		if !it.isOperator() {
			continue
		}
		if r := Rank(it.op); r <= lowest {
			lowest, split = r, i
		}
	}
	if lowest == rankNot {
		return &ast.Unary{OpPos: items[0].pos, Op: ast.Not, X: fold(items[1:])}
	}
	at := items[split]
	return &ast.Binary{
		X:     fold(items[:split]),
		OpPos: at.pos,
		Op:    at.op,
		Y:     fold(items[split+1:]),
	}
}
