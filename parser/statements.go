package parser

import (
	"strings"

	"github.com/deepnoodle-ai/rockwasm/ast"
	pc "github.com/deepnoodle-ai/rockwasm/combinator"
	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// grammar holds the statement-level parsers. It is built once and shared;
// parsers carry no state between calls.
type grammar struct {
	expr      pc.Parser[ast.Expr]
	target    pc.Parser[ast.Assignable]
	statement pc.Parser[ast.Stmt]
	block     pc.Parser[[]ast.Stmt]
	function  pc.Parser[ast.Stmt]
	topLevel  pc.Parser[ast.Stmt]
}

func newGrammar() *grammar {
	g := &grammar{
		expr:   expect(expression(), msgMissingExpression),
		target: expect(assignable(), msgExpectedName),
	}
	g.statement = pc.AnyOf(
		g.comment(),
		g.put(),
		g.let(),
		g.declaration(),
		g.poeticString(),
		g.increment(),
		g.decrement(),
		g.round(),
		g.say(),
		g.listen(),
		g.conditional(),
		g.loop(),
		g.breakStmt(),
		g.continueStmt(),
	)
	g.block = pc.ZeroOrMany(g.statement)
	g.function = g.functionDecl()
	g.topLevel = pc.AnyOf(
		pc.Value[string, ast.Stmt](pc.BlankLine(), nil),
		g.function,
		g.statement,
	)
	return g
}

// body refers to the block parser, which is only complete once every
// statement parser exists.
func (g *grammar) body() pc.Parser[[]ast.Stmt] {
	return pc.Lazy(func() pc.Parser[[]ast.Stmt] { return g.block })
}

func stmt[T ast.Stmt](p pc.Parser[T]) pc.Parser[ast.Stmt] {
	return pc.Convert(p, func(s T) ast.Stmt { return s })
}

func (g *grammar) comment() pc.Parser[ast.Stmt] {
	body := pc.Between("(", ")")
	unclosed := func(in *pc.Input, at token.Position) pc.Result[string] {
		r := body(in, at)
		if r.Err != nil && strings.HasPrefix(in.Rest(at), "(") {
			return pc.Result[string]{Next: at.Advance(1), Err: pc.Errorf(at, msgUnclosedComment)}
		}
		return r
	}
	return stmt(pc.Seq3(func(at token.Position, text string, _ string) *ast.Comment {
		return &ast.Comment{StmtPos: at, Text: text}
	}, pc.At(), pc.Parser[string](unclosed), statementEnd()))
}

// put matches "Put X into Y".
func (g *grammar) put() pc.Parser[ast.Stmt] {
	return stmt(pc.Seq6(func(at token.Position, _ string, x ast.Expr, _ string, y ast.Assignable, _ string) *ast.Assign {
		return &ast.Assign{StmtPos: at, Target: y, Value: x}
	}, pc.At(), keyword("put"), g.expr, keyword("into"), g.target, statementEnd()))
}

// let matches "Let Y be X" and the compound form "Let Y be <op> X".
func (g *grammar) let() pc.Parser[ast.Stmt] {
	type value struct {
		op    ast.Operator
		value ast.Expr
	}
	compound := pc.Batch(pc.Seq2(func(op ast.Operator, x ast.Expr) value {
		return value{op: op, value: x}
	}, arithmeticOperator(), g.expr))
	simple := pc.Convert(g.expr, func(x ast.Expr) value { return value{value: x} })
	return pc.Seq6(func(at token.Position, _ string, y ast.Assignable, _ string, v value, _ string) ast.Stmt {
		if v.op != 0 {
			return &ast.CompoundAssign{StmtPos: at, Target: y, Op: v.op, Value: v.value}
		}
		return &ast.Assign{StmtPos: at, Target: y, Value: v.value}
	}, pc.At(), keyword("let"), g.target, keyword("be"), pc.AnyOf(compound, simple), statementEnd())
}

// declaration matches "Y is <literal>" or a poetic number "Y is <words>".
func (g *grammar) declaration() pc.Parser[ast.Stmt] {
	head := pc.Batch(pc.Seq3(func(at token.Position, v *ast.Variable, _ string) *ast.Declare {
		return &ast.Declare{StmtPos: at, Target: v}
	}, pc.At(), variable(), oneOf("is", "are", "was", "were")))
	type decoded struct {
		value  ast.Expr
		poetic bool
	}
	value := expect(pc.AnyOf(
		pc.Batch(pc.Convert(pc.Left(literal(), statementEnd()), func(x ast.Expr) decoded {
			return decoded{value: x}
		})),
		pc.Convert(pc.Left(poeticNumber(), statementEnd()), func(x ast.Expr) decoded {
			return decoded{value: x, poetic: true}
		}),
	), msgPoeticNumber)
	return stmt(pc.Seq2(func(d *ast.Declare, v decoded) *ast.Declare {
		d.Value, d.Poetic = v.value, v.poetic
		return d
	}, head, value))
}

// poeticString matches "Y says <text>".
func (g *grammar) poeticString() pc.Parser[ast.Stmt] {
	head := pc.Batch(pc.Seq3(func(at token.Position, v *ast.Variable, _ string) *ast.Declare {
		return &ast.Declare{StmtPos: at, Target: v, Poetic: true}
	}, pc.At(), variable(), oneOf("says", "said")))
	return stmt(pc.Seq3(func(d *ast.Declare, x ast.Expr, _ string) *ast.Declare {
		d.Value = x
		return d
	}, head, poeticString(), pc.EndOfLine()))
}

// repeated counts one or more occurrences of w, optionally comma separated.
func repeated(w string) pc.Parser[int] {
	comma := pc.Optional(word(pc.Match("comma", ",")))
	return pc.Convert(pc.SeparatedBy(keyword(w), comma), func(words []string) int {
		return len(words)
	})
}

// increment matches "Build Y up", with one "up" per unit.
func (g *grammar) increment() pc.Parser[ast.Stmt] {
	return stmt(pc.Seq5(func(at token.Position, _ string, y ast.Assignable, n int, _ string) *ast.Increment {
		return &ast.Increment{StmtPos: at, Target: y, Count: n}
	}, pc.At(), keyword("build"), g.target, repeated("up"), statementEnd()))
}

// decrement matches "Knock Y down", with one "down" per unit.
func (g *grammar) decrement() pc.Parser[ast.Stmt] {
	return stmt(pc.Seq5(func(at token.Position, _ string, y ast.Assignable, n int, _ string) *ast.Decrement {
		return &ast.Decrement{StmtPos: at, Target: y, Count: n}
	}, pc.At(), keyword("knock"), g.target, repeated("down"), statementEnd()))
}

func roundMode() pc.Parser[ast.RoundMode] {
	return pc.AnyOf(
		pc.Value[string](keyword("up"), ast.RoundUp),
		pc.Value[string](keyword("down"), ast.RoundDown),
		pc.Value[string](oneOf("round", "around"), ast.RoundNearest),
	)
}

// round matches "Turn up Y" and "Turn Y up".
func (g *grammar) round() pc.Parser[ast.Stmt] {
	build := func(at token.Position, mode ast.RoundMode, y ast.Assignable) *ast.Round {
		return &ast.Round{StmtPos: at, Target: y, Mode: mode}
	}
	modeFirst := pc.Batch(pc.Seq4(func(at token.Position, _ string, mode ast.RoundMode, y ast.Assignable) *ast.Round {
		return build(at, mode, y)
	}, pc.At(), keyword("turn"), roundMode(), g.target))
	targetFirst := pc.Seq4(func(at token.Position, _ string, y ast.Assignable, mode ast.RoundMode) *ast.Round {
		return build(at, mode, y)
	}, pc.At(), keyword("turn"), g.target, roundMode())
	return stmt(pc.Left(pc.AnyOf(modeFirst, targetFirst), statementEnd()))
}

// say matches "Say X" and its synonyms.
func (g *grammar) say() pc.Parser[ast.Stmt] {
	return stmt(pc.Seq4(func(at token.Position, _ string, x ast.Expr, _ string) *ast.Say {
		return &ast.Say{StmtPos: at, Value: x}
	}, pc.At(), oneOf("say", "shout", "whisper", "scream"), g.expr, statementEnd()))
}

// listen matches "Listen to Y" and a bare "Listen".
func (g *grammar) listen() pc.Parser[ast.Stmt] {
	into := pc.Optional(pc.Right(keyword("to"), g.target))
	return stmt(pc.Seq4(func(at token.Position, _ string, y *ast.Assignable, _ string) *ast.Listen {
		s := &ast.Listen{StmtPos: at}
		if y != nil {
			s.Target = *y
		}
		return s
	}, pc.At(), keyword("listen"), into, statementEnd()))
}

// conditional matches "If X", a block, and an optional "Else" block. The
// first block ends at a blank line, the end of input or an "Else" line.
func (g *grammar) conditional() pc.Parser[ast.Stmt] {
	elseLine := pc.Batch(pc.Left(keyword("else"), statementEnd()))
	elseBlock := pc.Seq2(func(_ string, body []ast.Stmt) []ast.Stmt {
		if body == nil {
			body = []ast.Stmt{}
		}
		return body
	}, elseLine, pc.Left(g.body(), blockEnd()))
	tail := pc.AnyOf(elseBlock, pc.Value[string, []ast.Stmt](blockEnd(), nil))
	return stmt(pc.Seq6(func(at token.Position, _ string, cond ast.Expr, _ string, then []ast.Stmt, otherwise []ast.Stmt) *ast.If {
		return &ast.If{StmtPos: at, Cond: cond, Then: then, Else: otherwise}
	}, pc.At(), keyword("if"), g.expr, statementEnd(), g.body(), tail))
}

// loop matches "While X" or "Until X" followed by a block.
func (g *grammar) loop() pc.Parser[ast.Stmt] {
	kind := pc.AnyOf(
		pc.Value[string](keyword("while"), false),
		pc.Value[string](keyword("until"), true),
	)
	return stmt(pc.Seq6(func(at token.Position, until bool, cond ast.Expr, _ string, body []ast.Stmt, _ string) *ast.Loop {
		return &ast.Loop{StmtPos: at, Cond: cond, Until: until, Body: body}
	}, pc.At(), kind, g.expr, statementEnd(), g.body(), blockEnd()))
}

// breakStmt matches "Break" and "Break it down".
func (g *grammar) breakStmt() pc.Parser[ast.Stmt] {
	return stmt(pc.Seq4(func(at token.Position, _ string, _ *string, _ string) *ast.Break {
		return &ast.Break{StmtPos: at}
	}, pc.At(), keyword("break"), pc.Optional(keyword("it down")), statementEnd()))
}

// continueStmt matches "Continue" and "Take it to the top".
func (g *grammar) continueStmt() pc.Parser[ast.Stmt] {
	return stmt(pc.Seq3(func(at token.Position, _ string, _ string) *ast.Continue {
		return &ast.Continue{StmtPos: at}
	}, pc.At(), oneOf("continue", "take it to the top"), statementEnd()))
}

// functionDecl matches a function header "Name takes a, b", its body and the
// mandatory "Give back X" line. The declaration ends at a blank line or the
// end of input.
func (g *grammar) functionDecl() pc.Parser[ast.Stmt] {
	head := pc.Batch(pc.Seq3(func(at token.Position, name *ast.Variable, _ string) *ast.FuncDecl {
		return &ast.FuncDecl{StmtPos: at, Name: name}
	}, pc.At(), variable(), keyword("takes")))
	separator := pc.AnyOf(word(pc.Match("separator", `[,&]`)), oneOf("n", "and"))
	params := pc.Left(pc.SeparatedBy(expect(variable(), msgExpectedName), separator), statementEnd())
	result := expect(pc.Seq4(func(_ string, x ast.Expr, _ *string, _ string) ast.Expr {
		return x
	}, oneOf("give back", "give", "return", "send"), g.expr, pc.Optional(keyword("back")), statementEnd()),
		msgMissingResult)
	return stmt(pc.Seq5(func(fn *ast.FuncDecl, params []*ast.Variable, body []ast.Stmt, x ast.Expr, _ string) *ast.FuncDecl {
		fn.Params, fn.Body, fn.Result = params, body, x
		return fn
	}, head, params, g.body(), result, blockEnd()))
}
