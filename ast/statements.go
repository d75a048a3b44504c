package ast

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// Comment is a parenthesized comment occupying a whole line.
type Comment struct {
	StmtPos token.Position
	Text    string
}

func (s *Comment) stmtNode() {}

func (s *Comment) Pos() token.Position { return s.StmtPos }

func (s *Comment) String() string { return "(" + s.Text + ")" }

// Assign is a statement that stores a value in a variable, written
// "Put X into Y" or "Let Y be X".
type Assign struct {
	StmtPos token.Position
	Target  Assignable
	Value   Expr
}

func (s *Assign) stmtNode() {}

func (s *Assign) Pos() token.Position { return s.StmtPos }

func (s *Assign) String() string {
	return fmt.Sprintf("Put %s into %s", s.Value, s.Target)
}

// CompoundAssign is "Let Y be <op> X", which stores "Y <op> X" in Y.
type CompoundAssign struct {
	StmtPos token.Position
	Target  Assignable
	Op      Operator
	Value   Expr
}

func (s *CompoundAssign) stmtNode() {}

func (s *CompoundAssign) Pos() token.Position { return s.StmtPos }

func (s *CompoundAssign) String() string {
	return fmt.Sprintf("Let %s be %s %s", s.Target, OperatorWord(s.Op), s.Value)
}

// Declare initializes a variable from a literal, written "Y is 5". Poetic
// declarations ("Y is a lean mean machine", "Y says hello") decode their
// value from the words of the sentence.
type Declare struct {
	StmtPos token.Position
	Target  Assignable
	Value   Expr
	Poetic  bool
}

func (s *Declare) stmtNode() {}

func (s *Declare) Pos() token.Position { return s.StmtPos }

func (s *Declare) String() string {
	return fmt.Sprintf("%s is %s", s.Target, s.Value)
}

// FuncDecl declares a function: a header "Name takes a, b", a body and a
// mandatory result expression.
type FuncDecl struct {
	StmtPos token.Position
	Name    *Variable
	Params  []*Variable
	Body    []Stmt
	Result  Expr
}

func (s *FuncDecl) stmtNode() {}

func (s *FuncDecl) Pos() token.Position { return s.StmtPos }

func (s *FuncDecl) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	var out strings.Builder
	out.WriteString(s.Name.String())
	out.WriteString(" takes ")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString("\n")
	out.WriteString(joinStmts(s.Body, "  "))
	out.WriteString("  Give back ")
	out.WriteString(s.Result.String())
	return out.String()
}

// Say writes a value to the output.
type Say struct {
	StmtPos token.Position
	Value   Expr
}

func (s *Say) stmtNode() {}

func (s *Say) Pos() token.Position { return s.StmtPos }

func (s *Say) String() string { return "Say " + s.Value.String() }

// Listen reads a value from the input. Target is nil for a bare "Listen",
// which discards the value.
type Listen struct {
	StmtPos token.Position
	Target  Assignable
}

func (s *Listen) stmtNode() {}

func (s *Listen) Pos() token.Position { return s.StmtPos }

func (s *Listen) String() string {
	if s.Target == nil {
		return "Listen"
	}
	return "Listen to " + s.Target.String()
}

// Increment adds Count to a variable, written "Build Y up, up".
type Increment struct {
	StmtPos token.Position
	Target  Assignable
	Count   int
}

func (s *Increment) stmtNode() {}

func (s *Increment) Pos() token.Position { return s.StmtPos }

func (s *Increment) String() string {
	return "Build " + s.Target.String() + " " + repeatWord("up", s.Count)
}

// Decrement subtracts Count from a variable, written "Knock Y down".
type Decrement struct {
	StmtPos token.Position
	Target  Assignable
	Count   int
}

func (s *Decrement) stmtNode() {}

func (s *Decrement) Pos() token.Position { return s.StmtPos }

func (s *Decrement) String() string {
	return "Knock " + s.Target.String() + " " + repeatWord("down", s.Count)
}

func repeatWord(w string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = w
	}
	return strings.Join(words, ", ")
}

// RoundMode selects how a Round statement rounds.
type RoundMode int

const (
	RoundUp RoundMode = iota
	RoundDown
	RoundNearest
)

func (m RoundMode) String() string {
	switch m {
	case RoundUp:
		return "up"
	case RoundDown:
		return "down"
	default:
		return "round"
	}
}

// Round rounds a variable in place, written "Turn up Y".
type Round struct {
	StmtPos token.Position
	Target  Assignable
	Mode    RoundMode
}

func (s *Round) stmtNode() {}

func (s *Round) Pos() token.Position { return s.StmtPos }

func (s *Round) String() string {
	return "Turn " + s.Mode.String() + " " + s.Target.String()
}

// If is a conditional statement with an optional else branch.
type If struct {
	StmtPos token.Position
	Cond    Expr
	Then    []Stmt
	Else    []Stmt // nil when there is no else branch
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.StmtPos }

func (s *If) String() string {
	var out strings.Builder
	out.WriteString("If ")
	out.WriteString(s.Cond.String())
	out.WriteString("\n")
	out.WriteString(joinStmts(s.Then, "  "))
	if s.Else != nil {
		out.WriteString("Else\n")
		out.WriteString(joinStmts(s.Else, "  "))
	}
	return strings.TrimSuffix(out.String(), "\n")
}

// Loop repeats its body while the condition holds, or until it holds when
// Until is set.
type Loop struct {
	StmtPos token.Position
	Cond    Expr
	Until   bool
	Body    []Stmt
}

func (s *Loop) stmtNode() {}

func (s *Loop) Pos() token.Position { return s.StmtPos }

func (s *Loop) String() string {
	keyword := "While "
	if s.Until {
		keyword = "Until "
	}
	return strings.TrimSuffix(keyword+s.Cond.String()+"\n"+joinStmts(s.Body, "  "), "\n")
}

// Break exits the innermost loop.
type Break struct {
	StmtPos token.Position
}

func (s *Break) stmtNode() {}

func (s *Break) Pos() token.Position { return s.StmtPos }

func (s *Break) String() string { return "Break" }

// Continue starts the next iteration of the innermost loop.
type Continue struct {
	StmtPos token.Position
}

func (s *Continue) stmtNode() {}

func (s *Continue) Pos() token.Position { return s.StmtPos }

func (s *Continue) String() string { return "Continue" }
