package compiler

import (
	"fmt"
	"math"

	"github.com/deepnoodle-ai/rockwasm/ast"
	"github.com/deepnoodle-ai/rockwasm/errors"
	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/deepnoodle-ai/rockwasm/wasm"
)

var i32Ops = map[ast.Operator]op.Code{
	ast.Add:          op.I32Add,
	ast.Subtract:     op.I32Sub,
	ast.Multiply:     op.I32Mul,
	ast.Divide:       op.I32DivS,
	ast.Equal:        op.I32Eq,
	ast.NotEqual:     op.I32Ne,
	ast.Greater:      op.I32GtS,
	ast.Less:         op.I32LtS,
	ast.GreaterEqual: op.I32GeS,
	ast.LessEqual:    op.I32LeS,
}

var f32Ops = map[ast.Operator]op.Code{
	ast.Add:          op.F32Add,
	ast.Subtract:     op.F32Sub,
	ast.Multiply:     op.F32Mul,
	ast.Divide:       op.F32Div,
	ast.Equal:        op.F32Eq,
	ast.NotEqual:     op.F32Ne,
	ast.Greater:      op.F32Gt,
	ast.Less:         op.F32Lt,
	ast.GreaterEqual: op.F32Ge,
	ast.LessEqual:    op.F32Le,
}

var roundOps = map[ast.RoundMode]op.Code{
	ast.RoundUp:      op.F32Ceil,
	ast.RoundDown:    op.F32Floor,
	ast.RoundNearest: op.F32Nearest,
}

// loopLabels name the branch targets of the innermost loop: exit leaves
// the loop and next starts the following iteration.
type loopLabels struct {
	exit string
	next string
}

// function holds the state of one function body while it is lowered.
type function struct {
	c       *Compiler
	symbols *SymbolTable
	body    []wasm.Instr
	loops   []loopLabels
	labels  int
}

func (c *Compiler) newFunction(id string) *function {
	return &function{c: c, symbols: NewSymbolTable(id)}
}

func (f *function) emit(instrs ...wasm.Instr) {
	f.body = append(f.body, instrs...)
}

func (f *function) build(params []wasm.Param, results []op.ValueType) *wasm.Function {
	fn := &wasm.Function{
		ID:      f.symbols.ID(),
		Params:  params,
		Results: results,
		Body:    f.body,
	}
	for _, s := range f.symbols.Locals() {
		fn.Locals = append(fn.Locals, wasm.Local{ID: s.ID(), Type: f.c.valueType})
	}
	return fn
}

func (f *function) constant(v float64) *wasm.Const {
	return &wasm.Const{Type: f.c.valueType, Value: v}
}

func fitsInt32(v float64) bool {
	v = math.Trunc(v)
	return v >= math.MinInt32 && v <= math.MaxInt32
}

func (f *function) opcode(o ast.Operator) op.Code {
	if f.c.valueType == op.F32 {
		return f32Ops[o]
	}
	return i32Ops[o]
}

// nested lowers stmts into a separate instruction sequence, for the body of
// a structured instruction.
func (f *function) nested(stmts []ast.Stmt) ([]wasm.Instr, error) {
	saved := f.body
	f.body = []wasm.Instr{}
	err := f.statements(stmts)
	body := f.body
	f.body = saved
	return body, err
}

func (f *function) statements(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := f.statement(s); err != nil {
			return err
		}
	}
	return nil
}

func (f *function) statement(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Comment:
		f.emit(&wasm.Comment{Text: s.Text})
		return nil
	case *ast.Assign:
		return f.assign(s.Target, s.Value)
	case *ast.Declare:
		return f.assign(s.Target, s.Value)
	case *ast.CompoundAssign:
		return f.compoundAssign(s)
	case *ast.Increment:
		return f.step(s.Target, s.Count, ast.Add)
	case *ast.Decrement:
		return f.step(s.Target, s.Count, ast.Subtract)
	case *ast.Round:
		return f.round(s)
	case *ast.Say:
		return f.say(s)
	case *ast.Listen:
		return f.listen(s)
	case *ast.If:
		return f.conditional(s)
	case *ast.Loop:
		return f.loop(s)
	case *ast.Break:
		if len(f.loops) == 0 {
			return errors.CompileErrorf(errors.E2003, s.Pos(), "break outside of a loop")
		}
		f.emit(&wasm.Br{Label: f.loops[len(f.loops)-1].exit})
		return nil
	case *ast.Continue:
		if len(f.loops) == 0 {
			return errors.CompileErrorf(errors.E2004, s.Pos(), "continue outside of a loop")
		}
		f.emit(&wasm.Br{Label: f.loops[len(f.loops)-1].next})
		return nil
	default:
		return fmt.Errorf("compile error: unsupported statement %T", s)
	}
}

// target resolves an assignment target to its symbol.
func (f *function) target(x ast.Assignable) (*Symbol, error) {
	switch x := x.(type) {
	case *ast.Variable:
		return f.symbols.Claim(x.Name), nil
	case *ast.Pronoun:
		return f.pronoun(x)
	default:
		return nil, fmt.Errorf("compile error: unsupported assignment target %T", x)
	}
}

func (f *function) pronoun(x *ast.Pronoun) (*Symbol, error) {
	s, ok := f.symbols.Last()
	if !ok {
		return nil, errors.CompileErrorf(errors.E2002, x.Pos(),
			"pronoun %q does not refer to a variable: nothing has been assigned yet", x.Word)
	}
	return s, nil
}

func (f *function) store(s *Symbol, isString bool) {
	f.emit(&wasm.LocalSet{ID: s.ID()})
	s.isString = isString
	f.symbols.Assigned(s)
}

func (f *function) assign(target ast.Assignable, value ast.Expr) error {
	isString := f.isString(value)
	if err := f.value(value); err != nil {
		return err
	}
	s, err := f.target(target)
	if err != nil {
		return err
	}
	f.store(s, isString)
	return nil
}

func (f *function) compoundAssign(stmt *ast.CompoundAssign) error {
	s, err := f.target(stmt.Target)
	if err != nil {
		return err
	}
	f.emit(&wasm.LocalGet{ID: s.ID()})
	if err := f.value(stmt.Value); err != nil {
		return err
	}
	f.emit(&wasm.Binary{Op: f.opcode(stmt.Op)})
	f.store(s, false)
	return nil
}

func (f *function) step(target ast.Assignable, count int, o ast.Operator) error {
	s, err := f.target(target)
	if err != nil {
		return err
	}
	f.emit(
		&wasm.LocalGet{ID: s.ID()},
		f.constant(float64(count)),
		&wasm.Binary{Op: f.opcode(o)},
	)
	f.store(s, false)
	return nil
}

// round rounds in place. Integers are already whole, so for i32 only a
// comment is left behind.
func (f *function) round(stmt *ast.Round) error {
	s, err := f.target(stmt.Target)
	if err != nil {
		return err
	}
	if f.c.valueType != op.F32 {
		f.emit(&wasm.Comment{Text: fmt.Sprintf("turn %s %s", stmt.Mode, s.Name())})
		f.symbols.Assigned(s)
		return nil
	}
	f.emit(
		&wasm.LocalGet{ID: s.ID()},
		&wasm.Unary{Op: roundOps[stmt.Mode]},
	)
	f.store(s, false)
	return nil
}

func (f *function) say(stmt *ast.Say) error {
	printer := PrintImport
	if f.isString(stmt.Value) {
		printer = PrintStringImport
	}
	if err := f.value(stmt.Value); err != nil {
		return err
	}
	if err := f.c.importFunction(stmt, printer, printer, 1, 0); err != nil {
		return err
	}
	f.emit(&wasm.Call{ID: printer})
	return nil
}

func (f *function) listen(stmt *ast.Listen) error {
	if err := f.c.importFunction(stmt, ReadImport, ReadImport, 0, 1); err != nil {
		return err
	}
	f.emit(&wasm.Call{ID: ReadImport})
	if stmt.Target == nil {
		f.emit(&wasm.Drop{})
		return nil
	}
	s, err := f.target(stmt.Target)
	if err != nil {
		return err
	}
	f.store(s, false)
	return nil
}

func (f *function) conditional(stmt *ast.If) error {
	if err := f.condition(stmt.Cond); err != nil {
		return err
	}
	then, err := f.nested(stmt.Then)
	if err != nil {
		return err
	}
	instr := &wasm.If{Then: then}
	if stmt.Else != nil {
		if instr.Else, err = f.nested(stmt.Else); err != nil {
			return err
		}
	}
	f.emit(instr)
	return nil
}

// loop lowers a While or Until loop to
//
//	block $break_N
//	  loop $continue_N
//	    <exit test> br_if $break_N
//	    <body>
//	    br $continue_N
//	  end
//	end
func (f *function) loop(stmt *ast.Loop) error {
	n := f.labels
	f.labels++
	labels := loopLabels{
		exit: fmt.Sprintf("break_%d", n),
		next: fmt.Sprintf("continue_%d", n),
	}

	saved := f.body
	f.body = []wasm.Instr{}
	if err := f.condition(stmt.Cond); err != nil {
		return err
	}
	if !stmt.Until {
		f.emit(&wasm.Unary{Op: op.I32Eqz})
	}
	f.emit(&wasm.BrIf{Label: labels.exit})

	f.loops = append(f.loops, labels)
	err := f.statements(stmt.Body)
	f.loops = f.loops[:len(f.loops)-1]
	if err != nil {
		return err
	}
	f.emit(&wasm.Br{Label: labels.next})

	body := f.body
	f.body = saved
	f.emit(&wasm.Block{
		Label: labels.exit,
		Body:  []wasm.Instr{&wasm.Loop{Label: labels.next, Body: body}},
	})
	return nil
}

// isString reports whether x is known to hold a string offset.
func (f *function) isString(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.String:
		return true
	case *ast.Variable:
		s, ok := f.symbols.Get(x.Name)
		return ok && s.isString
	case *ast.Pronoun:
		s, ok := f.symbols.Last()
		return ok && s.isString
	}
	return false
}

// value pushes x as a single value of the module's value type.
func (f *function) value(x ast.Expr) error {
	switch x := x.(type) {
	case *ast.Number:
		if f.c.valueType == op.I32 && !fitsInt32(x.Value) {
			return errors.CompileErrorf(errors.E2009, x.Pos(),
				"number %s does not fit in i32", x.Literal)
		}
		f.emit(f.constant(x.Value))
	case *ast.String:
		f.emit(f.constant(float64(f.c.intern(x.Value))))
	case *ast.Boolean:
		f.emit(f.constant(boolValue(x.Value)))
	case *ast.Null, *ast.Mysterious:
		f.emit(f.constant(0))
	case *ast.Variable:
		f.emit(&wasm.LocalGet{ID: f.symbols.Claim(x.Name).ID()})
	case *ast.Pronoun:
		s, err := f.pronoun(x)
		if err != nil {
			return err
		}
		f.emit(&wasm.LocalGet{ID: s.ID()})
	case *ast.Call:
		return f.call(x)
	case *ast.Unary:
		return f.boolean(x)
	case *ast.Binary:
		if !x.Op.IsArithmetic() {
			return f.boolean(x)
		}
		if err := f.value(x.X); err != nil {
			return err
		}
		if err := f.value(x.Y); err != nil {
			return err
		}
		f.emit(&wasm.Binary{Op: f.opcode(x.Op)})
	default:
		return fmt.Errorf("compile error: unsupported expression %T", x)
	}
	return nil
}

func (f *function) call(x *ast.Call) error {
	for _, arg := range x.Args {
		if err := f.value(arg); err != nil {
			return err
		}
	}
	id, err := f.c.callTarget(x)
	if err != nil {
		return err
	}
	f.emit(&wasm.Call{ID: id})
	return nil
}

// boolean pushes a comparison or logical expression as a value.
func (f *function) boolean(x ast.Expr) error {
	if err := f.condition(x); err != nil {
		return err
	}
	if f.c.valueType == op.F32 {
		f.emit(&wasm.Unary{Op: op.F32ConvertI32S})
	}
	return nil
}

// condition pushes x as an i32 that is 1 when x is truthy and 0 otherwise.
func (f *function) condition(x ast.Expr) error {
	switch x := x.(type) {
	case *ast.Boolean:
		f.emit(&wasm.Const{Type: op.I32, Value: boolValue(x.Value)})
		return nil
	case *ast.Unary:
		if err := f.condition(x.X); err != nil {
			return err
		}
		f.emit(&wasm.Unary{Op: op.I32Eqz})
		return nil
	case *ast.Binary:
		switch {
		case x.Op.IsComparison():
			if err := f.value(x.X); err != nil {
				return err
			}
			if err := f.value(x.Y); err != nil {
				return err
			}
			f.emit(&wasm.Binary{Op: f.opcode(x.Op)})
			return nil
		case x.Op.IsLogical():
			if err := f.condition(x.X); err != nil {
				return err
			}
			if err := f.condition(x.Y); err != nil {
				return err
			}
			switch x.Op {
			case ast.And:
				f.emit(&wasm.Binary{Op: op.I32And})
			case ast.Or:
				f.emit(&wasm.Binary{Op: op.I32Or})
			case ast.Nor:
				f.emit(&wasm.Binary{Op: op.I32Or}, &wasm.Unary{Op: op.I32Eqz})
			}
			return nil
		}
	}
	// Any other value is truthy when it is non-zero
	if err := f.value(x); err != nil {
		return err
	}
	if f.c.valueType == op.F32 {
		f.emit(f.constant(0), &wasm.Binary{Op: op.F32Ne})
	} else {
		f.emit(&wasm.Unary{Op: op.I32Eqz}, &wasm.Unary{Op: op.I32Eqz})
	}
	return nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
