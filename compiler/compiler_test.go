package compiler

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/rockwasm/errors"
	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/deepnoodle-ai/rockwasm/parser"
	"github.com/deepnoodle-ai/rockwasm/wasm"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, source string, options ...Option) *wasm.Module {
	t.Helper()
	program, err := parser.Parse(context.Background(), source, parser.WithFilename("song.rock"))
	require.NoError(t, err)
	m, err := Compile(program, options...)
	require.NoError(t, err)
	return m
}

func compileError(t *testing.T, source string) *errors.CompileError {
	t.Helper()
	program, err := parser.Parse(context.Background(), source, parser.WithFilename("song.rock"))
	require.NoError(t, err)
	_, err = Compile(program)
	require.Error(t, err)
	ce, ok := errors.AsCompileError(err)
	require.True(t, ok, "got %T", err)
	require.Equal(t, errors.KindCompile, ce.Kind)
	return ce
}

func i32(v float64) *wasm.Const { return &wasm.Const{Type: op.I32, Value: v} }

func TestEntryFunctionSynthesis(t *testing.T) {
	m := compile(t, "Put 5 into X\nSay X")
	require.Len(t, m.Functions, 1)
	main := m.Functions[0]
	require.Equal(t, EntryName, main.ID)
	require.Empty(t, main.Params)
	require.Equal(t, []op.ValueType{op.I32}, main.Results)
	require.Equal(t, []wasm.Local{{ID: "x", Type: op.I32}}, main.Locals)
	require.Equal(t, []wasm.Instr{
		i32(5),
		&wasm.LocalSet{ID: "x"},
		&wasm.LocalGet{ID: "x"},
		&wasm.Call{ID: PrintImport},
		i32(0),
	}, main.Body)

	require.Equal(t, []*wasm.Export{
		{Name: "main", Kind: op.ExternalFunc, ID: "main"},
		{Name: "memory", Kind: op.ExternalMemory, ID: "memory"},
	}, m.Exports)
	require.Equal(t, []*wasm.Memory{{ID: "memory", Min: 1}}, m.Memories)
	require.Equal(t, []*wasm.Import{
		{Module: "env", Name: "print", ID: "print", Params: []op.ValueType{op.I32}},
	}, m.Imports)
}

func TestEntryIsFirstAndKeepsStatementOrder(t *testing.T) {
	source := `Say 1

Echo takes x
Give back x

Say 2`
	m := compile(t, source)
	require.Len(t, m.Functions, 2)
	require.Equal(t, "main", m.Functions[0].ID)
	require.Equal(t, "echo", m.Functions[1].ID)
	require.Equal(t, []wasm.Instr{
		i32(1), &wasm.Call{ID: "print"},
		i32(2), &wasm.Call{ID: "print"},
		i32(0),
	}, m.Functions[0].Body)
}

func TestEmptyProgram(t *testing.T) {
	m, err := Compile(nil)
	require.NoError(t, err)
	require.Len(t, m.Functions, 1)
	require.Equal(t, []wasm.Instr{i32(0)}, m.Functions[0].Body)
	require.Empty(t, m.Imports)
	require.Empty(t, m.Data)
}

func TestUserMainConflict(t *testing.T) {
	ce := compileError(t, "Say 1\n\nMain takes x\nGive back x")
	require.Equal(t, errors.E2001, ce.Code)
	require.Equal(t, 3, ce.Line)
}

func TestUserMainWithoutLooseStatements(t *testing.T) {
	m := compile(t, "(the entry point)\nMain takes x\nGive back x")
	require.Len(t, m.Functions, 1)
	require.Equal(t, "main", m.Functions[0].ID)
	require.Len(t, m.Functions[0].Params, 1)
	require.Equal(t, "main", m.Export("main").ID)
}

func TestOneImportPerUndeclaredName(t *testing.T) {
	source := `Say Midnight taking 1
Say Midnight taking 2
Put Midnight taking 3 into X`
	m := compile(t, source)
	require.Len(t, m.Imports, 2)
	require.Equal(t, &wasm.Import{
		Module:  "env",
		Name:    "midnight",
		ID:      "midnight",
		Params:  []op.ValueType{op.I32},
		Results: []op.ValueType{op.I32},
	}, m.Imports[0])
	require.Equal(t, "print", m.Imports[1].ID)

	calls := 0
	wasm.Walk(m.Functions[0].Body, func(i wasm.Instr) bool {
		if c, ok := i.(*wasm.Call); ok && c.ID == "midnight" {
			calls++
		}
		return true
	})
	require.Equal(t, 3, calls)
}

func TestHostModuleOption(t *testing.T) {
	m := compile(t, "Say Midnight taking 1", WithHostModule("rockstar"))
	for _, imp := range m.Imports {
		require.Equal(t, "rockstar", imp.Module)
	}
}

func TestForwardReference(t *testing.T) {
	m := compile(t, "Say Echo taking 1\n\nEcho takes x\nGive back x")
	require.Len(t, m.Imports, 1)
	require.Equal(t, "print", m.Imports[0].ID)
	require.Equal(t, &wasm.Call{ID: "echo"}, m.Functions[0].Body[1])
}

func TestFunctionLowering(t *testing.T) {
	source := `Midnight takes your heart and your soul
Put your heart plus your soul into the night
Give back the night

Say Midnight taking 1, 2`
	m := compile(t, source)
	fn := m.Function("midnight")
	require.NotNil(t, fn)
	require.Equal(t, []wasm.Param{
		{ID: "your_heart", Type: op.I32},
		{ID: "your_soul", Type: op.I32},
	}, fn.Params)
	require.Equal(t, []op.ValueType{op.I32}, fn.Results)
	require.Equal(t, []wasm.Local{{ID: "the_night", Type: op.I32}}, fn.Locals)
	require.Equal(t, []wasm.Instr{
		&wasm.LocalGet{ID: "your_heart"},
		&wasm.LocalGet{ID: "your_soul"},
		&wasm.Binary{Op: op.I32Add},
		&wasm.LocalSet{ID: "the_night"},
		&wasm.LocalGet{ID: "the_night"},
	}, fn.Body)
	require.Nil(t, m.Import("midnight"))
}

func TestFunctionsHaveTheirOwnScope(t *testing.T) {
	source := `Put 1 into X

Echo takes y
Give back x`
	m := compile(t, source)
	require.Equal(t, []wasm.Local{{ID: "x", Type: op.I32}}, m.Function("echo").Locals)
}

func TestPronounResolution(t *testing.T) {
	m := compile(t, "Put 1 into X\nPut 2 into Y\nSay it")
	require.Equal(t, &wasm.LocalGet{ID: "y"}, m.Functions[0].Body[4])

	m = compile(t, "Echo takes x, y\nGive back it")
	require.Equal(t, []wasm.Instr{&wasm.LocalGet{ID: "y"}}, m.Function("echo").Body)

	m = compile(t, "Put 3 into my heart\nLet it be with 2")
	require.Equal(t, []wasm.Instr{
		i32(3),
		&wasm.LocalSet{ID: "my_heart"},
		&wasm.LocalGet{ID: "my_heart"},
		i32(2),
		&wasm.Binary{Op: op.I32Add},
		&wasm.LocalSet{ID: "my_heart"},
		i32(0),
	}, m.Functions[0].Body)
}

func TestUnresolvedPronoun(t *testing.T) {
	ce := compileError(t, "Say 1\nSay it")
	require.Equal(t, errors.E2002, ce.Code)
	require.Equal(t, 2, ce.Line)
	require.Equal(t, 5, ce.Column)
	require.Equal(t, "song.rock", ce.Filename)
}

func TestBreakAndContinueOutsideLoop(t *testing.T) {
	require.Equal(t, errors.E2003, compileError(t, "Break").Code)
	require.Equal(t, errors.E2004, compileError(t, "Take it to the top").Code)
	require.Equal(t, errors.E2003, compileError(t, "Echo takes x\nBreak it down\nGive back x").Code)
}

func TestArityErrors(t *testing.T) {
	ce := compileError(t, "Echo takes x\nGive back x\n\nSay Echo taking 1, 2")
	require.Equal(t, errors.E2005, ce.Code)
	require.Contains(t, ce.Message, "takes 1 argument(s) but is called with 2")

	ce = compileError(t, "Say Midnight taking 1\nSay Midnight taking 1, 2")
	require.Equal(t, errors.E2005, ce.Code)
	require.Equal(t, 2, ce.Line)
}

func TestDeclarationErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   errors.ErrorCode
	}{
		{"duplicate function", "Echo takes x\nGive back x\n\nEcho takes y\nGive back y", errors.E2007},
		{"duplicate parameter", "Echo takes x, x\nGive back x", errors.E2006},
		{"reserved declaration", "Print takes x\nGive back x", errors.E2001},
		{"reserved call", "Say Read taking 1", errors.E2001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, compileError(t, tt.source).Code)
		})
	}
}

func TestWhileLoop(t *testing.T) {
	m := compile(t, "While X is lower than 3\nBuild X up\n\nSay X")
	require.Equal(t, []wasm.Instr{
		&wasm.Block{Label: "break_0", Body: []wasm.Instr{
			&wasm.Loop{Label: "continue_0", Body: []wasm.Instr{
				&wasm.LocalGet{ID: "x"},
				i32(3),
				&wasm.Binary{Op: op.I32LtS},
				&wasm.Unary{Op: op.I32Eqz},
				&wasm.BrIf{Label: "break_0"},
				&wasm.LocalGet{ID: "x"},
				i32(1),
				&wasm.Binary{Op: op.I32Add},
				&wasm.LocalSet{ID: "x"},
				&wasm.Br{Label: "continue_0"},
			}},
		}},
		&wasm.LocalGet{ID: "x"},
		&wasm.Call{ID: "print"},
		i32(0),
	}, m.Functions[0].Body)
}

func TestUntilLoopAndNestedBranches(t *testing.T) {
	m := compile(t, "While right\nUntil wrong\nBreak\n\nContinue")
	outer := m.Functions[0].Body[0].(*wasm.Block)
	require.Equal(t, "break_0", outer.Label)
	loop := outer.Body[0].(*wasm.Loop)
	require.Equal(t, []wasm.Instr{
		i32(1),
		&wasm.Unary{Op: op.I32Eqz},
		&wasm.BrIf{Label: "break_0"},
		&wasm.Block{Label: "break_1", Body: []wasm.Instr{
			&wasm.Loop{Label: "continue_1", Body: []wasm.Instr{
				i32(0),
				&wasm.BrIf{Label: "break_1"},
				&wasm.Br{Label: "break_1"},
				&wasm.Br{Label: "continue_1"},
			}},
		}},
		&wasm.Br{Label: "continue_0"},
		&wasm.Br{Label: "continue_0"},
	}, loop.Body)
}

func TestConditional(t *testing.T) {
	m := compile(t, "If X is 1\nSay 1\nElse\nSay 2\n\nIf X\nSay X")
	body := m.Functions[0].Body
	require.Equal(t, &wasm.If{
		Then: []wasm.Instr{i32(1), &wasm.Call{ID: "print"}},
		Else: []wasm.Instr{i32(2), &wasm.Call{ID: "print"}},
	}, body[3])
	require.Equal(t, []wasm.Instr{
		&wasm.LocalGet{ID: "x"},
		&wasm.Unary{Op: op.I32Eqz},
		&wasm.Unary{Op: op.I32Eqz},
	}, body[4:7])
	require.Nil(t, body[7].(*wasm.If).Else)
}

func TestLogicalOperators(t *testing.T) {
	m := compile(t, "Say x and not y")
	truthy := func(id string) []wasm.Instr {
		return []wasm.Instr{
			&wasm.LocalGet{ID: id},
			&wasm.Unary{Op: op.I32Eqz},
			&wasm.Unary{Op: op.I32Eqz},
		}
	}
	var want []wasm.Instr
	want = append(want, truthy("x")...)
	want = append(want, truthy("y")...)
	want = append(want,
		&wasm.Unary{Op: op.I32Eqz},
		&wasm.Binary{Op: op.I32And},
		&wasm.Call{ID: "print"},
		i32(0),
	)
	require.Equal(t, want, m.Functions[0].Body)

	m = compile(t, "Say x nor y")
	require.Equal(t, []wasm.Instr{
		&wasm.Binary{Op: op.I32Or},
		&wasm.Unary{Op: op.I32Eqz},
	}, m.Functions[0].Body[6:8])
}

func TestStringsBecomeDataSegments(t *testing.T) {
	m := compile(t, "Say \"hello\"\nSay \"hello\"\nPut \"bye\" into X\nSay X\nBuild X up\nSay X")
	require.Equal(t, []*wasm.Data{
		{Offset: 0, Bytes: []byte("hello\x00")},
		{Offset: 6, Bytes: []byte("bye\x00")},
	}, m.Data)
	require.Equal(t, []string{"print_string", "print"}, []string{m.Imports[0].ID, m.Imports[1].ID})

	body := m.Functions[0].Body
	require.Equal(t, i32(0), body[0])
	require.Equal(t, i32(0), body[2])
	require.Equal(t, i32(6), body[4])
	require.Equal(t, &wasm.Call{ID: "print_string"}, body[7])
	require.Equal(t, &wasm.Call{ID: "print"}, body[13])
}

func TestListen(t *testing.T) {
	m := compile(t, "Listen to your heart\nListen")
	require.Equal(t, []wasm.Instr{
		&wasm.Call{ID: "read"},
		&wasm.LocalSet{ID: "your_heart"},
		&wasm.Call{ID: "read"},
		&wasm.Drop{},
		i32(0),
	}, m.Functions[0].Body)
	require.Equal(t, &wasm.Import{
		Module:  "env",
		Name:    "read",
		ID:      "read",
		Results: []op.ValueType{op.I32},
	}, m.Imports[0])
}

func TestRounding(t *testing.T) {
	m := compile(t, "X is 2\nTurn X up")
	require.Equal(t, &wasm.Comment{Text: "turn up x"}, m.Functions[0].Body[2])

	m = compile(t, "X is 2.5\nTurn X up\nTurn round X\nSay X is greater than 1", WithValueType(op.F32))
	f32 := func(v float64) *wasm.Const { return &wasm.Const{Type: op.F32, Value: v} }
	require.Equal(t, []wasm.Instr{
		f32(2.5),
		&wasm.LocalSet{ID: "x"},
		&wasm.LocalGet{ID: "x"},
		&wasm.Unary{Op: op.F32Ceil},
		&wasm.LocalSet{ID: "x"},
		&wasm.LocalGet{ID: "x"},
		&wasm.Unary{Op: op.F32Nearest},
		&wasm.LocalSet{ID: "x"},
		&wasm.LocalGet{ID: "x"},
		f32(1),
		&wasm.Binary{Op: op.F32Gt},
		&wasm.Unary{Op: op.F32ConvertI32S},
		&wasm.Call{ID: "print"},
		i32(0),
	}, m.Functions[0].Body)
	require.Equal(t, []op.ValueType{op.F32}, m.Imports[0].Params)
	require.Equal(t, []wasm.Local{{ID: "x", Type: op.F32}}, m.Functions[0].Locals)
}

func TestLiteralConstants(t *testing.T) {
	m := compile(t, "Put right into X\nPut nothing into Y\nPut mysterious into Z\nPut 7.9 into W")
	body := m.Functions[0].Body
	require.Equal(t, i32(1), body[0])
	require.Equal(t, i32(0), body[2])
	require.Equal(t, i32(0), body[4])
	require.Equal(t, int32(7), body[6].(*wasm.Const).Int32())
}

func TestIntegerConstantRange(t *testing.T) {
	ce := compileError(t, "Put 5000000000 into X")
	require.Equal(t, errors.E2009, ce.Code)
	require.Equal(t, 1, ce.Line)
	require.Equal(t, 5, ce.Column)
	require.Contains(t, ce.Message, "5000000000")

	// Eleven words give eleven digits
	ce = compileError(t, "Say 1\nTommy was a lean mean wrecking machine baby yeah yeah yeah yeah yeah")
	require.Equal(t, errors.E2009, ce.Code)
	require.Equal(t, 2, ce.Line)
	require.Contains(t, ce.Message, "14487444444")

	m := compile(t, "Put 2147483647 into X\nPut 2147483647.9 into Y")
	require.Equal(t, int32(2147483647), m.Functions[0].Body[0].(*wasm.Const).Int32())
	require.Equal(t, int32(2147483647), m.Functions[0].Body[2].(*wasm.Const).Int32())

	m = compile(t, "Put 5000000000 into X", WithValueType(op.F32))
	require.Equal(t, &wasm.Const{Type: op.F32, Value: 5e9}, m.Functions[0].Body[0])
}

func TestInvalidOptions(t *testing.T) {
	_, err := New(WithValueType(op.I64))
	require.Error(t, err)
	_, err = New(WithHostModule(""))
	require.Error(t, err)

	c, err := New(WithValueType(op.F32))
	require.NoError(t, err)
	require.Equal(t, op.F32, c.ValueType())
}

func TestCompilerReuse(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	first, err := parser.Parse(context.Background(), `Say "a"`)
	require.NoError(t, err)
	second, err := parser.Parse(context.Background(), `Say "b"`)
	require.NoError(t, err)

	m1, err := c.Compile(first)
	require.NoError(t, err)
	m2, err := c.Compile(second)
	require.NoError(t, err)
	require.Equal(t, []byte("a\x00"), m1.Data[0].Bytes)
	require.Equal(t, []byte("b\x00"), m2.Data[0].Bytes)
	require.Equal(t, uint32(0), m2.Data[0].Offset)
}
