package wat

import (
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/rockwasm/compiler"
	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/deepnoodle-ai/rockwasm/parser"
	"github.com/deepnoodle-ai/rockwasm/wasm"
	"github.com/stretchr/testify/require"
)

func testModule() *wasm.Module {
	return &wasm.Module{
		Imports: []*wasm.Import{
			{Module: "env", Name: "print", ID: "print", Params: []op.ValueType{op.I32}},
		},
		Memories: []*wasm.Memory{{ID: "memory", Min: 1}},
		Data:     []*wasm.Data{{Offset: 0, Bytes: []byte("hi\x00")}},
		Functions: []*wasm.Function{{
			ID:      "main",
			Results: []op.ValueType{op.I32},
			Locals:  []wasm.Local{{ID: "x", Type: op.I32}},
			Body: []wasm.Instr{
				&wasm.Const{Type: op.I32, Value: 5},
				&wasm.LocalSet{ID: "x"},
				&wasm.If{Then: []wasm.Instr{&wasm.LocalGet{ID: "x"}, &wasm.Call{ID: "print"}}},
				&wasm.Const{Type: op.I32, Value: 0},
			},
		}},
		Exports: []*wasm.Export{
			{Name: "main", Kind: op.ExternalFunc, ID: "main"},
			{Name: "memory", Kind: op.ExternalMemory, ID: "memory"},
		},
	}
}

func TestIndented(t *testing.T) {
	expected := strings.TrimSpace(`
(module
  (import "env" "print" (func $print (param i32)))
  (memory $memory 1)
  (data (i32.const 0) "hi\00")
  (func $main (result i32)
    (local $x i32)
    i32.const 5
    local.set $x
    (if
      (then local.get $x call $print))
    i32.const 0)
  (export "main" (func $main))
  (export "memory" (memory $memory)))`)
	require.Equal(t, expected, Text(testModule(), Indented))
}

func TestSingleLine(t *testing.T) {
	expected := `(module (import "env" "print" (func $print (param i32))) (memory $memory 1) ` +
		`(data (i32.const 0) "hi\00") (func $main (result i32) (local $x i32) i32.const 5 local.set $x ` +
		`(if (then local.get $x call $print)) i32.const 0) (export "main" (func $main)) ` +
		`(export "memory" (memory $memory)))`
	require.Equal(t, expected, Text(testModule(), SingleLine))
}

func TestOptionalMemoryMaximum(t *testing.T) {
	require.Equal(t, "(memory $memory 1)", Format(buildMemory(&wasm.Memory{ID: "memory", Min: 1}), SingleLine))
	require.Equal(t, "(memory $memory 1 4)",
		Format(buildMemory(&wasm.Memory{ID: "memory", Min: 1, Max: wasm.Pages(4)}), SingleLine))
}

func TestNilElementsAreSkipped(t *testing.T) {
	l := List{Atom("a"), nil, Atom("b"), List(nil)}
	require.Equal(t, "(a b)", Format(l, SingleLine))
	require.Equal(t, "(a b)", Format(l, Indented))
	require.Equal(t, List{Atom("x")}, L(nil, Atom("x"), nil))
}

func TestFunctionHeader(t *testing.T) {
	fn := &wasm.Function{
		ID:      "echo",
		Params:  []wasm.Param{{ID: "x", Type: op.F32}, {ID: "y", Type: op.F32}},
		Results: []op.ValueType{op.F32},
		Body:    []wasm.Instr{&wasm.LocalGet{ID: "x"}},
	}
	p := &Printer{Policy: Indented, Indent: "\t"}
	require.Equal(t, "(func $echo (param $x f32) (param $y f32) (result f32)\n\tlocal.get $x)", p.Format(buildFunction(fn)))
}

func TestStructuredInstructions(t *testing.T) {
	instr := &wasm.Block{Label: "break_0", Body: []wasm.Instr{
		&wasm.Loop{Label: "continue_0", Body: []wasm.Instr{
			&wasm.BrIf{Label: "break_0"},
			&wasm.Br{Label: "continue_0"},
		}},
	}}
	require.Equal(t, "(block $break_0 (loop $continue_0 br_if $break_0 br $continue_0))",
		Format(buildInstr(instr), SingleLine))
	require.Equal(t, "(block $break_0\n  (loop $continue_0 br_if $break_0 br $continue_0))",
		Format(buildInstr(instr), Indented))

	withElse := &wasm.If{Then: []wasm.Instr{}, Else: []wasm.Instr{&wasm.Drop{}}}
	require.Equal(t, "(if (then) (else drop))", Format(buildInstr(withElse), SingleLine))
}

func TestQuote(t *testing.T) {
	require.Equal(t, Atom(`"a\"b\\\0a\00"`), Quote([]byte("a\"b\\\n\x00")))
	require.Equal(t, Atom(`"hello world"`), QuoteString("hello world"))
}

func TestComment(t *testing.T) {
	require.Equal(t, Atom("(; Initialise Tommy ;)"), Comment("Initialise Tommy"))
	require.Equal(t, Atom("(; a ; ) b ( ; c ;)"), Comment("a ;) b (; c"))
	require.Equal(t, "(; turn up x ;)", Format(buildInstr(&wasm.Comment{Text: "turn up x"}), Indented))
}

func TestPolicyString(t *testing.T) {
	require.Equal(t, "single-line", SingleLine.String())
	require.Equal(t, "indented", Indented.String())
}

func TestCompiledProgram(t *testing.T) {
	program, err := parser.Parse(context.Background(), "(count to three)\nPut 1 into X\nSay \"go\"\nSay Midnight taking X")
	require.NoError(t, err)
	m, err := compiler.Compile(program)
	require.NoError(t, err)

	expected := strings.TrimSpace(`
(module
  (import "env" "print_string" (func $print_string (param i32)))
  (import "env" "midnight" (func $midnight (param i32) (result i32)))
  (import "env" "print" (func $print (param i32)))
  (memory $memory 1)
  (data (i32.const 0) "go\00")
  (func $main (result i32)
    (local $x i32)
    (; count to three ;)
    i32.const 1
    local.set $x
    i32.const 0
    call $print_string
    local.get $x
    call $midnight
    call $print
    i32.const 0)
  (export "main" (func $main))
  (export "memory" (memory $memory)))`)
	require.Equal(t, expected, Text(m, Indented))
}
