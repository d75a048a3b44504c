package wasm

import (
	"fmt"
	"math"
	"strings"

	"github.com/deepnoodle-ai/rockwasm/op"
)

// Instr is a single instruction. The set of implementations is closed:
// Const, LocalGet, LocalSet, LocalTee, Call, Drop, Unary, Binary, Comment,
// If, Loop, Block, Br and BrIf.
type Instr interface {
	instrNode()

	// String returns the instruction in text format, on one line.
	String() string
}

// Const pushes a constant of the given type. Integer constants truncate
// Value toward zero and saturate at the bounds of int32.
type Const struct {
	Type  op.ValueType
	Value float64
}

func (i *Const) instrNode() {}

// Int32 returns the value as an i32 immediate.
func (i *Const) Int32() int32 {
	v := math.Trunc(i.Value)
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

// Float32 returns the value as an f32 immediate.
func (i *Const) Float32() float32 {
	return float32(i.Value)
}

func (i *Const) String() string {
	if i.Type == op.F32 {
		return fmt.Sprintf("f32.const %v", i.Float32())
	}
	return fmt.Sprintf("%s.const %d", i.Type, i.Int32())
}

// LocalGet pushes the value of a local.
type LocalGet struct {
	ID string
}

func (i *LocalGet) instrNode() {}

func (i *LocalGet) String() string { return "local.get $" + i.ID }

// LocalSet pops a value into a local.
type LocalSet struct {
	ID string
}

func (i *LocalSet) instrNode() {}

func (i *LocalSet) String() string { return "local.set $" + i.ID }

// LocalTee stores the top of the stack in a local without popping it.
type LocalTee struct {
	ID string
}

func (i *LocalTee) instrNode() {}

func (i *LocalTee) String() string { return "local.tee $" + i.ID }

// Call calls a function or import by id.
type Call struct {
	ID string
}

func (i *Call) instrNode() {}

func (i *Call) String() string { return "call $" + i.ID }

// Drop discards the top of the stack.
type Drop struct{}

func (i *Drop) instrNode() {}

func (i *Drop) String() string { return "drop" }

// Unary is an operator taking one operand, e.g. i32.eqz or f32.ceil.
type Unary struct {
	Op op.Code
}

func (i *Unary) instrNode() {}

func (i *Unary) String() string { return i.Op.String() }

// Binary is an operator taking two operands, e.g. i32.add.
type Binary struct {
	Op op.Code
}

func (i *Binary) instrNode() {}

func (i *Binary) String() string { return i.Op.String() }

// Comment is a no-op that survives into the text format only.
type Comment struct {
	Text string
}

func (i *Comment) instrNode() {}

func (i *Comment) String() string { return "(; " + i.Text + " ;)" }

// If pops a condition and runs Then when it is non-zero, Else otherwise.
// Else is nil when there is no else branch.
type If struct {
	Label string
	Then  []Instr
	Else  []Instr
}

func (i *If) instrNode() {}

func (i *If) String() string {
	var out strings.Builder
	out.WriteString("(if")
	writeLabel(&out, i.Label)
	out.WriteString(" (then")
	writeInstrs(&out, i.Then)
	out.WriteString(")")
	if i.Else != nil {
		out.WriteString(" (else")
		writeInstrs(&out, i.Else)
		out.WriteString(")")
	}
	out.WriteString(")")
	return out.String()
}

// Loop is a structured loop. A branch to its label restarts the body.
type Loop struct {
	Label string
	Body  []Instr
}

func (i *Loop) instrNode() {}

func (i *Loop) String() string { return structured("loop", i.Label, i.Body) }

// Block is a structured block. A branch to its label exits the block.
type Block struct {
	Label string
	Body  []Instr
}

func (i *Block) instrNode() {}

func (i *Block) String() string { return structured("block", i.Label, i.Body) }

// Br branches unconditionally to a label.
type Br struct {
	Label string
}

func (i *Br) instrNode() {}

func (i *Br) String() string { return "br $" + i.Label }

// BrIf pops a condition and branches to a label when it is non-zero.
type BrIf struct {
	Label string
}

func (i *BrIf) instrNode() {}

func (i *BrIf) String() string { return "br_if $" + i.Label }

func structured(name, label string, body []Instr) string {
	var out strings.Builder
	out.WriteString("(")
	out.WriteString(name)
	writeLabel(&out, label)
	writeInstrs(&out, body)
	out.WriteString(")")
	return out.String()
}

func writeLabel(out *strings.Builder, label string) {
	if label != "" {
		out.WriteString(" $")
		out.WriteString(label)
	}
}

func writeInstrs(out *strings.Builder, instrs []Instr) {
	for _, instr := range instrs {
		out.WriteString(" ")
		out.WriteString(instr.String())
	}
}

// Walk calls fn for every instruction in instrs, descending into the bodies
// of structured instructions. Walk stops early when fn returns false.
func Walk(instrs []Instr, fn func(Instr) bool) bool {
	for _, instr := range instrs {
		if !fn(instr) {
			return false
		}
		var nested [][]Instr
		switch instr := instr.(type) {
		case *If:
			nested = [][]Instr{instr.Then, instr.Else}
		case *Loop:
			nested = [][]Instr{instr.Body}
		case *Block:
			nested = [][]Instr{instr.Body}
		}
		for _, body := range nested {
			if !Walk(body, fn) {
				return false
			}
		}
	}
	return true
}
