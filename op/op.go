// Package op defines the WebAssembly opcodes, value types and section ids
// used by the text and binary emitters.
package op

// Code is a WebAssembly instruction opcode.
type Code byte

const (
	// Control
	Block  Code = 0x02
	Loop   Code = 0x03
	If     Code = 0x04
	Else   Code = 0x05
	End    Code = 0x0B
	Br     Code = 0x0C
	BrIf   Code = 0x0D
	Return Code = 0x0F
	Call   Code = 0x10

	// Parametric
	Drop Code = 0x1A

	// Variables
	LocalGet Code = 0x20
	LocalSet Code = 0x21
	LocalTee Code = 0x22

	// Constants
	I32Const Code = 0x41
	F32Const Code = 0x43

	// i32 comparisons
	I32Eqz Code = 0x45
	I32Eq  Code = 0x46
	I32Ne  Code = 0x47
	I32LtS Code = 0x48
	I32GtS Code = 0x4A
	I32LeS Code = 0x4C
	I32GeS Code = 0x4E

	// f32 comparisons
	F32Eq Code = 0x5B
	F32Ne Code = 0x5C
	F32Lt Code = 0x5D
	F32Gt Code = 0x5E
	F32Le Code = 0x5F
	F32Ge Code = 0x60

	// i32 arithmetic
	I32Add  Code = 0x6A
	I32Sub  Code = 0x6B
	I32Mul  Code = 0x6C
	I32DivS Code = 0x6D
	I32And  Code = 0x71
	I32Or   Code = 0x72

	// f32 arithmetic
	F32Ceil    Code = 0x8D
	F32Floor   Code = 0x8E
	F32Nearest Code = 0x90
	F32Add     Code = 0x92
	F32Sub     Code = 0x93
	F32Mul     Code = 0x94
	F32Div     Code = 0x95

	// Conversions
	I32TruncF32S   Code = 0xA8
	F32ConvertI32S Code = 0xB2
)

// Immediate describes the operand encoded after an opcode.
type Immediate int

const (
	NoImmediate Immediate = iota
	BlockType             // block signature
	LabelIndex            // branch depth
	FuncIndex             // function index
	LocalIndex            // local index
	I32Value              // signed LEB128 constant
	F32Value              // IEEE-754 constant
)

// Info contains information about an opcode.
type Info struct {
	Code      Code
	Name      string
	Immediate Immediate
}

var infos [256]Info

func init() {
	ops := []Info{
		{Block, "block", BlockType},
		{Loop, "loop", BlockType},
		{If, "if", BlockType},
		{Else, "else", NoImmediate},
		{End, "end", NoImmediate},
		{Br, "br", LabelIndex},
		{BrIf, "br_if", LabelIndex},
		{Return, "return", NoImmediate},
		{Call, "call", FuncIndex},
		{Drop, "drop", NoImmediate},
		{LocalGet, "local.get", LocalIndex},
		{LocalSet, "local.set", LocalIndex},
		{LocalTee, "local.tee", LocalIndex},
		{I32Const, "i32.const", I32Value},
		{F32Const, "f32.const", F32Value},
		{I32Eqz, "i32.eqz", NoImmediate},
		{I32Eq, "i32.eq", NoImmediate},
		{I32Ne, "i32.ne", NoImmediate},
		{I32LtS, "i32.lt_s", NoImmediate},
		{I32GtS, "i32.gt_s", NoImmediate},
		{I32LeS, "i32.le_s", NoImmediate},
		{I32GeS, "i32.ge_s", NoImmediate},
		{F32Eq, "f32.eq", NoImmediate},
		{F32Ne, "f32.ne", NoImmediate},
		{F32Lt, "f32.lt", NoImmediate},
		{F32Gt, "f32.gt", NoImmediate},
		{F32Le, "f32.le", NoImmediate},
		{F32Ge, "f32.ge", NoImmediate},
		{I32Add, "i32.add", NoImmediate},
		{I32Sub, "i32.sub", NoImmediate},
		{I32Mul, "i32.mul", NoImmediate},
		{I32DivS, "i32.div_s", NoImmediate},
		{I32And, "i32.and", NoImmediate},
		{I32Or, "i32.or", NoImmediate},
		{F32Ceil, "f32.ceil", NoImmediate},
		{F32Floor, "f32.floor", NoImmediate},
		{F32Nearest, "f32.nearest", NoImmediate},
		{F32Add, "f32.add", NoImmediate},
		{F32Sub, "f32.sub", NoImmediate},
		{F32Mul, "f32.mul", NoImmediate},
		{F32Div, "f32.div", NoImmediate},
		{I32TruncF32S, "i32.trunc_f32_s", NoImmediate},
		{F32ConvertI32S, "f32.convert_i32_s", NoImmediate},
	}
	for _, o := range ops {
		infos[o.Code] = o
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes have
// an empty name.
func GetInfo(code Code) Info {
	return infos[code]
}

// Lookup finds an opcode by its text format name, e.g. "i32.add".
func Lookup(name string) (Code, bool) {
	for _, info := range infos {
		if info.Name == name && info.Name != "" {
			return info.Code, true
		}
	}
	return 0, false
}

func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "unknown"
}
