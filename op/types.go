package op

// ValueType is a WebAssembly value type.
type ValueType byte

const (
	I32 ValueType = 0x7F
	I64 ValueType = 0x7E
	F32 ValueType = 0x7D
	F64 ValueType = 0x7C
)

func (t ValueType) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// ParseValueType converts a text format type name to a ValueType.
func ParseValueType(name string) (ValueType, bool) {
	for _, t := range []ValueType{I32, I64, F32, F64} {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}

// SectionID identifies a section of a binary module.
type SectionID byte

const (
	CustomSection   SectionID = 0
	TypeSection     SectionID = 1
	ImportSection   SectionID = 2
	FunctionSection SectionID = 3
	TableSection    SectionID = 4
	MemorySection   SectionID = 5
	GlobalSection   SectionID = 6
	ExportSection   SectionID = 7
	StartSection    SectionID = 8
	ElementSection  SectionID = 9
	CodeSection     SectionID = 10
	DataSection     SectionID = 11
)

var sectionNames = map[SectionID]string{
	CustomSection:   "custom",
	TypeSection:     "type",
	ImportSection:   "import",
	FunctionSection: "function",
	TableSection:    "table",
	MemorySection:   "memory",
	GlobalSection:   "global",
	ExportSection:   "export",
	StartSection:    "start",
	ElementSection:  "element",
	CodeSection:     "code",
	DataSection:     "data",
}

func (id SectionID) String() string {
	if name, ok := sectionNames[id]; ok {
		return name
	}
	return "unknown"
}

// ExternalKind tags an import or export.
type ExternalKind byte

const (
	ExternalFunc   ExternalKind = 0x00
	ExternalTable  ExternalKind = 0x01
	ExternalMemory ExternalKind = 0x02
	ExternalGlobal ExternalKind = 0x03
)

func (k ExternalKind) String() string {
	switch k {
	case ExternalFunc:
		return "func"
	case ExternalTable:
		return "table"
	case ExternalMemory:
		return "memory"
	case ExternalGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Binary format markers.
const (
	Magic       = "\x00asm"
	Version     = "\x01\x00\x00\x00"
	FuncType    = 0x60
	EmptyBlock  = 0x40
	LimitsMin   = 0x00
	LimitsRange = 0x01
)
