package wat

import (
	"strconv"

	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/deepnoodle-ai/rockwasm/wasm"
)

// Build converts a module into its nested-list form. Imports come first,
// then memories, data segments, functions and exports.
func Build(m *wasm.Module) List {
	module := List{Atom("module")}
	for _, imp := range m.Imports {
		module = append(module, buildImport(imp))
	}
	for _, mem := range m.Memories {
		module = append(module, buildMemory(mem))
	}
	for _, d := range m.Data {
		module = append(module, L(
			Atom("data"),
			L(Atom("i32.const"), uint32Atom(d.Offset)),
			Quote(d.Bytes),
		))
	}
	for _, fn := range m.Functions {
		module = append(module, buildFunction(fn))
	}
	for _, exp := range m.Exports {
		module = append(module, L(
			Atom("export"),
			QuoteString(exp.Name),
			L(Atom(exp.Kind.String()), id(exp.ID)),
		))
	}
	return module
}

func id(s string) Atom {
	return Atom("$" + s)
}

// label returns nil for an unlabeled instruction.
func label(s string) Node {
	if s == "" {
		return nil
	}
	return id(s)
}

func uint32Atom(v uint32) Atom {
	return Atom(strconv.FormatUint(uint64(v), 10))
}

func typeList(keyword string, types []op.ValueType) Node {
	if len(types) == 0 {
		return nil
	}
	l := List{Atom(keyword)}
	for _, t := range types {
		l = append(l, Atom(t.String()))
	}
	return l
}

func buildImport(imp *wasm.Import) List {
	return L(
		Atom("import"),
		QuoteString(imp.Module),
		QuoteString(imp.Name),
		L(Atom("func"), id(imp.ID), typeList("param", imp.Params), typeList("result", imp.Results)),
	)
}

func buildMemory(mem *wasm.Memory) List {
	var max Node
	if mem.Max != nil {
		max = uint32Atom(*mem.Max)
	}
	return L(Atom("memory"), label(mem.ID), uint32Atom(mem.Min), max)
}

func buildFunction(fn *wasm.Function) List {
	l := List{Atom("func"), id(fn.ID)}
	for _, p := range fn.Params {
		l = append(l, L(Atom("param"), id(p.ID), Atom(p.Type.String())))
	}
	if results := typeList("result", fn.Results); results != nil {
		l = append(l, results)
	}
	for _, local := range fn.Locals {
		l = append(l, L(Atom("local"), id(local.ID), Atom(local.Type.String())))
	}
	return append(l, buildInstrs(fn.Body)...)
}

func buildInstrs(instrs []wasm.Instr) []Node {
	nodes := make([]Node, 0, len(instrs))
	for _, instr := range instrs {
		nodes = append(nodes, buildInstr(instr))
	}
	return nodes
}

// buildInstr renders structured instructions in folded form and every
// other instruction as a single atom.
func buildInstr(instr wasm.Instr) Node {
	switch instr := instr.(type) {
	case *wasm.If:
		l := L(Atom("if"), label(instr.Label))
		l = append(l, append(List{Atom("then")}, buildInstrs(instr.Then)...))
		if instr.Else != nil {
			l = append(l, append(List{Atom("else")}, buildInstrs(instr.Else)...))
		}
		return l
	case *wasm.Block:
		return append(L(Atom("block"), label(instr.Label)), buildInstrs(instr.Body)...)
	case *wasm.Loop:
		return append(L(Atom("loop"), label(instr.Label)), buildInstrs(instr.Body)...)
	case *wasm.Comment:
		return Comment(instr.Text)
	default:
		return Atom(instr.String())
	}
}
