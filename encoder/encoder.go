// Package encoder writes a module AST in the WebAssembly binary format and
// reads back the section framing of a binary module.
//
// Sections are written in the order type, import, function, memory, export,
// code, data. A section whose vector would be empty is omitted. Every import
// and every function gets its own entry in the type section; signatures are
// not deduplicated, so the type index of a function equals its function
// index.
//
// Symbolic identifiers are resolved here. Imports are indexed before module
// functions, each in declaration order, and labels resolve to the relative
// depth of the enclosing structured instruction. An identifier that does not
// resolve is an error.
package encoder

import (
	"encoding/binary"
	"math"

	"github.com/deepnoodle-ai/rockwasm/errors"
	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/deepnoodle-ai/rockwasm/wasm"
)

// Encode returns the binary form of m.
func Encode(m *wasm.Module) ([]byte, error) {
	e, err := newEncoder(m)
	if err != nil {
		return nil, err
	}
	return e.encode()
}

type encoder struct {
	m        *wasm.Module
	funcs    map[string]uint32
	memories map[string]uint32
}

func newEncoder(m *wasm.Module) (*encoder, error) {
	e := &encoder{
		m:        m,
		funcs:    map[string]uint32{},
		memories: map[string]uint32{},
	}
	for i, id := range m.FunctionIDs() {
		if _, exists := e.funcs[id]; exists {
			return nil, errors.EncodeErrorf(errors.E3005, "function %q is defined more than once", id)
		}
		e.funcs[id] = uint32(i)
	}
	if len(m.Memories) > 1 {
		return nil, errors.EncodeErrorf(errors.E3005, "a module may declare at most one memory, found %d", len(m.Memories))
	}
	for i, mem := range m.Memories {
		e.memories[mem.ID] = uint32(i)
	}
	if len(m.Data) > 0 && len(m.Memories) == 0 {
		return nil, errors.EncodeErrorf(errors.E3004, "data segments require a memory")
	}
	return e, nil
}

func (e *encoder) encode() ([]byte, error) {
	out := []byte(op.Magic + op.Version)
	sections := []struct {
		id    op.SectionID
		count int
		build func() ([]byte, error)
	}{
		{op.TypeSection, len(e.m.Imports) + len(e.m.Functions), e.typeSection},
		{op.ImportSection, len(e.m.Imports), e.importSection},
		{op.FunctionSection, len(e.m.Functions), e.functionSection},
		{op.MemorySection, len(e.m.Memories), e.memorySection},
		{op.ExportSection, len(e.m.Exports), e.exportSection},
		{op.CodeSection, len(e.m.Functions), e.codeSection},
		{op.DataSection, len(e.m.Data), e.dataSection},
	}
	for _, s := range sections {
		if s.count == 0 {
			continue
		}
		payload, err := s.build()
		if err != nil {
			return nil, err
		}
		out = append(out, byte(s.id))
		out = AppendUleb128(out, uint64(len(payload)))
		out = append(out, payload...)
	}
	return out, nil
}

func appendVecLen(b []byte, n int) []byte {
	return AppendUleb128(b, uint64(n))
}

func appendName(b []byte, name string) []byte {
	b = AppendUleb128(b, uint64(len(name)))
	return append(b, name...)
}

func appendFuncType(b []byte, params, results []op.ValueType) []byte {
	b = append(b, op.FuncType)
	b = appendVecLen(b, len(params))
	for _, t := range params {
		b = append(b, byte(t))
	}
	b = appendVecLen(b, len(results))
	for _, t := range results {
		b = append(b, byte(t))
	}
	return b
}

func (e *encoder) typeSection() ([]byte, error) {
	b := appendVecLen(nil, len(e.m.Imports)+len(e.m.Functions))
	for _, imp := range e.m.Imports {
		b = appendFuncType(b, imp.Params, imp.Results)
	}
	for _, fn := range e.m.Functions {
		params := make([]op.ValueType, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Type
		}
		b = appendFuncType(b, params, fn.Results)
	}
	return b, nil
}

func (e *encoder) importSection() ([]byte, error) {
	b := appendVecLen(nil, len(e.m.Imports))
	for i, imp := range e.m.Imports {
		b = appendName(b, imp.Module)
		b = appendName(b, imp.Name)
		b = append(b, byte(op.ExternalFunc))
		b = AppendUleb128(b, uint64(i))
	}
	return b, nil
}

func (e *encoder) functionSection() ([]byte, error) {
	b := appendVecLen(nil, len(e.m.Functions))
	for i := range e.m.Functions {
		b = AppendUleb128(b, uint64(len(e.m.Imports)+i))
	}
	return b, nil
}

func (e *encoder) memorySection() ([]byte, error) {
	b := appendVecLen(nil, len(e.m.Memories))
	for _, mem := range e.m.Memories {
		if mem.Max == nil {
			b = append(b, op.LimitsMin)
			b = AppendUleb128(b, uint64(mem.Min))
			continue
		}
		b = append(b, op.LimitsRange)
		b = AppendUleb128(b, uint64(mem.Min))
		b = AppendUleb128(b, uint64(*mem.Max))
	}
	return b, nil
}

func (e *encoder) exportSection() ([]byte, error) {
	b := appendVecLen(nil, len(e.m.Exports))
	for _, exp := range e.m.Exports {
		var index uint32
		var ok bool
		switch exp.Kind {
		case op.ExternalFunc:
			if index, ok = e.funcs[exp.ID]; !ok {
				return nil, errors.EncodeErrorf(errors.E3001, "export %q refers to unknown function %q", exp.Name, exp.ID).
					WithSuggestions(exp.ID, e.m.FunctionIDs())
			}
		case op.ExternalMemory:
			if index, ok = e.memories[exp.ID]; !ok {
				return nil, errors.EncodeErrorf(errors.E3004, "export %q refers to unknown memory %q", exp.Name, exp.ID)
			}
		default:
			return nil, errors.EncodeErrorf(errors.E3005, "export %q has unsupported kind %s", exp.Name, exp.Kind)
		}
		b = appendName(b, exp.Name)
		b = append(b, byte(exp.Kind))
		b = AppendUleb128(b, uint64(index))
	}
	return b, nil
}

func (e *encoder) codeSection() ([]byte, error) {
	b := appendVecLen(nil, len(e.m.Functions))
	for _, fn := range e.m.Functions {
		body, err := e.functionBody(fn)
		if err != nil {
			return nil, err
		}
		b = AppendUleb128(b, uint64(len(body)))
		b = append(b, body...)
	}
	return b, nil
}

func (e *encoder) dataSection() ([]byte, error) {
	b := appendVecLen(nil, len(e.m.Data))
	for _, d := range e.m.Data {
		// Active segment for memory 0 with a constant offset expression
		b = append(b, 0x00)
		b = append(b, byte(op.I32Const))
		b = AppendSleb128(b, int64(int32(d.Offset)))
		b = append(b, byte(op.End))
		b = AppendUleb128(b, uint64(len(d.Bytes)))
		b = append(b, d.Bytes...)
	}
	return b, nil
}

// localGroups run-length encodes the types of the declared locals.
func localGroups(locals []wasm.Local) (counts []uint32, types []op.ValueType) {
	for _, l := range locals {
		if n := len(types); n > 0 && types[n-1] == l.Type {
			counts[n-1]++
			continue
		}
		counts = append(counts, 1)
		types = append(types, l.Type)
	}
	return counts, types
}

// body encodes the instructions of one function.
type body struct {
	e      *encoder
	fn     *wasm.Function
	locals map[string]uint32
	labels []string
}

func (e *encoder) functionBody(fn *wasm.Function) ([]byte, error) {
	f := &body{e: e, fn: fn, locals: map[string]uint32{}}
	for i, id := range fn.LocalIDs() {
		if _, exists := f.locals[id]; exists {
			return nil, errors.EncodeErrorf(errors.E3005, "local %q is declared more than once in function %q", id, fn.ID)
		}
		f.locals[id] = uint32(i)
	}
	counts, types := localGroups(fn.Locals)
	b := appendVecLen(nil, len(counts))
	for i := range counts {
		b = AppendUleb128(b, uint64(counts[i]))
		b = append(b, byte(types[i]))
	}
	b, err := f.instrs(b, fn.Body)
	if err != nil {
		return nil, err
	}
	return append(b, byte(op.End)), nil
}

func (f *body) local(id string) (uint32, error) {
	index, ok := f.locals[id]
	if !ok {
		return 0, errors.EncodeErrorf(errors.E3002, "function %q uses unknown local %q", f.fn.ID, id).
			WithSuggestions(id, f.fn.LocalIDs())
	}
	return index, nil
}

// depth returns the relative branch depth of a label. The innermost
// enclosing structured instruction has depth 0.
func (f *body) depth(label string) (uint32, error) {
	for i := len(f.labels) - 1; i >= 0; i-- {
		if f.labels[i] == label && label != "" {
			return uint32(len(f.labels) - 1 - i), nil
		}
	}
	var known []string
	for _, l := range f.labels {
		if l != "" {
			known = append(known, l)
		}
	}
	return 0, errors.EncodeErrorf(errors.E3003, "function %q branches to unknown label %q", f.fn.ID, label).
		WithSuggestions(label, known)
}

func (f *body) structured(b []byte, code op.Code, label string, instrs []wasm.Instr) ([]byte, error) {
	b = append(b, byte(code), op.EmptyBlock)
	f.labels = append(f.labels, label)
	b, err := f.instrs(b, instrs)
	f.labels = f.labels[:len(f.labels)-1]
	if err != nil {
		return nil, err
	}
	return append(b, byte(op.End)), nil
}

func (f *body) instrs(b []byte, instrs []wasm.Instr) ([]byte, error) {
	var err error
	for _, instr := range instrs {
		if b, err = f.instr(b, instr); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (f *body) instr(b []byte, instr wasm.Instr) ([]byte, error) {
	switch instr := instr.(type) {
	case *wasm.Const:
		switch instr.Type {
		case op.I32:
			b = append(b, byte(op.I32Const))
			return AppendSleb128(b, int64(instr.Int32())), nil
		case op.F32:
			b = append(b, byte(op.F32Const))
			return binary.LittleEndian.AppendUint32(b, math.Float32bits(instr.Float32())), nil
		default:
			return nil, errors.EncodeErrorf(errors.E3005, "unsupported constant type %s", instr.Type)
		}
	case *wasm.LocalGet:
		return f.localInstr(b, op.LocalGet, instr.ID)
	case *wasm.LocalSet:
		return f.localInstr(b, op.LocalSet, instr.ID)
	case *wasm.LocalTee:
		return f.localInstr(b, op.LocalTee, instr.ID)
	case *wasm.Call:
		index, ok := f.e.funcs[instr.ID]
		if !ok {
			return nil, errors.EncodeErrorf(errors.E3001, "function %q calls unknown function %q", f.fn.ID, instr.ID).
				WithSuggestions(instr.ID, f.e.m.FunctionIDs())
		}
		b = append(b, byte(op.Call))
		return AppendUleb128(b, uint64(index)), nil
	case *wasm.Drop:
		return append(b, byte(op.Drop)), nil
	case *wasm.Unary:
		return append(b, byte(instr.Op)), nil
	case *wasm.Binary:
		return append(b, byte(instr.Op)), nil
	case *wasm.Comment:
		return b, nil
	case *wasm.If:
		return f.ifInstr(b, instr)
	case *wasm.Block:
		return f.structured(b, op.Block, instr.Label, instr.Body)
	case *wasm.Loop:
		return f.structured(b, op.Loop, instr.Label, instr.Body)
	case *wasm.Br:
		return f.branch(b, op.Br, instr.Label)
	case *wasm.BrIf:
		return f.branch(b, op.BrIf, instr.Label)
	default:
		return nil, errors.EncodeErrorf(errors.E3005, "unsupported instruction %T", instr)
	}
}

// ifInstr encodes "if <then> [else <else>] end". Both branches share the
// label of the if.
func (f *body) ifInstr(b []byte, instr *wasm.If) ([]byte, error) {
	b = append(b, byte(op.If), op.EmptyBlock)
	f.labels = append(f.labels, instr.Label)
	defer func() { f.labels = f.labels[:len(f.labels)-1] }()
	b, err := f.instrs(b, instr.Then)
	if err != nil {
		return nil, err
	}
	if instr.Else != nil {
		b = append(b, byte(op.Else))
		if b, err = f.instrs(b, instr.Else); err != nil {
			return nil, err
		}
	}
	return append(b, byte(op.End)), nil
}

func (f *body) localInstr(b []byte, code op.Code, id string) ([]byte, error) {
	index, err := f.local(id)
	if err != nil {
		return nil, err
	}
	b = append(b, byte(code))
	return AppendUleb128(b, uint64(index)), nil
}

func (f *body) branch(b []byte, code op.Code, label string) ([]byte, error) {
	depth, err := f.depth(label)
	if err != nil {
		return nil, err
	}
	b = append(b, byte(code))
	return AppendUleb128(b, uint64(depth)), nil
}
