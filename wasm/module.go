// Package wasm defines the module AST: an in-memory WebAssembly module built
// by the compiler and consumed by the text and binary emitters.
//
// Functions, imports, locals and labels are referenced by symbolic
// identifiers. Identifiers are resolved to dense indices only when the module
// is encoded, so a module may be assembled in any order.
//
// The order of every collection is significant. Imports are indexed before
// functions, each in insertion order, and that combined index space is what
// calls and exports resolve against.
package wasm

import "github.com/deepnoodle-ai/rockwasm/op"

// Module is a WebAssembly module.
type Module struct {
	Imports   []*Import
	Functions []*Function
	Memories  []*Memory
	Exports   []*Export
	Data      []*Data
}

// Import is a host-provided function.
type Import struct {
	Module  string // host module namespace, e.g. "env"
	Name    string // field name within the host module
	ID      string
	Params  []op.ValueType
	Results []op.ValueType
}

// Function is a function defined by the module.
type Function struct {
	ID      string
	Params  []Param
	Results []op.ValueType
	Locals  []Local
	Body    []Instr
}

// Param is a named function parameter.
type Param struct {
	ID   string
	Type op.ValueType
}

// Local is a named local variable, declared after the parameters.
type Local struct {
	ID   string
	Type op.ValueType
}

// Memory is a linear memory measured in 64KiB pages. Max is nil when the
// memory has no upper bound.
type Memory struct {
	ID  string
	Min uint32
	Max *uint32
}

// Export makes a function or memory visible to the host under Name.
type Export struct {
	Name string
	Kind op.ExternalKind
	ID   string
}

// Data is an active data segment copied into memory 0 at Offset.
type Data struct {
	Offset uint32
	Bytes  []byte
}

// Function returns the function with the given id, or nil.
func (m *Module) Function(id string) *Function {
	for _, fn := range m.Functions {
		if fn.ID == id {
			return fn
		}
	}
	return nil
}

// Import returns the import with the given id, or nil.
func (m *Module) Import(id string) *Import {
	for _, imp := range m.Imports {
		if imp.ID == id {
			return imp
		}
	}
	return nil
}

// Export returns the export with the given public name, or nil.
func (m *Module) Export(name string) *Export {
	for _, exp := range m.Exports {
		if exp.Name == name {
			return exp
		}
	}
	return nil
}

// FunctionIDs lists every callable id in index order: imports first, then
// module functions.
func (m *Module) FunctionIDs() []string {
	ids := make([]string, 0, len(m.Imports)+len(m.Functions))
	for _, imp := range m.Imports {
		ids = append(ids, imp.ID)
	}
	for _, fn := range m.Functions {
		ids = append(ids, fn.ID)
	}
	return ids
}

// LocalIDs lists the parameters and locals of the function in index order.
func (f *Function) LocalIDs() []string {
	ids := make([]string, 0, len(f.Params)+len(f.Locals))
	for _, p := range f.Params {
		ids = append(ids, p.ID)
	}
	for _, l := range f.Locals {
		ids = append(ids, l.ID)
	}
	return ids
}

// Pages returns a pointer to n, for use as a Memory maximum.
func Pages(n uint32) *uint32 {
	return &n
}
