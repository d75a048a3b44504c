// Package compiler lowers a Rockstar abstract syntax tree (AST) into a
// WebAssembly module AST.
//
// # Two-Pass Compilation Strategy
//
// Functions may be called before they are declared, so compilation runs in
// two passes.
//
// Pass 1: collectFunctionDeclarations
//
// Walks the top-level statements and registers every function declaration
// with its arity. Everything that is not a function declaration is a loose
// statement; loose statements form the body of the entry function.
//
// Pass 2: compile
//
// Lowers the entry function first, then each declared function in source
// order. A call to a name that was registered in pass 1 becomes a call to
// that function. A call to any other name becomes a call to a host import,
// declared the first time the name is seen.
//
// # Values and Variables
//
// Every runtime value has the same WebAssembly value type, i32 unless
// WithValueType selects f32. Null and mysterious lower to zero, booleans to
// one and zero, and strings to the memory offset of a NUL-terminated data
// segment.
//
// Each function has its own symbol table. A variable claims the next local
// slot the first time it is referenced. Pronouns refer to the variable that
// was most recently assigned in the statements lowered so far.
package compiler

import (
	"fmt"

	"github.com/deepnoodle-ai/rockwasm/ast"
	"github.com/deepnoodle-ai/rockwasm/errors"
	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/deepnoodle-ai/rockwasm/wasm"
)

const (
	// EntryName is the id and export name of the entry function.
	EntryName = "main"

	// MemoryName is the id and export name of the linear memory.
	MemoryName = "memory"

	// DefaultHostModule is the namespace host functions are imported from.
	DefaultHostModule = "env"

	// PageSize is the size of one page of linear memory.
	PageSize = 65536
)

// Host functions backing Say and Listen. User code may not declare or call
// functions with these names.
const (
	PrintImport       = "print"
	PrintStringImport = "print_string"
	ReadImport        = "read"
)

func isHostName(id string) bool {
	return id == PrintImport || id == PrintStringImport || id == ReadImport
}

// Compiler lowers programs into modules. A Compiler may be reused, but not
// concurrently.
type Compiler struct {
	valueType  op.ValueType
	hostModule string

	// Per-compilation state, reset by Compile.
	module    *wasm.Module
	functions map[string]*signature
	imports   map[string]*wasm.Import
	strings   map[string]uint32
	dataSize  uint32
}

// signature is a function registered in pass 1.
type signature struct {
	decl  *ast.FuncDecl
	id    string
	arity int
}

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithValueType sets the type used for every runtime value. Only op.I32 and
// op.F32 are supported.
func WithValueType(t op.ValueType) Option {
	return func(c *Compiler) {
		c.valueType = t
	}
}

// WithHostModule sets the namespace host functions are imported from.
func WithHostModule(name string) Option {
	return func(c *Compiler) {
		c.hostModule = name
	}
}

// Compile lowers the program into a new module.
func Compile(program *ast.Program, options ...Option) (*wasm.Module, error) {
	c, err := New(options...)
	if err != nil {
		return nil, err
	}
	return c.Compile(program)
}

// New creates and returns a new Compiler.
func New(options ...Option) (*Compiler, error) {
	c := &Compiler{
		valueType:  op.I32,
		hostModule: DefaultHostModule,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.valueType != op.I32 && c.valueType != op.F32 {
		return nil, fmt.Errorf("unsupported value type %s (expected i32 or f32)", c.valueType)
	}
	if c.hostModule == "" {
		return nil, fmt.Errorf("host module name must not be empty")
	}
	return c, nil
}

// ValueType returns the type used for every runtime value.
func (c *Compiler) ValueType() op.ValueType {
	return c.valueType
}

// Compile lowers the program into a new module.
func (c *Compiler) Compile(program *ast.Program) (*wasm.Module, error) {
	c.module = &wasm.Module{}
	c.functions = map[string]*signature{}
	c.imports = map[string]*wasm.Import{}
	c.strings = map[string]uint32{}
	c.dataSize = 0

	if program == nil {
		program = &ast.Program{}
	}

	// Pass 1: register every function so calls may refer forward
	decls, loose, err := c.collectFunctionDeclarations(program)
	if err != nil {
		return nil, err
	}

	// Pass 2: lower the entry point, then each function in source order
	if userMain, ok := c.functions[EntryName]; ok {
		if hasCode(loose) {
			return nil, errors.CompileErrorf(errors.E2001, userMain.decl.Pos(),
				"function %q conflicts with the entry point formed by the top-level statements", EntryName)
		}
	} else {
		entry, err := c.compileEntry(loose)
		if err != nil {
			return nil, err
		}
		c.module.Functions = append(c.module.Functions, entry)
	}
	for _, decl := range decls {
		fn, err := c.compileFunction(decl)
		if err != nil {
			return nil, err
		}
		c.module.Functions = append(c.module.Functions, fn)
	}

	c.module.Memories = []*wasm.Memory{{ID: MemoryName, Min: c.pages()}}
	c.module.Exports = []*wasm.Export{
		{Name: EntryName, Kind: op.ExternalFunc, ID: EntryName},
		{Name: MemoryName, Kind: op.ExternalMemory, ID: MemoryName},
	}
	return c.module, nil
}

// collectFunctionDeclarations splits the program into function declarations
// and loose statements, registering each function's signature.
func (c *Compiler) collectFunctionDeclarations(program *ast.Program) ([]*ast.FuncDecl, []ast.Stmt, error) {
	var decls []*ast.FuncDecl
	var loose []ast.Stmt
	for _, s := range program.Stmts {
		decl, ok := s.(*ast.FuncDecl)
		if !ok {
			loose = append(loose, s)
			continue
		}
		name := decl.Name.Name
		if prev, exists := c.functions[name]; exists {
			return nil, nil, errors.CompileErrorf(errors.E2007, decl.Pos(),
				"function %q is already declared on line %d", name, prev.decl.Pos().LineNumber())
		}
		id := LocalID(name)
		if isHostName(id) {
			return nil, nil, errors.CompileErrorf(errors.E2001, decl.Pos(),
				"function name %q is reserved for host input and output", name)
		}
		seen := map[string]bool{}
		for _, p := range decl.Params {
			if seen[p.Name] {
				return nil, nil, errors.CompileErrorf(errors.E2006, p.Pos(),
					"parameter %q is declared more than once in function %q", p.Name, name)
			}
			seen[p.Name] = true
		}
		c.functions[name] = &signature{decl: decl, id: id, arity: len(decl.Params)}
		decls = append(decls, decl)
	}
	return decls, loose, nil
}

// hasCode reports whether any statement does more than document.
func hasCode(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if _, ok := s.(*ast.Comment); !ok {
			return true
		}
	}
	return false
}

func (c *Compiler) compileEntry(stmts []ast.Stmt) (*wasm.Function, error) {
	f := c.newFunction(EntryName)
	if err := f.statements(stmts); err != nil {
		return nil, err
	}
	f.emit(&wasm.Const{Type: op.I32, Value: 0})
	return f.build(nil, []op.ValueType{op.I32}), nil
}

func (c *Compiler) compileFunction(decl *ast.FuncDecl) (*wasm.Function, error) {
	sig := c.functions[decl.Name.Name]
	f := c.newFunction(sig.id)
	params := make([]wasm.Param, 0, len(decl.Params))
	for _, p := range decl.Params {
		s, _ := f.symbols.InsertParam(p.Name)
		params = append(params, wasm.Param{ID: s.ID(), Type: c.valueType})
	}
	if err := f.statements(decl.Body); err != nil {
		return nil, err
	}
	if err := f.value(decl.Result); err != nil {
		return nil, err
	}
	return f.build(params, []op.ValueType{c.valueType}), nil
}

// callTarget resolves the id a call refers to, declaring a host import for
// names that no function declares.
func (c *Compiler) callTarget(call *ast.Call) (string, error) {
	name := call.Fn.Name
	if sig, ok := c.functions[name]; ok {
		if len(call.Args) != sig.arity {
			return "", errors.CompileErrorf(errors.E2005, call.Pos(),
				"function %q takes %d argument(s) but is called with %d", name, sig.arity, len(call.Args))
		}
		return sig.id, nil
	}
	id := LocalID(name)
	if isHostName(id) {
		return "", errors.CompileErrorf(errors.E2001, call.Pos(),
			"function name %q is reserved for host input and output", name)
	}
	if err := c.importFunction(call, id, name, len(call.Args), 1); err != nil {
		return "", err
	}
	return id, nil
}

// importFunction declares a host import the first time id is seen. Later
// uses must pass the same number of arguments.
func (c *Compiler) importFunction(at ast.Node, id, name string, params, results int) error {
	if imp, ok := c.imports[id]; ok {
		if len(imp.Params) != params {
			return errors.CompileErrorf(errors.E2005, at.Pos(),
				"host function %q was first called with %d argument(s), not %d", name, len(imp.Params), params)
		}
		return nil
	}
	imp := &wasm.Import{
		Module:  c.hostModule,
		Name:    name,
		ID:      id,
		Params:  c.types(params),
		Results: c.types(results),
	}
	c.imports[id] = imp
	c.module.Imports = append(c.module.Imports, imp)
	return nil
}

func (c *Compiler) types(n int) []op.ValueType {
	if n == 0 {
		return nil
	}
	types := make([]op.ValueType, n)
	for i := range types {
		types[i] = c.valueType
	}
	return types
}

// intern places s in a NUL-terminated data segment and returns its offset.
// Equal strings share a segment.
func (c *Compiler) intern(s string) uint32 {
	if offset, ok := c.strings[s]; ok {
		return offset
	}
	offset := c.dataSize
	bytes := append([]byte(s), 0)
	c.module.Data = append(c.module.Data, &wasm.Data{Offset: offset, Bytes: bytes})
	c.strings[s] = offset
	c.dataSize += uint32(len(bytes))
	return offset
}

// pages returns the number of memory pages needed to hold the data segments.
func (c *Compiler) pages() uint32 {
	pages := (c.dataSize + PageSize - 1) / PageSize
	if pages == 0 {
		pages = 1
	}
	return pages
}
