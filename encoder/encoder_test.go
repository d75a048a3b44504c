package encoder

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/rockwasm/compiler"
	"github.com/deepnoodle-ai/rockwasm/errors"
	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/deepnoodle-ai/rockwasm/parser"
	"github.com/deepnoodle-ai/rockwasm/wasm"
	"github.com/stretchr/testify/require"
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func minimalModule() *wasm.Module {
	return &wasm.Module{
		Functions: []*wasm.Function{{ID: "main"}},
		Memories:  []*wasm.Memory{{ID: "memory", Min: 1}},
		Exports:   []*wasm.Export{{Name: "main", Kind: op.ExternalFunc, ID: "main"}},
	}
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	ce, ok := errors.AsCompileError(err)
	require.True(t, ok, "expected a CompileError, got %T", err)
	require.Equal(t, code, ce.Code)
}

func TestUleb128(t *testing.T) {
	tests := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xE5, 0x8E, 0x26}},
		{0xFFFFFFFF, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
	}
	for _, tt := range tests {
		b := AppendUleb128(nil, tt.value)
		require.Equal(t, tt.expected, b, "value %d", tt.value)
		v, n, err := ReadUleb128(b)
		require.NoError(t, err)
		require.Equal(t, tt.value, v)
		require.Equal(t, len(b), n)
	}
}

func TestSleb128(t *testing.T) {
	tests := []struct {
		value    int64
		expected []byte
	}{
		{0, []byte{0x00}},
		{42, []byte{0x2A}},
		{63, []byte{0x3F}},
		{64, []byte{0xC0, 0x00}},
		{-1, []byte{0x7F}},
		{-64, []byte{0x40}},
		{-65, []byte{0xBF, 0x7F}},
		{-123456, []byte{0xC0, 0xBB, 0x78}},
	}
	for _, tt := range tests {
		b := AppendSleb128(nil, tt.value)
		require.Equal(t, tt.expected, b, "value %d", tt.value)
		v, n, err := ReadSleb128(b)
		require.NoError(t, err)
		require.Equal(t, tt.value, v)
		require.Equal(t, len(b), n)
	}
}

func TestLeb128Truncated(t *testing.T) {
	_, _, err := ReadUleb128([]byte{0x80, 0x80})
	require.Error(t, err)
	_, _, err = ReadSleb128(nil)
	require.Error(t, err)
}

func TestEncodeMinimalModule(t *testing.T) {
	b, err := Encode(minimalModule())
	require.NoError(t, err)

	expected := append([]byte{}, header...)
	expected = append(expected,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type
		0x03, 0x02, 0x01, 0x00, // function
		0x05, 0x03, 0x01, 0x00, 0x01, // memory
		0x07, 0x08, 0x01, 0x04, 'm', 'a', 'i', 'n', 0x00, 0x00, // export
		0x0A, 0x04, 0x01, 0x02, 0x00, 0x0B, // code
	)
	require.Equal(t, expected, b)
}

func TestEmptyModule(t *testing.T) {
	b, err := Encode(&wasm.Module{})
	require.NoError(t, err)
	require.Equal(t, header, b)

	sections, err := Decode(b)
	require.NoError(t, err)
	require.Empty(t, sections)
}

func TestRoundTrip(t *testing.T) {
	m := minimalModule()
	m.Memories[0].Max = wasm.Pages(3)
	b, err := Encode(m)
	require.NoError(t, err)

	sections, err := Decode(b)
	require.NoError(t, err)
	var ids []op.SectionID
	for _, s := range sections {
		ids = append(ids, s.ID)
	}
	require.Equal(t, []op.SectionID{
		op.TypeSection, op.FunctionSection, op.MemorySection, op.ExportSection, op.CodeSection,
	}, ids)
	require.Equal(t, len(header), sections[0].Offset)

	mem, ok := Find(sections, op.MemorySection)
	require.True(t, ok)
	limits, err := ReadMemories(mem.Payload)
	require.NoError(t, err)
	require.Len(t, limits, 1)
	require.Equal(t, uint32(1), limits[0].Min)
	require.NotNil(t, limits[0].Max)
	require.Equal(t, uint32(3), *limits[0].Max)

	exp, ok := Find(sections, op.ExportSection)
	require.True(t, ok)
	exports, err := ReadExports(exp.Payload)
	require.NoError(t, err)
	require.Equal(t, []Export{{Name: "main", Kind: op.ExternalFunc, Index: 0}}, exports)

	_, ok = Find(sections, op.DataSection)
	require.False(t, ok)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x61})
	requireCode(t, err, errors.E3005)

	_, err = Decode([]byte{0x00, 0x61, 0x73, 0x6e, 0x01, 0x00, 0x00, 0x00})
	requireCode(t, err, errors.E3005)

	_, err = Decode([]byte{0x00, 0x61, 0x73, 0x6d, 0x02, 0x00, 0x00, 0x00})
	requireCode(t, err, errors.E3005)

	// Section claims more bytes than remain
	truncated := append(append([]byte{}, header...), 0x01, 0x05, 0x01)
	_, err = Decode(truncated)
	requireCode(t, err, errors.E3005)

	_, err = ReadMemories([]byte{0x01, 0x02, 0x01})
	requireCode(t, err, errors.E3005)

	_, err = ReadExports([]byte{0x00, 0xFF})
	requireCode(t, err, errors.E3005)
}

func TestImportsPrecedeFunctions(t *testing.T) {
	m := &wasm.Module{
		Imports: []*wasm.Import{
			{Module: "env", Name: "print", ID: "print", Params: []op.ValueType{op.I32}},
			{Module: "env", Name: "read", ID: "read", Results: []op.ValueType{op.I32}},
		},
		Functions: []*wasm.Function{
			{ID: "main", Results: []op.ValueType{op.I32}, Body: []wasm.Instr{
				&wasm.Call{ID: "read"},
				&wasm.Call{ID: "helper"},
				&wasm.Call{ID: "print"},
				&wasm.Const{Type: op.I32, Value: 0},
			}},
			{ID: "helper", Params: []wasm.Param{{ID: "x", Type: op.I32}}, Results: []op.ValueType{op.I32},
				Body: []wasm.Instr{&wasm.LocalGet{ID: "x"}}},
		},
		Exports: []*wasm.Export{{Name: "main", Kind: op.ExternalFunc, ID: "main"}},
	}
	b, err := Encode(m)
	require.NoError(t, err)
	sections, err := Decode(b)
	require.NoError(t, err)

	typ, _ := Find(sections, op.TypeSection)
	types, err := ReadTypes(typ.Payload)
	require.NoError(t, err)
	require.Equal(t, []FuncType{
		{Params: []op.ValueType{op.I32}, Results: []op.ValueType{}},
		{Params: []op.ValueType{}, Results: []op.ValueType{op.I32}},
		{Params: []op.ValueType{}, Results: []op.ValueType{op.I32}},
		{Params: []op.ValueType{op.I32}, Results: []op.ValueType{op.I32}},
	}, types)

	imp, _ := Find(sections, op.ImportSection)
	imports, err := ReadImports(imp.Payload)
	require.NoError(t, err)
	require.Equal(t, []Import{
		{Module: "env", Name: "print", Kind: op.ExternalFunc, TypeIndex: 0},
		{Module: "env", Name: "read", Kind: op.ExternalFunc, TypeIndex: 1},
	}, imports)

	fn, _ := Find(sections, op.FunctionSection)
	funcs, err := ReadFunctions(fn.Payload)
	require.NoError(t, err)
	require.Equal(t, []uint32{2, 3}, funcs)

	exp, _ := Find(sections, op.ExportSection)
	exports, err := ReadExports(exp.Payload)
	require.NoError(t, err)
	require.Equal(t, uint32(2), exports[0].Index)

	code, _ := Find(sections, op.CodeSection)
	require.Equal(t, []byte{
		0x02,                   // two bodies
		0x0A,                   // size
		0x00,                   // no locals
		0x10, 0x01, 0x10, 0x03, // call read, call helper
		0x10, 0x00, 0x41, 0x00, // call print, i32.const 0
		0x0B,
		0x04, 0x00, 0x20, 0x00, 0x0B, // helper: local.get 0
	}, code.Payload)
}

func TestBodyEncoding(t *testing.T) {
	fn := &wasm.Function{
		ID:     "f",
		Params: []wasm.Param{{ID: "n", Type: op.I32}},
		Locals: []wasm.Local{{ID: "a", Type: op.I32}, {ID: "b", Type: op.I32}, {ID: "c", Type: op.F32}},
		Body: []wasm.Instr{
			&wasm.Block{Label: "break_0", Body: []wasm.Instr{
				&wasm.Loop{Label: "continue_0", Body: []wasm.Instr{
					&wasm.LocalGet{ID: "n"},
					&wasm.Unary{Op: op.I32Eqz},
					&wasm.BrIf{Label: "break_0"},
					&wasm.If{
						Then: []wasm.Instr{&wasm.Br{Label: "continue_0"}},
						Else: []wasm.Instr{&wasm.Br{Label: "break_0"}},
					},
				}},
			}},
			&wasm.Comment{Text: "ignored"},
			&wasm.Const{Type: op.I32, Value: -2},
			&wasm.LocalTee{ID: "b"},
			&wasm.Drop{},
			&wasm.Const{Type: op.F32, Value: 1},
			&wasm.LocalSet{ID: "c"},
		},
	}
	e, err := newEncoder(&wasm.Module{Functions: []*wasm.Function{fn}})
	require.NoError(t, err)
	b, err := e.functionBody(fn)
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x02, 0x02, 0x7F, 0x01, 0x7D, // locals: 2 x i32, 1 x f32
		0x02, 0x40, // block
		0x03, 0x40, // loop
		0x20, 0x00, 0x45, 0x0D, 0x01, // local.get n, i32.eqz, br_if 1
		0x04, 0x40, 0x0C, 0x01, 0x05, 0x0C, 0x02, 0x0B, // if br 1 else br 2 end
		0x0B, 0x0B,
		0x41, 0x7E, 0x22, 0x02, 0x1A, // i32.const -2, local.tee b, drop
		0x43, 0x00, 0x00, 0x80, 0x3F, 0x21, 0x03, // f32.const 1, local.set c
		0x0B,
	}, b)
}

func TestLocalGroups(t *testing.T) {
	counts, types := localGroups([]wasm.Local{
		{ID: "a", Type: op.I32}, {ID: "b", Type: op.I32},
		{ID: "c", Type: op.F32},
		{ID: "d", Type: op.I32},
	})
	require.Equal(t, []uint32{2, 1, 1}, counts)
	require.Equal(t, []op.ValueType{op.I32, op.F32, op.I32}, types)

	counts, types = localGroups(nil)
	require.Empty(t, counts)
	require.Empty(t, types)
}

func TestDataSection(t *testing.T) {
	m := &wasm.Module{
		Memories: []*wasm.Memory{{ID: "memory", Min: 1}},
		Data: []*wasm.Data{
			{Offset: 0, Bytes: []byte("hi\x00")},
			{Offset: 200, Bytes: []byte{0x01}},
		},
	}
	b, err := Encode(m)
	require.NoError(t, err)
	sections, err := Decode(b)
	require.NoError(t, err)
	data, ok := Find(sections, op.DataSection)
	require.True(t, ok)
	require.Equal(t, []byte{
		0x02,
		0x00, 0x41, 0x00, 0x0B, 0x03, 'h', 'i', 0x00,
		0x00, 0x41, 0xC8, 0x01, 0x0B, 0x01, 0x01,
	}, data.Payload)
}

func TestUnresolvedReferences(t *testing.T) {
	tests := []struct {
		name string
		body []wasm.Instr
		code errors.ErrorCode
	}{
		{"function", []wasm.Instr{&wasm.Call{ID: "mian"}}, errors.E3001},
		{"local", []wasm.Instr{&wasm.LocalGet{ID: "y"}}, errors.E3002},
		{"label", []wasm.Instr{&wasm.Br{Label: "break_0"}}, errors.E3003},
		{"label out of scope", []wasm.Instr{
			&wasm.Block{Label: "break_0"},
			&wasm.BrIf{Label: "break_0"},
		}, errors.E3003},
		{"unlabelled if", []wasm.Instr{&wasm.If{Then: []wasm.Instr{&wasm.Br{}}}}, errors.E3003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &wasm.Module{Functions: []*wasm.Function{{
				ID:     "main",
				Locals: []wasm.Local{{ID: "x", Type: op.I32}},
				Body:   tt.body,
			}}}
			_, err := Encode(m)
			requireCode(t, err, tt.code)
		})
	}
}

func TestSuggestions(t *testing.T) {
	m := &wasm.Module{Functions: []*wasm.Function{{
		ID:   "main",
		Body: []wasm.Instr{&wasm.Call{ID: "mian"}},
	}}}
	_, err := Encode(m)
	ce, ok := errors.AsCompileError(err)
	require.True(t, ok)
	require.NotEmpty(t, ce.Suggestions)
	require.Equal(t, "main", ce.Suggestions[0].Value)
}

func TestInvalidModules(t *testing.T) {
	_, err := Encode(&wasm.Module{Functions: []*wasm.Function{{ID: "f"}, {ID: "f"}}})
	requireCode(t, err, errors.E3005)

	_, err = Encode(&wasm.Module{Memories: []*wasm.Memory{{ID: "a"}, {ID: "b"}}})
	requireCode(t, err, errors.E3005)

	_, err = Encode(&wasm.Module{Data: []*wasm.Data{{Bytes: []byte("x")}}})
	requireCode(t, err, errors.E3004)

	_, err = Encode(&wasm.Module{Exports: []*wasm.Export{{Name: "memory", Kind: op.ExternalMemory, ID: "memory"}}})
	requireCode(t, err, errors.E3004)

	_, err = Encode(&wasm.Module{Exports: []*wasm.Export{{Name: "main", Kind: op.ExternalFunc, ID: "main"}}})
	requireCode(t, err, errors.E3001)

	_, err = Encode(&wasm.Module{Functions: []*wasm.Function{{
		ID:     "f",
		Params: []wasm.Param{{ID: "x", Type: op.I32}},
		Locals: []wasm.Local{{ID: "x", Type: op.I32}},
	}}})
	requireCode(t, err, errors.E3005)
}

func TestCompiledProgram(t *testing.T) {
	program, err := parser.Parse(context.Background(), "Put 1 into X\nSay X")
	require.NoError(t, err)
	m, err := compiler.Compile(program)
	require.NoError(t, err)
	b, err := Encode(m)
	require.NoError(t, err)

	sections, err := Decode(b)
	require.NoError(t, err)

	imp, ok := Find(sections, op.ImportSection)
	require.True(t, ok)
	imports, err := ReadImports(imp.Payload)
	require.NoError(t, err)
	require.Equal(t, []Import{{Module: "env", Name: "print", Kind: op.ExternalFunc, TypeIndex: 0}}, imports)

	exp, ok := Find(sections, op.ExportSection)
	require.True(t, ok)
	exports, err := ReadExports(exp.Payload)
	require.NoError(t, err)
	require.Equal(t, []Export{
		{Name: "main", Kind: op.ExternalFunc, Index: 1},
		{Name: "memory", Kind: op.ExternalMemory, Index: 0},
	}, exports)

	mem, ok := Find(sections, op.MemorySection)
	require.True(t, ok)
	limits, err := ReadMemories(mem.Payload)
	require.NoError(t, err)
	require.Equal(t, []Limits{{Min: 1}}, limits)

	code, ok := Find(sections, op.CodeSection)
	require.True(t, ok)
	require.Equal(t, []byte{
		0x01, 0x0E,
		0x01, 0x01, 0x7F, // one i32 local
		0x41, 0x01, 0x21, 0x00, // i32.const 1, local.set x
		0x20, 0x00, 0x10, 0x00, // local.get x, call print
		0x41, 0x00, 0x0B,
	}, code.Payload)
}
