package encoder

import (
	"bytes"

	"github.com/deepnoodle-ai/rockwasm/errors"
	"github.com/deepnoodle-ai/rockwasm/op"
)

// Section is one framed section of a binary module.
type Section struct {
	ID      op.SectionID
	Offset  int // offset of the section id byte
	Payload []byte
}

// Limits are the page limits of a memory. Max is nil when unbounded.
type Limits struct {
	Min uint32
	Max *uint32
}

// FuncType is an entry of the type section.
type FuncType struct {
	Params  []op.ValueType
	Results []op.ValueType
}

// Import is an entry of the import section.
type Import struct {
	Module    string
	Name      string
	Kind      op.ExternalKind
	TypeIndex uint32
}

// Export is an entry of the export section.
type Export struct {
	Name  string
	Kind  op.ExternalKind
	Index uint32
}

func malformed(format string, args ...any) error {
	return errors.EncodeErrorf(errors.E3005, "malformed module: "+format, args...)
}

// Decode checks the header of a binary module and splits the rest into
// sections. Section contents are not interpreted.
func Decode(b []byte) ([]Section, error) {
	header := []byte(op.Magic + op.Version)
	if len(b) < len(header) {
		return nil, malformed("%d bytes is too short for a header", len(b))
	}
	if !bytes.Equal(b[:4], header[:4]) {
		return nil, malformed("bad magic number % x", b[:4])
	}
	if !bytes.Equal(b[4:8], header[4:]) {
		return nil, malformed("unsupported version % x", b[4:8])
	}
	var sections []Section
	r := &reader{b: b, pos: len(header)}
	for !r.done() {
		offset := r.pos
		id, err := r.byte()
		if err != nil {
			return nil, err
		}
		size, err := r.u32()
		if err != nil {
			return nil, err
		}
		payload, err := r.bytes(int(size))
		if err != nil {
			return nil, malformed("section %s at offset %d: %v", op.SectionID(id), offset, err)
		}
		sections = append(sections, Section{ID: op.SectionID(id), Offset: offset, Payload: payload})
	}
	return sections, nil
}

// Find returns the first section with the given id.
func Find(sections []Section, id op.SectionID) (Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// ReadTypes decodes the payload of a type section.
func ReadTypes(payload []byte) ([]FuncType, error) {
	return readPayload(payload, func(r *reader) (FuncType, error) {
		form, err := r.byte()
		if err != nil {
			return FuncType{}, err
		}
		if form != op.FuncType {
			return FuncType{}, malformed("expected function type 0x%02x, found 0x%02x", op.FuncType, form)
		}
		params, err := readVec(r, readValueType)
		if err != nil {
			return FuncType{}, err
		}
		results, err := readVec(r, readValueType)
		if err != nil {
			return FuncType{}, err
		}
		return FuncType{Params: params, Results: results}, nil
	})
}

// ReadImports decodes the payload of an import section. Only function
// imports are supported.
func ReadImports(payload []byte) ([]Import, error) {
	return readPayload(payload, func(r *reader) (Import, error) {
		var imp Import
		var err error
		if imp.Module, err = r.name(); err != nil {
			return imp, err
		}
		if imp.Name, err = r.name(); err != nil {
			return imp, err
		}
		kind, err := r.byte()
		if err != nil {
			return imp, err
		}
		imp.Kind = op.ExternalKind(kind)
		if imp.Kind != op.ExternalFunc {
			return imp, malformed("import %q.%q has unsupported kind %s", imp.Module, imp.Name, imp.Kind)
		}
		imp.TypeIndex, err = r.u32()
		return imp, err
	})
}

// ReadMemories decodes the payload of a memory section.
func ReadMemories(payload []byte) ([]Limits, error) {
	return readPayload(payload, func(r *reader) (Limits, error) {
		var l Limits
		flag, err := r.byte()
		if err != nil {
			return l, err
		}
		if l.Min, err = r.u32(); err != nil {
			return l, err
		}
		switch flag {
		case op.LimitsMin:
		case op.LimitsRange:
			max, err := r.u32()
			if err != nil {
				return l, err
			}
			l.Max = &max
		default:
			return l, malformed("unknown limits flag 0x%02x", flag)
		}
		return l, nil
	})
}

// ReadExports decodes the payload of an export section.
func ReadExports(payload []byte) ([]Export, error) {
	return readPayload(payload, func(r *reader) (Export, error) {
		var exp Export
		var err error
		if exp.Name, err = r.name(); err != nil {
			return exp, err
		}
		kind, err := r.byte()
		if err != nil {
			return exp, err
		}
		exp.Kind = op.ExternalKind(kind)
		exp.Index, err = r.u32()
		return exp, err
	})
}

// ReadFunctions decodes the payload of a function section: the type index
// of each module function.
func ReadFunctions(payload []byte) ([]uint32, error) {
	return readPayload(payload, func(r *reader) (uint32, error) {
		return r.u32()
	})
}

func readValueType(r *reader) (op.ValueType, error) {
	b, err := r.byte()
	if err != nil {
		return 0, err
	}
	t := op.ValueType(b)
	switch t {
	case op.I32, op.I64, op.F32, op.F64:
		return t, nil
	}
	return 0, malformed("unknown value type 0x%02x", b)
}

func readVec[T any](r *reader, item func(*reader) (T, error)) ([]T, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := item(r)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// readPayload decodes a whole section payload as a vector.
func readPayload[T any](payload []byte, item func(*reader) (T, error)) ([]T, error) {
	r := &reader{b: payload}
	items, err := readVec(r, item)
	if err != nil {
		return nil, err
	}
	if !r.done() {
		return nil, malformed("%d unexpected trailing bytes", len(r.b)-r.pos)
	}
	return items, nil
}

// reader walks a byte slice.
type reader struct {
	b   []byte
	pos int
}

func (r *reader) done() bool {
	return r.pos >= len(r.b)
}

func (r *reader) byte() (byte, error) {
	if r.done() {
		return 0, malformed("unexpected end of input at offset %d", r.pos)
	}
	c := r.b[r.pos]
	r.pos++
	return c, nil
}

func (r *reader) u32() (uint32, error) {
	v, n, err := ReadUleb128(r.b[r.pos:])
	if err != nil {
		return 0, malformed("offset %d: %v", r.pos, err)
	}
	if v > 0xFFFFFFFF {
		return 0, malformed("offset %d: value %d overflows 32 bits", r.pos, v)
	}
	r.pos += n
	return uint32(v), nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.b) {
		return nil, malformed("need %d bytes at offset %d, have %d", n, r.pos, len(r.b)-r.pos)
	}
	b := r.b[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) name() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
