package compiler

import (
	"strings"
)

// Symbol is a source variable bound to a local slot of a function.
type Symbol struct {
	name    string
	id      string
	index   int
	isParam bool
	// isString is set while the variable holds a string offset, which
	// selects the string printer for Say.
	isString bool
}

// Name returns the source name of the variable, e.g. "my heart".
func (s *Symbol) Name() string { return s.name }

// ID returns the symbolic local id, e.g. "my_heart".
func (s *Symbol) ID() string { return s.id }

// Index returns the local slot. Parameters come first.
func (s *Symbol) Index() int { return s.index }

// IsParam reports whether the symbol is a function parameter.
func (s *Symbol) IsParam() bool { return s.isParam }

// SymbolTable tracks the variables of one function. A slot is claimed the
// first time a name is referenced. The table also remembers the most
// recently assigned variable, which is what pronouns refer to.
type SymbolTable struct {
	id            string
	symbolsByName map[string]*Symbol
	symbols       []*Symbol
	last          *Symbol
}

// NewSymbolTable returns an empty table for the function with the given id.
func NewSymbolTable(id string) *SymbolTable {
	return &SymbolTable{
		id:            id,
		symbolsByName: map[string]*Symbol{},
	}
}

// ID returns the id of the function owning the table.
func (t *SymbolTable) ID() string {
	return t.id
}

func (t *SymbolTable) claimIndex(s *Symbol) {
	s.index = len(t.symbols)
	t.symbols = append(t.symbols, s)
	t.symbolsByName[s.name] = s
}

// InsertParam adds a parameter. Parameters count as assigned, so a pronoun
// at the start of a body refers to the last parameter. It returns false if
// the name is already defined.
func (t *SymbolTable) InsertParam(name string) (*Symbol, bool) {
	if _, ok := t.symbolsByName[name]; ok {
		return nil, false
	}
	s := &Symbol{name: name, id: LocalID(name), isParam: true}
	t.claimIndex(s)
	t.last = s
	return s, true
}

// Claim returns the symbol for name, allocating the next slot if the name
// has not been referenced before.
func (t *SymbolTable) Claim(name string) *Symbol {
	if s, ok := t.symbolsByName[name]; ok {
		return s
	}
	s := &Symbol{name: name, id: LocalID(name)}
	t.claimIndex(s)
	return s
}

// Get returns the symbol with the given name, if it has been claimed.
func (t *SymbolTable) Get(name string) (*Symbol, bool) {
	s, ok := t.symbolsByName[name]
	return s, ok
}

// Assigned records s as the most recently assigned variable.
func (t *SymbolTable) Assigned(s *Symbol) {
	t.last = s
}

// Last returns the most recently assigned variable.
func (t *SymbolTable) Last() (*Symbol, bool) {
	return t.last, t.last != nil
}

// Count returns the number of claimed slots, parameters included.
func (t *SymbolTable) Count() int {
	return len(t.symbols)
}

// Symbol returns the symbol in the given slot.
func (t *SymbolTable) Symbol(index int) *Symbol {
	return t.symbols[index]
}

// Locals returns the non-parameter symbols in slot order.
func (t *SymbolTable) Locals() []*Symbol {
	var locals []*Symbol
	for _, s := range t.symbols {
		if !s.isParam {
			locals = append(locals, s)
		}
	}
	return locals
}

// AllNames returns the source names of every claimed variable.
func (t *SymbolTable) AllNames() []string {
	names := make([]string, 0, len(t.symbols))
	for _, s := range t.symbols {
		names = append(names, s.name)
	}
	return names
}

// LocalID converts a source name into a symbolic identifier by joining its
// words with underscores: "my heart" becomes "my_heart".
func LocalID(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
