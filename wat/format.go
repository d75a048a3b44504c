package wat

import (
	"strings"

	"github.com/deepnoodle-ai/rockwasm/wasm"
)

// Policy selects how lists are laid out.
type Policy int

const (
	// SingleLine prints everything on one line.
	SingleLine Policy = iota

	// Indented breaks every list that contains other lists, putting each
	// child on its own indented line. Param and result lists stay on the
	// header line of their function, and import, export and data entries
	// are always kept on one line.
	Indented
)

func (p Policy) String() string {
	if p == Indented {
		return "indented"
	}
	return "single-line"
}

// DefaultIndent is the indentation unit used by Format.
const DefaultIndent = "  "

// Printer formats nested lists.
type Printer struct {
	Policy Policy
	Indent string
}

// Format renders n with the given policy and the default indentation.
func Format(n Node, policy Policy) string {
	p := &Printer{Policy: policy, Indent: DefaultIndent}
	return p.Format(n)
}

// Text builds and formats a module.
func Text(m *wasm.Module, policy Policy) string {
	return Format(Build(m), policy)
}

// Format renders n.
func (p *Printer) Format(n Node) string {
	var b strings.Builder
	if p.Policy == Indented {
		p.indented(&b, n, 0)
	} else {
		p.inline(&b, n)
	}
	return b.String()
}

func (p *Printer) inline(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case Atom:
		b.WriteString(string(n))
	case List:
		b.WriteString("(")
		for i, child := range compact(n) {
			if i > 0 {
				b.WriteString(" ")
			}
			p.inline(b, child)
		}
		b.WriteString(")")
	}
}

var alwaysInline = map[string]bool{
	"import": true,
	"export": true,
	"data":   true,
}

// headerList reports whether a child list stays on its parent's header line.
func headerList(n Node) bool {
	l, ok := n.(List)
	if !ok {
		return false
	}
	head := l.Head()
	return head == "param" || head == "result"
}

func breaks(items List) bool {
	if alwaysInline[items.Head()] {
		return false
	}
	for _, n := range items {
		if _, ok := n.(List); ok {
			return true
		}
	}
	return false
}

func (p *Printer) indented(b *strings.Builder, n Node, depth int) {
	items, ok := n.(List)
	if !ok {
		p.inline(b, n)
		return
	}
	items = compact(items)
	if !breaks(items) {
		p.inline(b, items)
		return
	}

	// The header holds the leading atoms and any param or result lists
	// that follow them.
	header := leadingAtoms(items)
	for header < len(items) && headerList(items[header]) {
		header++
	}

	b.WriteString("(")
	for i, child := range items[:header] {
		if i > 0 {
			b.WriteString(" ")
		}
		p.inline(b, child)
	}
	for _, child := range items[header:] {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(p.Indent, depth+1))
		p.indented(b, child, depth+1)
	}
	b.WriteString(")")
}

// leadingAtoms counts the atoms before the first list.
func leadingAtoms(items List) int {
	for i, n := range items {
		if _, ok := n.(List); ok {
			return i
		}
	}
	return len(items)
}
