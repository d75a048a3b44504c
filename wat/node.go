// Package wat renders a module AST in the WebAssembly text format.
//
// Rendering happens in two steps. Build converts a module into a nested-list
// form that mirrors the s-expression grammar of the text format. Format then
// prints that form on one line or indented.
package wat

import (
	"fmt"
	"strings"
)

// Node is an element of the nested-list form: an Atom or a List.
type Node interface {
	node()
}

// Atom is a leaf rendered verbatim, e.g. "func", "$main" or "i32.const 5".
type Atom string

func (Atom) node() {}

// List is a parenthesized sequence of nodes. Nil elements are skipped when
// the list is rendered.
type List []Node

func (List) node() {}

// Head returns the first atom of the list, or "".
func (l List) Head() string {
	for _, n := range l {
		if n == nil {
			continue
		}
		if a, ok := n.(Atom); ok {
			return string(a)
		}
		return ""
	}
	return ""
}

// L builds a list, dropping nil elements so optional fields disappear.
func L(items ...Node) List {
	return compact(items)
}

func compact(items []Node) List {
	out := make(List, 0, len(items))
	for _, n := range items {
		if n == nil {
			continue
		}
		if l, ok := n.(List); ok && l == nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Quote returns b as a text format string literal. Printable ASCII is kept
// and every other byte is written as a two digit hex escape.
func Quote(b []byte) Atom {
	var out strings.Builder
	out.WriteByte('"')
	for _, c := range b {
		switch {
		case c == '"' || c == '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		case c >= 0x20 && c < 0x7F:
			out.WriteByte(c)
		default:
			fmt.Fprintf(&out, "\\%02x", c)
		}
	}
	out.WriteByte('"')
	return Atom(out.String())
}

// QuoteString is Quote for a string.
func QuoteString(s string) Atom {
	return Quote([]byte(s))
}

// Comment returns a block comment atom. Delimiters inside the text are
// broken up so the comment cannot end early.
func Comment(text string) Atom {
	text = strings.ReplaceAll(text, ";)", "; )")
	text = strings.ReplaceAll(text, "(;", "( ;")
	return Atom("(; " + text + " ;)")
}
