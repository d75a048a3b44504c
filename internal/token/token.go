// Package token defines source positions and the reserved word tables used
// when parsing Rockstar source code.
package token

import "fmt"

// Position points to a particular location in the normalized input. It is a
// plain value: parsers pass it along and return a new one instead of
// mutating shared state.
type Position struct {
	Line   int    // 0-indexed line number
	Column int    // 0-indexed character offset within the line
	File   string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n characters on the same line.
func (p Position) Advance(n int) Position {
	return Position{Line: p.Line, Column: p.Column + n, File: p.File}
}

// NextLine returns the position of the first character of the following line.
func (p Position) NextLine() Position {
	return Position{Line: p.Line + 1, File: p.File}
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.LineNumber(), p.ColumnNumber())
	}
	return fmt.Sprintf("%d:%d", p.LineNumber(), p.ColumnNumber())
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}
