package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/rockwasm/ast"
	pc "github.com/deepnoodle-ai/rockwasm/combinator"
	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

var poeticNoise = regexp.MustCompile(`[^A-Za-z0-9\s.\-]`)

// DecodePoeticNumber converts the words of a poetic number literal to their
// digits. Each word contributes its length modulo 10; the first "." is the
// decimal point and any later one separates words. It reports false when the
// text yields no digits.
func DecodePoeticNumber(text string) (string, bool) {
	if i := strings.Index(text, "."); i >= 0 {
		text = text[:i] + " . " + strings.ReplaceAll(text[i+1:], ".", " ")
	}
	text = poeticNoise.ReplaceAllString(text, "")
	var digits strings.Builder
	found := false
	for _, w := range strings.Fields(text) {
		if w == "." {
			digits.WriteByte('.')
			continue
		}
		digits.WriteByte(byte('0' + len(w)%10))
		found = true
	}
	return digits.String(), found
}

// poeticNumber decodes the rest of the line as a poetic number.
func poeticNumber() pc.Parser[ast.Expr] {
	return pc.Seq2(func(at token.Position, n *ast.Number) ast.Expr {
		n.ValuePos = at
		return n
	}, pc.At(), pc.Map(pc.RestOfLine(), func(text string, fail pc.FailFunc) (*ast.Number, *pc.Error) {
		digits, ok := DecodePoeticNumber(text)
		if !ok {
			return nil, fail(msgPoeticNumber)
		}
		value, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return nil, fail("invalid number %q", digits)
		}
		return &ast.Number{Literal: digits, Value: value}, nil
	}))
}

// poeticString takes the rest of the line verbatim.
func poeticString() pc.Parser[ast.Expr] {
	return pc.Seq2(func(at token.Position, text string) ast.Expr {
		return &ast.String{ValuePos: at, Value: text}
	}, pc.At(), pc.RestOfLine())
}
