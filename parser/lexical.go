package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/rockwasm/ast"
	pc "github.com/deepnoodle-ai/rockwasm/combinator"
	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

// word matches p followed by optional sentence punctuation and whitespace.
// It never consumes input when it fails.
func word[T any](p pc.Parser[T]) pc.Parser[T] {
	return pc.Batch(pc.Token(p))
}

// keyword matches a case-insensitive word or phrase.
func keyword(phrase string) pc.Parser[string] {
	return word(pc.Literal(phrase))
}

// oneOf matches the first of several phrases. List longer phrases first when
// one is a prefix of another.
func oneOf(phrases ...string) pc.Parser[string] {
	parsers := make([]pc.Parser[string], len(phrases))
	for i, phrase := range phrases {
		parsers[i] = keyword(phrase)
	}
	return pc.AnyOf(parsers...)
}

// wordsPattern builds a case-insensitive alternation of whole words.
func wordsPattern(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return `(?i:` + strings.Join(quoted, "|") + `)\b`
}

var (
	capitalizedWord = regexp.MustCompile(`^[A-Z][A-Za-z]*`)
	spaces          = regexp.MustCompile(`^\s+`)
)

// properName matches two or more capitalized words, e.g. "Doctor Feelgood".
// The run stops before the first reserved word.
func properName() pc.Parser[*ast.Variable] {
	return word[*ast.Variable](func(in *pc.Input, at token.Position) pc.Result[*ast.Variable] {
		rest := in.Rest(at)
		var words []string
		consumed := 0
		for {
			tail := rest[consumed:]
			gap := 0
			if len(words) > 0 {
				loc := spaces.FindStringIndex(tail)
				if loc == nil {
					break
				}
				gap = loc[1]
			}
			w := capitalizedWord.FindString(tail[gap:])
			if w == "" || token.IsKeyword(w) {
				break
			}
			words = append(words, capitalize(w))
			consumed += gap + len(w)
		}
		if len(words) < 2 {
			return pc.Result[*ast.Variable]{Next: at, Err: pc.Errorf(at, "expected proper name")}
		}
		v := &ast.Variable{NamePos: at, Name: strings.Join(words, " "), Kind: ast.ProperName}
		return pc.Result[*ast.Variable]{Value: v, Next: at.Advance(consumed)}
	})
}

func capitalize(w string) string {
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

// commonName matches an article or possessive followed by a lowercase word,
// e.g. "my heart".
func commonName() pc.Parser[*ast.Variable] {
	prefixes := wordsPattern(token.CommonPrefixes)
	return word(pc.Seq2(func(at token.Position, v *ast.Variable) *ast.Variable {
		v.NamePos = at
		return v
	}, pc.At(), pc.Map(pc.Regex("common name", `(`+prefixes+`)\s+([a-z]+)`),
		func(m []string, fail pc.FailFunc) (*ast.Variable, *pc.Error) {
			if token.IsKeyword(m[2]) {
				return nil, fail("reserved word %q cannot be used as a name", m[2])
			}
			name := strings.ToLower(m[1]) + " " + m[2]
			return &ast.Variable{Name: name, Kind: ast.CommonName}, nil
		})))
}

// simpleName matches a single word, e.g. "Tommy" or "tommy".
func simpleName() pc.Parser[*ast.Variable] {
	return word(pc.Seq2(func(at token.Position, v *ast.Variable) *ast.Variable {
		v.NamePos = at
		return v
	}, pc.At(), pc.Map(pc.Match("identifier", `[A-Za-z][a-z]*`),
		func(name string, fail pc.FailFunc) (*ast.Variable, *pc.Error) {
			if token.IsKeyword(name) {
				return nil, fail("reserved word %q cannot be used as a name", name)
			}
			return &ast.Variable{Name: strings.ToLower(name), Kind: ast.SimpleName}, nil
		})))
}

// variable matches a name in any of the three naming conventions, tried in
// the order proper, common, simple.
func variable() pc.Parser[*ast.Variable] {
	return pc.AnyOf(properName(), commonName(), simpleName())
}

func pronoun() pc.Parser[*ast.Pronoun] {
	return word(pc.Seq2(func(at token.Position, w string) *ast.Pronoun {
		return &ast.Pronoun{WordPos: at, Word: strings.ToLower(w)}
	}, pc.At(), pc.Match("pronoun", wordsPattern(token.PronounWords))))
}

// assignable matches the target of an assignment.
func assignable() pc.Parser[ast.Assignable] {
	return pc.AnyOf(
		pc.Convert(variable(), func(v *ast.Variable) ast.Assignable { return v }),
		pc.Convert(pronoun(), func(p *ast.Pronoun) ast.Assignable { return p }),
	)
}

func numberLiteral() pc.Parser[ast.Expr] {
	return word(pc.Seq2(func(at token.Position, n *ast.Number) ast.Expr {
		n.ValuePos = at
		return n
	}, pc.At(), pc.Map(pc.Match("number", `-?[0-9]+(?:\.[0-9]+)?`),
		func(text string, fail pc.FailFunc) (*ast.Number, *pc.Error) {
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fail("invalid number %q", text)
			}
			return &ast.Number{Literal: text, Value: value}, nil
		})))
}

// stringLiteral matches a double-quoted string. There are no escapes. An
// opening quote without a closing one on the same line is a hard error.
func stringLiteral() pc.Parser[ast.Expr] {
	quoted := word(pc.Seq2(func(at token.Position, s string) ast.Expr {
		return &ast.String{ValuePos: at, Value: s}
	}, pc.At(), pc.Between(`"`, `"`)))
	return func(in *pc.Input, at token.Position) pc.Result[ast.Expr] {
		r := quoted(in, at)
		if r.Err != nil && strings.HasPrefix(in.Rest(at), `"`) && !strings.Contains(in.Rest(at)[1:], `"`) {
			return pc.Result[ast.Expr]{Next: at.Advance(1), Err: pc.Errorf(at, msgUnterminatedString)}
		}
		return r
	}
}

func wordLiteral(words []string, build func(at token.Position, w string) ast.Expr) pc.Parser[ast.Expr] {
	return word(pc.Seq2(build, pc.At(), pc.Match("literal", wordsPattern(words))))
}

// literal matches a number, string, boolean, null or mysterious constant.
func literal() pc.Parser[ast.Expr] {
	return pc.AnyOf(
		numberLiteral(),
		stringLiteral(),
		wordLiteral(token.TrueWords, func(at token.Position, w string) ast.Expr {
			return &ast.Boolean{ValuePos: at, Literal: w, Value: true}
		}),
		wordLiteral(token.FalseWords, func(at token.Position, w string) ast.Expr {
			return &ast.Boolean{ValuePos: at, Literal: w, Value: false}
		}),
		wordLiteral(token.NullWords, func(at token.Position, w string) ast.Expr {
			return &ast.Null{ValuePos: at, Literal: w}
		}),
		wordLiteral(token.MysteriousWords, func(at token.Position, _ string) ast.Expr {
			return &ast.Mysterious{ValuePos: at}
		}),
	)
}

// statementEnd consumes trailing punctuation and the end of the line.
func statementEnd() pc.Parser[string] {
	return pc.Right(pc.Match("punctuation", `[\s.,;:!?]*`), pc.EndOfLine())
}

// blockEnd matches the blank line or end of input that closes a block.
func blockEnd() pc.Parser[string] {
	return pc.AnyOf(pc.BlankLine(), pc.EndOfInput())
}
