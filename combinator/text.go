package combinator

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/deepnoodle-ai/rockwasm/internal/token"
)

const (
	sentencePunctuation = ".!?;:"
	delimiters          = ",&\"()"
)

// Regex matches pattern at the cursor and returns the match followed by its
// capture groups. The name is used in error messages.
func Regex(name, pattern string) Parser[[]string] {
	re := regexp.MustCompile(`^(?:` + pattern + `)`)
	return func(in *Input, at token.Position) Result[[]string] {
		if in.AtEnd(at) {
			return fail[[]string](at, Errorf(at, "expected %s, found end of input", name))
		}
		m := re.FindStringSubmatch(in.Rest(at))
		if m == nil {
			return fail[[]string](at, Errorf(at, "expected %s", name))
		}
		return succeed(m, at.Advance(len(m[0])))
	}
}

// Match is Regex returning only the matched text.
func Match(name, pattern string) Parser[string] {
	return Convert(Regex(name, pattern), func(m []string) string { return m[0] })
}

// Literal matches a word or phrase, ignoring case. Words in the phrase may be
// separated by any amount of whitespace in the input, and the phrase must not
// be followed directly by a letter or digit.
func Literal(phrase string) Parser[string] {
	words := strings.Fields(phrase)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`^(?i:` + strings.Join(quoted, `\s+`) + `)`)
	return func(in *Input, at token.Position) Result[string] {
		rest := in.Rest(at)
		loc := re.FindStringIndex(rest)
		if in.AtEnd(at) || loc == nil || continuesWord(rest[loc[1]:]) {
			return fail[string](at, Errorf(at, "expected %q", phrase))
		}
		return succeed(rest[:loc[1]], at.Advance(loc[1]))
	}
}

func continuesWord(rest string) bool {
	if rest == "" {
		return false
	}
	r := rune(rest[0])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Whitespace matches one or more whitespace characters.
func Whitespace() Parser[string] {
	return Match("whitespace", `\s+`)
}

// OptionalWhitespace matches zero or more whitespace characters.
func OptionalWhitespace() Parser[string] {
	return Match("whitespace", `\s*`)
}

// Between matches text enclosed by start and end and returns the text
// between them.
func Between(start, end string) Parser[string] {
	return func(in *Input, at token.Position) Result[string] {
		rest := in.Rest(at)
		if !strings.HasPrefix(rest, start) {
			return fail[string](at, Errorf(at, "expected %q", start))
		}
		inner := rest[len(start):]
		idx := strings.Index(inner, end)
		if idx < 0 {
			return fail[string](at, Errorf(at, "missing closing %q", end))
		}
		return succeed(inner[:idx], at.Advance(len(start)+idx+len(end)))
	}
}

// Punctuation matches the boundary after a word: optional sentence
// punctuation followed by whitespace, the end of the line, or a delimiter
// such as a comma. Delimiters are not consumed.
func Punctuation() Parser[string] {
	return func(in *Input, at token.Position) Result[string] {
		rest := in.Rest(at)
		i := 0
		for i < len(rest) && strings.IndexByte(sentencePunctuation, rest[i]) >= 0 {
			i++
		}
		j := i
		for j < len(rest) && unicode.IsSpace(rune(rest[j])) {
			j++
		}
		if j == len(rest) || j > 0 || strings.IndexByte(delimiters, rest[j]) >= 0 {
			return succeed(rest[:j], at.Advance(j))
		}
		return fail[string](at, Errorf(at, "expected end of word"))
	}
}

// Token makes p a delimited token by appending Punctuation.
func Token[T any](p Parser[T]) Parser[T] {
	return Left(p, Punctuation())
}

// EndOfLine succeeds when the rest of the current line is empty and moves
// the cursor to the start of the next line.
func EndOfLine() Parser[string] {
	return func(in *Input, at token.Position) Result[string] {
		if in.AtEnd(at) {
			return fail[string](at, Errorf(at, "expected end of line, found end of input"))
		}
		if rest := in.Rest(at); rest != "" {
			return fail[string](at, Errorf(at, "unexpected %q", rest))
		}
		return succeed("", at.NextLine())
	}
}

// BlankLine matches an empty line.
func BlankLine() Parser[string] {
	return func(in *Input, at token.Position) Result[string] {
		line, ok := in.Line(at.Line)
		if !ok || at.Column != 0 || line != "" {
			return fail[string](at, Errorf(at, "expected blank line"))
		}
		return succeed("", at.NextLine())
	}
}

// EndOfInput succeeds only when the cursor is past the last line.
func EndOfInput() Parser[string] {
	return func(in *Input, at token.Position) Result[string] {
		if !in.AtEnd(at) {
			return fail[string](at, Errorf(at, "expected end of input"))
		}
		return succeed("", at)
	}
}

// RestOfLine returns the unconsumed text of the current line and moves the
// cursor to its end.
func RestOfLine() Parser[string] {
	return func(in *Input, at token.Position) Result[string] {
		if in.AtEnd(at) {
			return fail[string](at, Errorf(at, "expected text, found end of input"))
		}
		rest := in.Rest(at)
		return succeed(rest, at.Advance(len(rest)))
	}
}
