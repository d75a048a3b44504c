package combinator

import (
	"testing"

	"github.com/deepnoodle-ai/rockwasm/internal/token"
	"github.com/stretchr/testify/require"
)

func pos(line, col int) token.Position {
	return token.Position{Line: line, Column: col}
}

func word(w string) Parser[string] {
	return Token(Literal(w))
}

func TestInputTrimsLines(t *testing.T) {
	in := NewInput("  Say 1  \r\n\n\tSay 2", "")
	require.Equal(t, 3, in.LineCount())
	line, ok := in.Line(0)
	require.True(t, ok)
	require.Equal(t, "Say 1", line)
	line, _ = in.Line(1)
	require.Equal(t, "", line)
	require.Equal(t, "1", in.Rest(pos(0, 4)))
	require.True(t, in.AtEnd(pos(3, 0)))
	require.Equal(t, 0, NewInput("", "").LineCount())
}

func TestLiteralIsCaseInsensitiveAndDelimited(t *testing.T) {
	in := NewInput("PUT it", "")
	r := word("put")(in, in.Start())
	require.True(t, r.Ok())
	require.Equal(t, "PUT", r.Value)
	require.Equal(t, pos(0, 4), r.Next)

	in = NewInput("Putting", "")
	r = word("put")(in, in.Start())
	require.False(t, r.Ok())
	require.Equal(t, pos(0, 0), r.Next)

	in = NewInput("is   higher than", "")
	r = word("is higher than")(in, in.Start())
	require.True(t, r.Ok())
	require.Equal(t, pos(0, 16), r.Next)
}

func TestSequenceLeavesCursorAtFailure(t *testing.T) {
	in := NewInput("let x go", "")
	p := Seq3(func(a, b, c string) string { return a + b + c },
		word("let"), word("x"), word("be"))
	r := p(in, in.Start())
	require.False(t, r.Ok())
	require.Equal(t, pos(0, 6), r.Next)
	require.Equal(t, pos(0, 6), r.Err.Pos)
}

func TestBatchRewindsOnFailure(t *testing.T) {
	in := NewInput("let x go", "")
	p := Batch(Seq3(func(a, b, c string) string { return a + b + c },
		word("let"), word("x"), word("be")))
	r := p(in, in.Start())
	require.False(t, r.Ok())
	require.Equal(t, pos(0, 0), r.Next)
	// The error still points at the word that did not match
	require.Equal(t, pos(0, 6), r.Err.Pos)
}

func TestAnyOfStopsAtConsumingFailure(t *testing.T) {
	in := NewInput("let x go", "")
	letBe := Seq3(func(a, b, c string) string { return "be" }, word("let"), word("x"), word("be"))
	letGo := Seq3(func(a, b, c string) string { return "go" }, word("let"), word("x"), word("go"))

	r := AnyOf(letBe, letGo)(in, in.Start())
	require.False(t, r.Ok())
	require.Equal(t, pos(0, 6), r.Next)

	r = AnyOf(Batch(letBe), letGo)(in, in.Start())
	require.True(t, r.Ok())
	require.Equal(t, "go", r.Value)
}

func TestAnyOfReportsFurthestError(t *testing.T) {
	in := NewInput("let x go", "")
	letBe := Batch(Seq3(func(a, b, c string) string { return "be" }, word("let"), word("x"), word("be")))
	r := AnyOf(word("put"), letBe, word("say"))(in, in.Start())
	require.False(t, r.Ok())
	require.Equal(t, pos(0, 0), r.Next)
	require.Equal(t, pos(0, 6), r.Err.Pos)
	require.Equal(t, `expected "be"`, r.Err.Message)
}

func TestMapRejectsWithoutConsuming(t *testing.T) {
	in := NewInput("put", "")
	ident := Map(Token(Match("word", `[a-z]+`)), func(w string, fail FailFunc) (string, *Error) {
		if w == "put" {
			return "", fail("%q is reserved", w)
		}
		return w, nil
	})
	r := ident(in, in.Start())
	require.False(t, r.Ok())
	require.Equal(t, pos(0, 0), r.Next)
	require.Equal(t, "line 1, offset 0: \"put\" is reserved", r.Err.Error())
}

func TestRepetition(t *testing.T) {
	in := NewInput("up, up, up down", "")
	ups := ZeroOrMany(Left(word("up"), Optional(Match("comma", `,\s*`))))
	r := ups(in, in.Start())
	require.True(t, r.Ok())
	require.Len(t, r.Value, 3)
	require.Equal(t, pos(0, 11), r.Next)

	r = OneOrMany(word("down"))(in, in.Start())
	require.False(t, r.Ok())

	r = ZeroOrMany(word("down"))(in, in.Start())
	require.True(t, r.Ok())
	require.Empty(t, r.Value)
	require.Equal(t, pos(0, 0), r.Next)
}

func TestZeroOrManyPropagatesHardErrors(t *testing.T) {
	in := NewInput("let x let y", "")
	pair := Seq2(func(a, b string) string { return b }, word("let"), word("x"))
	r := ZeroOrMany(pair)(in, in.Start())
	require.False(t, r.Ok())
	require.Equal(t, pos(0, 10), r.Next)
}

func TestOptional(t *testing.T) {
	in := NewInput("say it", "")
	r := Optional(word("shout"))(in, in.Start())
	require.True(t, r.Ok())
	require.Nil(t, r.Value)
	require.Equal(t, pos(0, 0), r.Next)

	r = Optional(word("say"))(in, in.Start())
	require.True(t, r.Ok())
	require.Equal(t, "say", *r.Value)
}

func TestBetween(t *testing.T) {
	in := NewInput("(a comment) x", "")
	r := Between("(", ")")(in, in.Start())
	require.True(t, r.Ok())
	require.Equal(t, "a comment", r.Value)
	require.Equal(t, pos(0, 11), r.Next)

	in = NewInput("(unterminated", "")
	r = Between("(", ")")(in, in.Start())
	require.False(t, r.Ok())
	require.Equal(t, `missing closing ")"`, r.Err.Message)
}

func TestPunctuation(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		next  int
	}{
		{"", true, 0},
		{"  x", true, 2},
		{". x", true, 2},
		{"!", true, 1},
		{", y", true, 0},
		{"x", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			in := NewInput("w"+tt.input, "")
			r := Punctuation()(in, pos(0, 1))
			require.Equal(t, tt.ok, r.Ok())
			if tt.ok {
				require.Equal(t, pos(0, 1+tt.next), r.Next)
			}
		})
	}
}

func TestLineStructure(t *testing.T) {
	in := NewInput("say\n\nsay", "")
	line := Left(word("say"), EndOfLine())
	block := Seq3(func(a, b, c string) string { return a + c }, line, BlankLine(), line)
	r := Left(block, EndOfInput())(in, in.Start())
	require.True(t, r.Ok())
	require.Equal(t, "saysay", r.Value)
	require.Equal(t, pos(3, 0), r.Next)

	r = EndOfLine()(in, pos(0, 0))
	require.False(t, r.Ok())
	require.Equal(t, `unexpected "say"`, r.Err.Message)
}

func TestSeparatedBy(t *testing.T) {
	in := NewInput("a, b, c,", "")
	p := SeparatedBy(Token(Match("letter", `[a-z]`)), Match("comma", `,\s*`))
	r := p(in, in.Start())
	require.True(t, r.Ok())
	require.Equal(t, []string{"a", "b", "c"}, r.Value)
	require.Equal(t, pos(0, 7), r.Next)
}

func TestLazyAllowsRecursion(t *testing.T) {
	var nested Parser[int]
	nested = AnyOf(
		Seq3(func(_ string, n int, _ string) int { return n + 1 },
			Match("open", `\(`), Lazy(func() Parser[int] { return nested }), Match("close", `\)`)),
		Value(Match("x", `x`), 0),
	)
	in := NewInput("((x))", "")
	r := nested(in, in.Start())
	require.True(t, r.Ok())
	require.Equal(t, 2, r.Value)
}

func TestAtRecordsPosition(t *testing.T) {
	in := NewInput("Say it", "")
	p := Right(word("say"), At())
	r := p(in, in.Start())
	require.True(t, r.Ok())
	require.Equal(t, pos(0, 4), r.Value)
	require.Equal(t, pos(0, 4), r.Next)
}
