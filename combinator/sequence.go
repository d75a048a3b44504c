package combinator

import "github.com/deepnoodle-ai/rockwasm/internal/token"

// Seq2 runs pa then pb and combines their values with f. If either fails,
// the failure is returned with the position where that parser stopped.
func Seq2[A, B, R any](f func(A, B) R, pa Parser[A], pb Parser[B]) Parser[R] {
	return func(in *Input, at token.Position) Result[R] {
		a := pa(in, at)
		if a.Err != nil {
			return propagate[R](a)
		}
		b := pb(in, a.Next)
		if b.Err != nil {
			return propagate[R](b)
		}
		return succeed(f(a.Value, b.Value), b.Next)
	}
}

// Seq3 is Seq2 for three parsers.
func Seq3[A, B, C, R any](f func(A, B, C) R, pa Parser[A], pb Parser[B], pc Parser[C]) Parser[R] {
	return func(in *Input, at token.Position) Result[R] {
		a := pa(in, at)
		if a.Err != nil {
			return propagate[R](a)
		}
		b := pb(in, a.Next)
		if b.Err != nil {
			return propagate[R](b)
		}
		c := pc(in, b.Next)
		if c.Err != nil {
			return propagate[R](c)
		}
		return succeed(f(a.Value, b.Value, c.Value), c.Next)
	}
}

// Seq4 is Seq2 for four parsers.
func Seq4[A, B, C, D, R any](f func(A, B, C, D) R, pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D]) Parser[R] {
	return func(in *Input, at token.Position) Result[R] {
		a := pa(in, at)
		if a.Err != nil {
			return propagate[R](a)
		}
		b := pb(in, a.Next)
		if b.Err != nil {
			return propagate[R](b)
		}
		c := pc(in, b.Next)
		if c.Err != nil {
			return propagate[R](c)
		}
		d := pd(in, c.Next)
		if d.Err != nil {
			return propagate[R](d)
		}
		return succeed(f(a.Value, b.Value, c.Value, d.Value), d.Next)
	}
}

// Seq5 is Seq2 for five parsers.
func Seq5[A, B, C, D, E, R any](f func(A, B, C, D, E) R, pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D], pe Parser[E]) Parser[R] {
	return func(in *Input, at token.Position) Result[R] {
		a := pa(in, at)
		if a.Err != nil {
			return propagate[R](a)
		}
		b := pb(in, a.Next)
		if b.Err != nil {
			return propagate[R](b)
		}
		c := pc(in, b.Next)
		if c.Err != nil {
			return propagate[R](c)
		}
		d := pd(in, c.Next)
		if d.Err != nil {
			return propagate[R](d)
		}
		e := pe(in, d.Next)
		if e.Err != nil {
			return propagate[R](e)
		}
		return succeed(f(a.Value, b.Value, c.Value, d.Value, e.Value), e.Next)
	}
}

// Seq6 is Seq2 for six parsers.
func Seq6[A, B, C, D, E, F, R any](f func(A, B, C, D, E, F) R, pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D], pe Parser[E], pf Parser[F]) Parser[R] {
	return func(in *Input, at token.Position) Result[R] {
		a := pa(in, at)
		if a.Err != nil {
			return propagate[R](a)
		}
		b := pb(in, a.Next)
		if b.Err != nil {
			return propagate[R](b)
		}
		c := pc(in, b.Next)
		if c.Err != nil {
			return propagate[R](c)
		}
		d := pd(in, c.Next)
		if d.Err != nil {
			return propagate[R](d)
		}
		e := pe(in, d.Next)
		if e.Err != nil {
			return propagate[R](e)
		}
		g := pf(in, e.Next)
		if g.Err != nil {
			return propagate[R](g)
		}
		return succeed(f(a.Value, b.Value, c.Value, d.Value, e.Value, g.Value), g.Next)
	}
}

// Left runs both parsers and keeps the value of the first.
func Left[A, B any](pa Parser[A], pb Parser[B]) Parser[A] {
	return Seq2(func(a A, _ B) A { return a }, pa, pb)
}

// Right runs both parsers and keeps the value of the second.
func Right[A, B any](pa Parser[A], pb Parser[B]) Parser[B] {
	return Seq2(func(_ A, b B) B { return b }, pa, pb)
}

// Batch runs p and, if it fails, rewinds the cursor to where p started. The
// error is kept so that callers can still report how far p got.
func Batch[T any](p Parser[T]) Parser[T] {
	return func(in *Input, at token.Position) Result[T] {
		r := p(in, at)
		if r.Err != nil {
			return fail[T](at, r.Err)
		}
		return r
	}
}

// FailFunc is the helper handed to Map callbacks. It creates an error positioned
// at the start of the mapped token.
type FailFunc func(format string, args ...any) *Error

// Map runs p and transforms its value with f. The callback may reject a
// lexically valid value by returning an error built with fail; in that case
// the parser fails without consuming input.
func Map[T, R any](p Parser[T], f func(value T, fail FailFunc) (R, *Error)) Parser[R] {
	return func(in *Input, at token.Position) Result[R] {
		r := p(in, at)
		if r.Err != nil {
			return propagate[R](r)
		}
		failAt := func(format string, args ...any) *Error {
			return Errorf(at, format, args...)
		}
		value, err := f(r.Value, failAt)
		if err != nil {
			return fail[R](at, err)
		}
		return succeed(value, r.Next)
	}
}

// Convert runs p and transforms its value with f, which cannot fail.
func Convert[T, R any](p Parser[T], f func(T) R) Parser[R] {
	return func(in *Input, at token.Position) Result[R] {
		r := p(in, at)
		if r.Err != nil {
			return propagate[R](r)
		}
		return succeed(f(r.Value), r.Next)
	}
}

// Value runs p and replaces its value with v.
func Value[T, R any](p Parser[T], v R) Parser[R] {
	return Convert(p, func(T) R { return v })
}
