package combinator

import "github.com/deepnoodle-ai/rockwasm/internal/token"

// AnyOf tries each parser in order and returns the first success. A parser
// that fails after consuming input ends the search with its error. When every
// alternative fails without consuming input, the error that got furthest
// into the input is reported.
func AnyOf[T any](parsers ...Parser[T]) Parser[T] {
	return func(in *Input, at token.Position) Result[T] {
		var best *Error
		for _, p := range parsers {
			r := p(in, at)
			if r.Err == nil {
				return r
			}
			if r.Next != at {
				return r
			}
			if best == nil || best.Pos.Before(r.Err.Pos) {
				best = r.Err
			}
		}
		if best == nil {
			best = Errorf(at, "no alternatives")
		}
		return fail[T](at, best)
	}
}

// Optional runs p. If p fails, Optional succeeds with nil and the cursor
// rewound to where it started.
func Optional[T any](p Parser[T]) Parser[*T] {
	return func(in *Input, at token.Position) Result[*T] {
		r := p(in, at)
		if r.Err != nil {
			return succeed[*T](nil, at)
		}
		value := r.Value
		return succeed(&value, r.Next)
	}
}

// ZeroOrMany applies p repeatedly until it fails without consuming input or
// stops advancing the cursor. A failure after consuming input is returned.
func ZeroOrMany[T any](p Parser[T]) Parser[[]T] {
	return func(in *Input, at token.Position) Result[[]T] {
		var values []T
		cur := at
		for {
			r := p(in, cur)
			if r.Err != nil {
				if r.Next != cur {
					return propagate[[]T](r)
				}
				break
			}
			if r.Next == cur {
				break
			}
			values = append(values, r.Value)
			cur = r.Next
		}
		return succeed(values, cur)
	}
}

// OneOrMany is like ZeroOrMany but requires p to succeed at least once.
func OneOrMany[T any](p Parser[T]) Parser[[]T] {
	rest := ZeroOrMany(p)
	return func(in *Input, at token.Position) Result[[]T] {
		first := p(in, at)
		if first.Err != nil {
			return propagate[[]T](first)
		}
		r := rest(in, first.Next)
		if r.Err != nil {
			return r
		}
		return succeed(append([]T{first.Value}, r.Value...), r.Next)
	}
}

// SeparatedBy parses one or more p separated by sep. A separator that is not
// followed by p is not consumed.
func SeparatedBy[T, S any](p Parser[T], sep Parser[S]) Parser[[]T] {
	return Seq2(func(first T, rest []T) []T {
		return append([]T{first}, rest...)
	}, p, ZeroOrMany(Batch(Right(sep, p))))
}
