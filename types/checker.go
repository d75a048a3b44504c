package types

import (
	"fmt"

	"github.com/deepnoodle-ai/rockwasm/ast"
	"github.com/deepnoodle-ai/rockwasm/errors"
	"github.com/hashicorp/go-multierror"
)

// Checker tracks variable types along one linear sequence of statements.
// Pronouns resolve to the variable most recently declared or assigned before
// the point of use.
type Checker struct {
	vars      map[string]Type
	last      *ast.Variable
	functions map[string]*ast.FuncDecl
}

// NewChecker returns a Checker with no variables in scope.
func NewChecker() *Checker {
	return &Checker{
		vars:      map[string]Type{},
		functions: map[string]*ast.FuncDecl{},
	}
}

// Declare records a function so calls to it can be checked.
func (c *Checker) Declare(fn *ast.FuncDecl) {
	c.functions[fn.Name.Name] = fn
}

// Lookup returns the type of a variable. Variables that were never assigned
// are mysterious.
func (c *Checker) Lookup(name string) Type {
	if t, ok := c.vars[name]; ok {
		return t
	}
	return Mysterious
}

// Resolve returns the variable a pronoun refers to.
func (c *Checker) Resolve(p *ast.Pronoun) (*ast.Variable, error) {
	if c.last == nil {
		return nil, errors.CompileErrorf(errors.E2002, p.Pos(),
			"pronoun %q does not refer to any variable", p.Word)
	}
	return c.last, nil
}

func (c *Checker) target(a ast.Assignable) (*ast.Variable, error) {
	switch a := a.(type) {
	case *ast.Variable:
		return a, nil
	case *ast.Pronoun:
		return c.Resolve(a)
	}
	return nil, fmt.Errorf("unexpected assignment target %T", a)
}

// Assign records that a variable now holds a value of type t.
func (c *Checker) Assign(v *ast.Variable, t Type) {
	c.vars[v.Name] = t
	c.last = v
}

// TypeOf resolves the type of an expression in the current scope.
func (c *Checker) TypeOf(expr ast.Expr) (Type, error) {
	switch x := expr.(type) {
	case *ast.Number:
		if x.IsFloat() {
			return Float, nil
		}
		return Integer, nil
	case *ast.String:
		return String, nil
	case *ast.Boolean:
		return Boolean, nil
	case *ast.Null:
		return Null, nil
	case *ast.Mysterious:
		return Mysterious, nil
	case *ast.Variable:
		return c.Lookup(x.Name), nil
	case *ast.Pronoun:
		v, err := c.Resolve(x)
		if err != nil {
			return Unknown, err
		}
		return c.Lookup(v.Name), nil
	case *ast.Unary:
		if _, err := c.TypeOf(x.X); err != nil {
			return Unknown, err
		}
		return Boolean, nil
	case *ast.Binary:
		left, err := c.TypeOf(x.X)
		if err != nil {
			return Unknown, err
		}
		right, err := c.TypeOf(x.Y)
		if err != nil {
			return Unknown, err
		}
		t, ok := Combine(left, x.Op, right)
		if !ok {
			return Unknown, errors.CompileErrorf(errors.E2008, x.OpPos,
				"cannot %s %s and %s", x.Op, left, right)
		}
		return t, nil
	case *ast.Call:
		for _, arg := range x.Args {
			if _, err := c.TypeOf(arg); err != nil {
				return Unknown, err
			}
		}
		if fn, ok := c.functions[x.Fn.Name]; ok && len(fn.Params) != len(x.Args) {
			return Unknown, errors.CompileErrorf(errors.E2005, x.Pos(),
				"%s takes %d arguments but was given %d", fn.Name.Name, len(fn.Params), len(x.Args))
		}
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("unexpected expression %T", expr)
}

// Check checks a sequence of statements in order, updating the scope as
// variables are assigned. Every error found is returned.
func (c *Checker) Check(stmts []ast.Stmt) error {
	var result *multierror.Error
	for _, stmt := range stmts {
		if err := c.check(stmt); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (c *Checker) assign(a ast.Assignable, value ast.Expr) error {
	t, err := c.TypeOf(value)
	if err != nil {
		return err
	}
	v, err := c.target(a)
	if err != nil {
		return err
	}
	c.Assign(v, t)
	return nil
}

func (c *Checker) check(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Comment, *ast.Break, *ast.Continue:
		return nil
	case *ast.Assign:
		return c.assign(s.Target, s.Value)
	case *ast.Declare:
		return c.assign(s.Target, s.Value)
	case *ast.CompoundAssign:
		v, err := c.target(s.Target)
		if err != nil {
			return err
		}
		return c.assign(v, &ast.Binary{X: v, OpPos: s.Pos(), Op: s.Op, Y: s.Value})
	case *ast.Increment:
		return c.step(s.Target)
	case *ast.Decrement:
		return c.step(s.Target)
	case *ast.Round:
		v, err := c.target(s.Target)
		if err != nil {
			return err
		}
		if t := c.Lookup(v.Name); t != Unknown && !t.IsNumeric() {
			return errors.CompileErrorf(errors.E2008, s.Pos(), "cannot round %s %s", t, v.Name)
		}
		c.Assign(v, Float)
		return nil
	case *ast.Say:
		_, err := c.TypeOf(s.Value)
		return err
	case *ast.Listen:
		if s.Target == nil {
			return nil
		}
		v, err := c.target(s.Target)
		if err != nil {
			return err
		}
		c.Assign(v, Unknown)
		return nil
	case *ast.If:
		var result *multierror.Error
		if _, err := c.TypeOf(s.Cond); err != nil {
			result = multierror.Append(result, err)
		}
		if err := c.Check(s.Then); err != nil {
			result = multierror.Append(result, err)
		}
		if err := c.Check(s.Else); err != nil {
			result = multierror.Append(result, err)
		}
		return result.ErrorOrNil()
	case *ast.Loop:
		var result *multierror.Error
		if _, err := c.TypeOf(s.Cond); err != nil {
			result = multierror.Append(result, err)
		}
		if err := c.Check(s.Body); err != nil {
			result = multierror.Append(result, err)
		}
		return result.ErrorOrNil()
	case *ast.FuncDecl:
		return c.checkFunction(s)
	}
	return fmt.Errorf("unexpected statement %T", stmt)
}

// step checks an increment or decrement. Booleans may be flipped this way,
// numbers count, and nothing else is allowed.
func (c *Checker) step(a ast.Assignable) error {
	v, err := c.target(a)
	if err != nil {
		return err
	}
	t := c.Lookup(v.Name)
	switch t {
	case Integer, Float, Boolean, Unknown:
	case Mysterious, Null:
		t = Integer
	default:
		return errors.CompileErrorf(errors.E2008, a.Pos(), "cannot count %s %s", t, v.Name)
	}
	c.Assign(v, t)
	return nil
}

func (c *Checker) checkFunction(fn *ast.FuncDecl) error {
	inner := NewChecker()
	inner.functions = c.functions
	for _, p := range fn.Params {
		inner.Assign(p, Unknown)
	}
	var result *multierror.Error
	if err := inner.Check(fn.Body); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := inner.TypeOf(fn.Result); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// CheckProgram resolves the type of every expression in a program and
// reports all type errors found, aggregated into one error.
func CheckProgram(program *ast.Program) error {
	c := NewChecker()
	for _, stmt := range program.Stmts {
		if fn, ok := stmt.(*ast.FuncDecl); ok {
			c.Declare(fn)
		}
	}
	return c.Check(program.Stmts)
}
