package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// If f returns false, the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// Children returns the direct, non-nil children of a node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if n != nil {
				out = append(out, n)
			}
		}
	}
	addStmts := func(stmts []Stmt) {
		for _, s := range stmts {
			add(s)
		}
	}
	switch n := node.(type) {
	case *Program:
		addStmts(n.Stmts)
	case *Assign:
		add(n.Value, n.Target)
	case *CompoundAssign:
		add(n.Target, n.Value)
	case *Declare:
		add(n.Target, n.Value)
	case *FuncDecl:
		add(n.Name)
		for _, p := range n.Params {
			add(p)
		}
		addStmts(n.Body)
		add(n.Result)
	case *Say:
		add(n.Value)
	case *Listen:
		if n.Target != nil {
			add(n.Target)
		}
	case *Increment:
		add(n.Target)
	case *Decrement:
		add(n.Target)
	case *Round:
		add(n.Target)
	case *If:
		add(n.Cond)
		addStmts(n.Then)
		addStmts(n.Else)
	case *Loop:
		add(n.Cond)
		addStmts(n.Body)
	case *Binary:
		add(n.X, n.Y)
	case *Unary:
		add(n.X)
	case *Call:
		add(n.Fn)
		for _, arg := range n.Args {
			add(arg)
		}
	}
	return out
}
