package ast

// Dump converts a node to plain maps and slices suitable for JSON encoding.
// Every node becomes an object with a "node" field naming its kind and a
// "line" field holding its 1-indexed source line. A nil node dumps as nil.
func Dump(node Node) any {
	if node == nil {
		return nil
	}
	out := map[string]any{}
	switch n := node.(type) {
	case *Program:
		out["node"] = "program"
		out["statements"] = dumpStmts(n.Stmts)
		return out
	case *Comment:
		out["node"] = "comment"
		out["text"] = n.Text
	case *Assign:
		out["node"] = "assign"
		out["target"] = dumpExpr(n.Target)
		out["value"] = dumpExpr(n.Value)
	case *CompoundAssign:
		out["node"] = "compound_assign"
		out["target"] = dumpExpr(n.Target)
		out["op"] = n.Op.String()
		out["value"] = dumpExpr(n.Value)
	case *Declare:
		out["node"] = "declare"
		out["target"] = dumpExpr(n.Target)
		out["value"] = dumpExpr(n.Value)
		out["poetic"] = n.Poetic
	case *FuncDecl:
		out["node"] = "function"
		out["name"] = n.Name.Name
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		out["params"] = params
		out["body"] = dumpStmts(n.Body)
		out["result"] = dumpExpr(n.Result)
	case *Say:
		out["node"] = "say"
		out["value"] = dumpExpr(n.Value)
	case *Listen:
		out["node"] = "listen"
		if n.Target != nil {
			out["target"] = dumpExpr(n.Target)
		}
	case *Increment:
		out["node"] = "increment"
		out["target"] = dumpExpr(n.Target)
		out["count"] = n.Count
	case *Decrement:
		out["node"] = "decrement"
		out["target"] = dumpExpr(n.Target)
		out["count"] = n.Count
	case *Round:
		out["node"] = "round"
		out["target"] = dumpExpr(n.Target)
		out["mode"] = n.Mode.String()
	case *If:
		out["node"] = "if"
		out["condition"] = dumpExpr(n.Cond)
		out["then"] = dumpStmts(n.Then)
		if n.Else != nil {
			out["else"] = dumpStmts(n.Else)
		}
	case *Loop:
		out["node"] = "while"
		if n.Until {
			out["node"] = "until"
		}
		out["condition"] = dumpExpr(n.Cond)
		out["body"] = dumpStmts(n.Body)
	case *Break:
		out["node"] = "break"
	case *Continue:
		out["node"] = "continue"
	case *Variable:
		out["node"] = "variable"
		out["name"] = n.Name
		out["kind"] = n.Kind.String()
	case *Pronoun:
		out["node"] = "pronoun"
		out["word"] = n.Word
	case *Binary:
		out["node"] = "binary"
		out["op"] = n.Op.String()
		out["x"] = dumpExpr(n.X)
		out["y"] = dumpExpr(n.Y)
	case *Unary:
		out["node"] = "unary"
		out["op"] = n.Op.String()
		out["x"] = dumpExpr(n.X)
	case *Call:
		out["node"] = "call"
		out["function"] = n.Fn.Name
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = dumpExpr(arg)
		}
		out["args"] = args
	case *Number:
		out["node"] = "number"
		out["value"] = n.Value
	case *String:
		out["node"] = "string"
		out["value"] = n.Value
	case *Boolean:
		out["node"] = "boolean"
		out["value"] = n.Value
	case *Null:
		out["node"] = "null"
	case *Mysterious:
		out["node"] = "mysterious"
	default:
		out["node"] = "unknown"
	}
	out["line"] = node.Pos().LineNumber()
	return out
}

func dumpStmts(stmts []Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = Dump(s)
	}
	return out
}

func dumpExpr(x Expr) any {
	if x == nil {
		return nil
	}
	return Dump(x)
}
