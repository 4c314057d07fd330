package ast

import "strings"

func join(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func (n *VecLit) String() string { return "[" + join(n.Elems, ", ") + "]" }

func (n *ObjLit) String() string {
	var b strings.Builder
	b.WriteString("{=")
	for i, e := range n.Entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Key.String())
		b.WriteString("=")
		b.WriteString(e.Value.String())
	}
	b.WriteString("}")
	return b.String()
}

func (n *Unary) String() string { return string(n.Op) + n.Operand.String() }

func (n *Binary) String() string {
	return "(" + n.Left.String() + " " + string(n.Op) + " " + n.Right.String() + ")"
}

func (n *Index) String() string { return n.Target.String() + "[" + n.Key.String() + "]" }

func (n *Slice) String() string {
	return n.Target.String() + "[" + n.From.String() + ", " + n.To.String() + "]"
}

func (n *Field) String() string { return n.Target.String() + "." + n.Name }

func (n *Assign) String() string { return n.Target.String() + " = " + n.Value.String() }

func (n *OpAssign) String() string {
	return n.Target.String() + " " + string(n.Op) + "= " + n.Value.String()
}

func (n *Block) String() string { return "{ " + join(n.Exprs, "; ") + " }" }

func (n *If) String() string {
	s := "if " + n.Cond.String() + " " + n.Then.String()
	if n.Else != nil {
		s += " else " + n.Else.String()
	}
	return s
}

func (n *While) String() string { return "while " + n.Cond.String() + " " + n.Body.String() }

func (n *For) String() string {
	init, cond, step := "", "", ""
	if n.Init != nil {
		init = n.Init.String()
	}
	if n.Cond != nil {
		cond = n.Cond.String()
	}
	if n.Step != nil {
		step = n.Step.String()
	}
	return "for " + init + "; " + cond + "; " + step + " " + n.Body.String()
}

func (n *Fn) String() string {
	return "fn(" + strings.Join(n.Params, ", ") + ") " + n.Body.String()
}

func (n *Call) String() string { return n.Callee.String() + "(" + join(n.Args, ", ") + ")" }

func (n *Return) String() string {
	if n.Value == nil {
		return "return"
	}
	return "return " + n.Value.String()
}

func (n *Use) String() string { return "use " + quote(n.Path) }
