// Package ast defines the AOCLang expression tree. Every construct in
// the language, including control flow and blocks, is an expression
// node that yields a value.
package ast

import (
	"strconv"

	"github.com/aoclang/aoclang/internal/token"
)

// Node is any expression-tree node.
type Node interface {
	Span() token.Span
	String() string
	exprNode()
}

type base struct {
	span token.Span
}

func (b base) Span() token.Span { return b.span }

// LValue is the subset of Node usable as an assignment target: an
// identifier, an index/field expression, or a vector pattern of
// LValues (destructuring).
type LValue interface {
	Node
	lvalueNode()
}

// ---- literals -------------------------------------------------------

type Nil struct{ base }

func NewNil(span token.Span) *Nil { return &Nil{base{span}} }
func (*Nil) exprNode()            {}
func (*Nil) String() string       { return "nil" }

type Int struct {
	base
	Value int64
}

func NewInt(span token.Span, v int64) *Int { return &Int{base{span}, v} }
func (*Int) exprNode()                     {}
func (n *Int) String() string              { return itoa(n.Value) }

type Float struct {
	base
	Value float64
}

func NewFloat(span token.Span, v float64) *Float { return &Float{base{span}, v} }
func (*Float) exprNode()                         {}
func (n *Float) String() string                  { return ftoa(n.Value) }

type Str struct {
	base
	Value string
}

func NewStr(span token.Span, v string) *Str { return &Str{base{span}, v} }
func (*Str) exprNode()                      {}
func (n *Str) String() string               { return quote(n.Value) }

// Ident is both a plain name reference and (as an LValue) an
// assignment target.
type Ident struct {
	base
	Name string
}

func NewIdent(span token.Span, name string) *Ident { return &Ident{base{span}, name} }
func (*Ident) exprNode()                           {}
func (*Ident) lvalueNode()                         {}
func (n *Ident) String() string                    { return n.Name }

// ---- composite literals ---------------------------------------------

type VecLit struct {
	base
	Elems []Node
}

func NewVecLit(span token.Span, elems []Node) *VecLit { return &VecLit{base{span}, elems} }
func (*VecLit) exprNode()                             {}
func (*VecLit) lvalueNode()                           {} // destructuring pattern

type ObjEntry struct {
	Key   Node
	Value Node
}

type ObjLit struct {
	base
	Entries []ObjEntry
}

func NewObjLit(span token.Span, entries []ObjEntry) *ObjLit { return &ObjLit{base{span}, entries} }
func (*ObjLit) exprNode()                                   {}

// ---- operators --------------------------------------------------------

type Unary struct {
	base
	Op      token.Type
	Operand Node
}

func NewUnary(span token.Span, op token.Type, operand Node) *Unary {
	return &Unary{base{span}, op, operand}
}
func (*Unary) exprNode() {}

type Binary struct {
	base
	Op    token.Type
	Left  Node
	Right Node
}

func NewBinary(span token.Span, op token.Type, left, right Node) *Binary {
	return &Binary{base{span}, op, left, right}
}
func (*Binary) exprNode() {}

// ---- access -----------------------------------------------------------

type Index struct {
	base
	Target Node
	Key    Node
}

func NewIndex(span token.Span, target, key Node) *Index { return &Index{base{span}, target, key} }
func (*Index) exprNode()                                {}
func (*Index) lvalueNode()                              {}

type Slice struct {
	base
	Target Node
	From   Node
	To     Node
}

func NewSlice(span token.Span, target, from, to Node) *Slice {
	return &Slice{base{span}, target, from, to}
}
func (*Slice) exprNode() {}

// Field is sugar for Index(Target, Str(Name)); kept as its own node so
// the compiler can fold it to a constant-string GET_INDEX/SET_INDEX
// without allocating a Str node on every access.
type Field struct {
	base
	Target Node
	Name   string
}

func NewField(span token.Span, target Node, name string) *Field { return &Field{base{span}, target, name} }
func (*Field) exprNode()                                        {}
func (*Field) lvalueNode()                                      {}

// ---- assignment ---------------------------------------------------------

type Assign struct {
	base
	Target LValue
	Value  Node
}

func NewAssign(span token.Span, target LValue, value Node) *Assign {
	return &Assign{base{span}, target, value}
}
func (*Assign) exprNode() {}

type OpAssign struct {
	base
	Op     token.Type // the arithmetic op, e.g. token.PLUS for +=
	Target LValue
	Value  Node
}

func NewOpAssign(span token.Span, op token.Type, target LValue, value Node) *OpAssign {
	return &OpAssign{base{span}, op, target, value}
}
func (*OpAssign) exprNode() {}

// ---- control flow -------------------------------------------------------

type Block struct {
	base
	Exprs []Node
}

func NewBlock(span token.Span, exprs []Node) *Block { return &Block{base{span}, exprs} }
func (*Block) exprNode()                            {}

type If struct {
	base
	Cond Node
	Then Node
	Else Node // nil if no else clause
}

func NewIf(span token.Span, cond, then, els Node) *If { return &If{base{span}, cond, then, els} }
func (*If) exprNode()                                 {}

type While struct {
	base
	Cond Node
	Body Node
}

func NewWhile(span token.Span, cond, body Node) *While { return &While{base{span}, cond, body} }
func (*While) exprNode()                               {}

type For struct {
	base
	Init Node // may be nil
	Cond Node // may be nil (treated as always-true)
	Step Node // may be nil
	Body Node
}

func NewFor(span token.Span, init, cond, step, body Node) *For {
	return &For{base{span}, init, cond, step, body}
}
func (*For) exprNode() {}

// ---- functions & calls ---------------------------------------------------

type Fn struct {
	base
	Name   string // empty for anonymous function literals
	Params []string
	Body   Node
}

func NewFn(span token.Span, name string, params []string, body Node) *Fn {
	return &Fn{base{span}, name, params, body}
}
func (*Fn) exprNode() {}

type Call struct {
	base
	Callee Node
	Args   []Node
}

func NewCall(span token.Span, callee Node, args []Node) *Call { return &Call{base{span}, callee, args} }
func (*Call) exprNode()                                       {}

type Return struct {
	base
	Value Node // nil for bare `return`
}

func NewReturn(span token.Span, value Node) *Return { return &Return{base{span}, value} }
func (*Return) exprNode()                           {}

type Use struct {
	base
	Path string
}

func NewUse(span token.Span, path string) *Use { return &Use{base{span}, path} }
func (*Use) exprNode()                         {}

func itoa(v int64) string    { return strconv.FormatInt(v, 10) }
func ftoa(v float64) string  { return strconv.FormatFloat(v, 'g', -1, 64) }
func quote(s string) string  { return strconv.Quote(s) }
