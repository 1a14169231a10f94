package ast

import (
	"fmt"
	"strings"

	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/scope"
	"github.com/proskuryakov/rupc/internal/types"
)

// LiteralKind distinguishes the parsed-value variants a Literal can hold.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitString
	LitNull
)

// Literal is a constant value: int, float, bool, string, or null.
type Literal struct {
	exprBase
	Raw  string
	Kind LiteralKind

	IntVal    int64
	FloatVal  float64
	BoolVal   bool
	StringVal string
}

func NewIntLiteral(pos lexer.Position, raw string, v int64) *Literal {
	return &Literal{exprBase: exprBase{base: base{pos}}, Raw: raw, Kind: LitInt, IntVal: v}
}

func NewFloatLiteral(pos lexer.Position, raw string, v float64) *Literal {
	return &Literal{exprBase: exprBase{base: base{pos}}, Raw: raw, Kind: LitFloat, FloatVal: v}
}

func NewBoolLiteral(pos lexer.Position, raw string, v bool) *Literal {
	return &Literal{exprBase: exprBase{base: base{pos}}, Raw: raw, Kind: LitBool, BoolVal: v}
}

func NewStringLiteral(pos lexer.Position, raw string, v string) *Literal {
	return &Literal{exprBase: exprBase{base: base{pos}}, Raw: raw, Kind: LitString, StringVal: v}
}

func NewNullLiteral(pos lexer.Position) *Literal {
	return &Literal{exprBase: exprBase{base: base{pos}}, Kind: LitNull}
}

func (l *Literal) String() string {
	switch l.Kind {
	case LitInt:
		return fmt.Sprintf("%d", l.IntVal)
	case LitFloat:
		return fmt.Sprintf("%g", l.FloatVal)
	case LitBool:
		if l.BoolVal {
			return "ИСТИНА"
		}
		return "ЛОЖЬ"
	case LitString:
		return fmt.Sprintf("%q", l.StringVal)
	default:
		return "null"
	}
}

// Identifier is a name reference, resolved by the analyzer into an
// IdentDesc (node_ident).
type Identifier struct {
	exprBase
	Name  string
	Ident *scope.IdentDesc
}

func NewIdentifier(pos lexer.Position, name string) *Identifier {
	return &Identifier{exprBase: exprBase{base: base{pos}}, Name: name}
}

func (i *Identifier) String() string { return i.Name }

// ArrayIndex is an indexed reference into an array identifier.
// Arrays are parsed but rejected by the analyzer; this node exists so
// the AST's grammar coverage stays complete.
type ArrayIndex struct {
	exprBase
	Ident *Identifier
	Index Expression
}

func NewArrayIndex(pos lexer.Position, ident *Identifier, index Expression) *ArrayIndex {
	return &ArrayIndex{exprBase: exprBase{base: base{pos}}, Ident: ident, Index: index}
}

func (a *ArrayIndex) String() string {
	return fmt.Sprintf("%s[%s]", a.Ident.String(), a.Index.String())
}

// TypeName is a syntactic type reference (e.g. the `целый` in a
// variable declaration), resolved by the analyzer into a TypeDesc.
type TypeName struct {
	base
	Name     string
	Resolved *types.TypeDesc // nil until resolved; stays nil for an unknown type name
}

func NewTypeName(pos lexer.Position, name string) *TypeName {
	return &TypeName{base: base{pos}, Name: name}
}

func (t *TypeName) String() string { return t.Name }

// BinaryOp is a binary expression over the language's operator set.
type BinaryOp struct {
	exprBase
	Op          types.BinOp
	Left, Right Expression
}

func NewBinaryOp(pos lexer.Position, op types.BinOp, left, right Expression) *BinaryOp {
	return &BinaryOp{exprBase: exprBase{base: base{pos}}, Op: op, Left: left, Right: right}
}

func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op.String(), b.Right.String())
}

// TypeConvert wraps an expression with a materialized implicit (or
// explicit) conversion to Target, inserted by the analyzer.
type TypeConvert struct {
	exprBase
	Inner  Expression
	Target *types.TypeDesc
}

func NewTypeConvert(inner Expression, target *types.TypeDesc) *TypeConvert {
	tc := &TypeConvert{exprBase: exprBase{base: base{inner.Pos()}}, Inner: inner, Target: target}
	tc.SetType(target)
	return tc
}

func (t *TypeConvert) String() string {
	return fmt.Sprintf("(%s as %s)", t.Inner.String(), t.Target.String())
}

// Call is a function-call expression.
type Call struct {
	exprBase
	Callee *Identifier
	Args   []Expression
}

func NewCall(pos lexer.Position, callee *Identifier, args []Expression) *Call {
	return &Call{exprBase: exprBase{base: base{pos}}, Callee: callee, Args: args}
}

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee.Name, strings.Join(parts, ", "))
}

// ExpressionList is a bare sequence of expressions, used for call
// argument lists and array initializers.
type ExpressionList struct {
	base
	Items []Expression
}

func NewExpressionList(pos lexer.Position, items []Expression) *ExpressionList {
	return &ExpressionList{base: base{pos}, Items: items}
}

func (e *ExpressionList) String() string { return joinExpr(e.Items, ", ") }
