// Package ast defines the abstract syntax tree node types.
//
// Every node carries its source row/column, a nullable resolved type
// (node_type), and — for identifier-uses — a nullable resolved
// identifier descriptor (node_ident). Nodes are immutable in shape
// (the parser never mutates a node's children after construction) but
// node_type/node_ident/children-as-conversions are filled in, and
// occasionally replaced, by the semantic analyzer.
package ast

import (
	"strings"

	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/types"
)

// Node is the base interface every AST node implements.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
	GetType() *types.TypeDesc
	SetType(*types.TypeDesc)
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// base embeds a source position into every concrete node. Expression
// nodes additionally embed exprBase for node_type.
type base struct {
	pos lexer.Position
}

func (b base) Pos() lexer.Position { return b.pos }

// exprBase adds node_type bookkeeping shared by all Expression nodes.
type exprBase struct {
	base
	nodeType *types.TypeDesc
}

func (e *exprBase) expressionNode()          {}
func (e *exprBase) GetType() *types.TypeDesc  { return e.nodeType }
func (e *exprBase) SetType(t *types.TypeDesc) { e.nodeType = t }

func joinExpr(exprs []Expression, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}
