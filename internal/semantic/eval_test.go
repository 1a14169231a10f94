package semantic

import (
	"testing"

	"github.com/proskuryakov/rupc/internal/ast"
	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/types"
)

func pos() lexer.Position { return lexer.Position{Line: 1, Column: 1} }

func TestFoldConstantIntArithmetic(t *testing.T) {
	expr := ast.NewBinaryOp(pos(), types.ADD,
		ast.NewIntLiteral(pos(), "2", 2),
		ast.NewBinaryOp(pos(), types.MUL,
			ast.NewIntLiteral(pos(), "3", 3),
			ast.NewIntLiteral(pos(), "4", 4)))

	folded := foldConstant(expr)
	lit, ok := folded.(*ast.Literal)
	if !ok {
		t.Fatalf("folded = %T, want *ast.Literal", folded)
	}
	if lit.Kind != ast.LitInt || lit.IntVal != 14 {
		t.Fatalf("folded value = %+v, want int 14", lit)
	}
}

func TestFoldConstantFloatPromotion(t *testing.T) {
	expr := ast.NewBinaryOp(pos(), types.ADD,
		ast.NewIntLiteral(pos(), "1", 1),
		ast.NewFloatLiteral(pos(), "2.5", 2.5))

	folded := foldConstant(expr)
	lit, ok := folded.(*ast.Literal)
	if !ok || lit.Kind != ast.LitFloat || lit.FloatVal != 3.5 {
		t.Fatalf("folded = %v, want float 3.5", folded)
	}
}

func TestFoldConstantStringConcat(t *testing.T) {
	expr := ast.NewBinaryOp(pos(), types.ADD,
		ast.NewStringLiteral(pos(), "а", "а"),
		ast.NewStringLiteral(pos(), "б", "б"))

	folded := foldConstant(expr)
	lit, ok := folded.(*ast.Literal)
	if !ok || lit.Kind != ast.LitString || lit.StringVal != "аб" {
		t.Fatalf("folded = %v, want string аб", folded)
	}
}

func TestFoldConstantDivisionByZeroLeavesExpressionUnfolded(t *testing.T) {
	expr := ast.NewBinaryOp(pos(), types.DIV,
		ast.NewIntLiteral(pos(), "1", 1),
		ast.NewIntLiteral(pos(), "0", 0))

	folded := foldConstant(expr)
	if folded != ast.Expression(expr) {
		t.Fatal("division by zero should not fold; the original BinaryOp should be returned unchanged")
	}
}

func TestFoldConstantNonArithmeticOpLeavesExpressionUnfolded(t *testing.T) {
	expr := ast.NewBinaryOp(pos(), types.GT,
		ast.NewIntLiteral(pos(), "1", 1),
		ast.NewIntLiteral(pos(), "0", 0))

	folded := foldConstant(expr)
	if folded != ast.Expression(expr) {
		t.Fatal("comparisons are not constant-folded in this evaluator")
	}
}

func TestFoldConstantIdentifierLeavesExpressionUnfolded(t *testing.T) {
	ident := ast.NewIdentifier(pos(), "а")
	folded := foldConstant(ident)
	if folded != ast.Expression(ident) {
		t.Fatal("an identifier cannot be folded without a scope lookup")
	}
}
