package semantic

import (
	"fmt"

	"github.com/proskuryakov/rupc/internal/ast"
	"github.com/proskuryakov/rupc/internal/types"
)

// constVal is the dynamic value produced by the constant evaluator: an
// int64, float64, bool, or string.
type constVal struct {
	kind types.BaseType
	i    int64
	f    float64
	b    bool
	s    string
}

// evalUnsupported is returned (as an error) whenever a subexpression
// cannot be folded. Per the original's try_calc_node, this is a silent
// failure the caller swallows, leaving the subexpression unevaluated.
type evalUnsupported struct{ why string }

func (e *evalUnsupported) Error() string { return e.why }

// tryEvalConst attempts to fold node to a constant value. Only
// Literal and arithmetic BinaryOp (+ - * /) nodes are supported,
// matching the original evaluator's coverage.
func tryEvalConst(node ast.Expression) (constVal, error) {
	switch n := node.(type) {
	case *ast.Literal:
		switch n.Kind {
		case ast.LitInt:
			return constVal{kind: types.INT, i: n.IntVal}, nil
		case ast.LitFloat:
			return constVal{kind: types.FLOAT, f: n.FloatVal}, nil
		case ast.LitBool:
			return constVal{kind: types.BOOL, b: n.BoolVal}, nil
		case ast.LitString:
			return constVal{kind: types.STR, s: n.StringVal}, nil
		default:
			return constVal{}, &evalUnsupported{"null literal is not a constant"}
		}
	case *ast.BinaryOp:
		left, err := tryEvalConst(n.Left)
		if err != nil {
			return constVal{}, err
		}
		right, err := tryEvalConst(n.Right)
		if err != nil {
			return constVal{}, err
		}
		return evalBinOp(n.Op, left, right)
	default:
		return constVal{}, &evalUnsupported{fmt.Sprintf("%T is not constant-foldable", node)}
	}
}

func evalBinOp(op types.BinOp, l, r constVal) (constVal, error) {
	switch op {
	case types.ADD, types.SUB, types.MUL, types.DIV:
		return evalArith(op, l, r)
	default:
		return constVal{}, &evalUnsupported{"only +, -, *, / fold at compile time"}
	}
}

func evalArith(op types.BinOp, l, r constVal) (constVal, error) {
	if l.kind == types.STR && r.kind == types.STR && op == types.ADD {
		return constVal{kind: types.STR, s: l.s + r.s}, nil
	}
	if l.kind != types.INT && l.kind != types.FLOAT {
		return constVal{}, &evalUnsupported{"non-numeric left operand"}
	}
	if r.kind != types.INT && r.kind != types.FLOAT {
		return constVal{}, &evalUnsupported{"non-numeric right operand"}
	}
	if l.kind == types.INT && r.kind == types.INT {
		li, ri := l.i, r.i
		switch op {
		case types.ADD:
			return constVal{kind: types.INT, i: li + ri}, nil
		case types.SUB:
			return constVal{kind: types.INT, i: li - ri}, nil
		case types.MUL:
			return constVal{kind: types.INT, i: li * ri}, nil
		case types.DIV:
			if ri == 0 {
				return constVal{}, &evalUnsupported{"division by zero"}
			}
			return constVal{kind: types.INT, i: li / ri}, nil
		}
	}
	lf, rf := toFloat(l), toFloat(r)
	switch op {
	case types.ADD:
		return constVal{kind: types.FLOAT, f: lf + rf}, nil
	case types.SUB:
		return constVal{kind: types.FLOAT, f: lf - rf}, nil
	case types.MUL:
		return constVal{kind: types.FLOAT, f: lf * rf}, nil
	case types.DIV:
		if rf == 0 {
			return constVal{}, &evalUnsupported{"division by zero"}
		}
		return constVal{kind: types.FLOAT, f: lf / rf}, nil
	}
	return constVal{}, &evalUnsupported{"unreachable"}
}

func toFloat(v constVal) float64 {
	if v.kind == types.INT {
		return float64(v.i)
	}
	return v.f
}

// literalFrom converts a folded constVal back into a Literal node at
// pos, mirroring the original's LiteralNode(str(value)) round-trip.
func literalFrom(pos ast.Expression, v constVal) *ast.Literal {
	p := pos.Pos()
	switch v.kind {
	case types.INT:
		return ast.NewIntLiteral(p, fmt.Sprintf("%d", v.i), v.i)
	case types.FLOAT:
		return ast.NewFloatLiteral(p, fmt.Sprintf("%g", v.f), v.f)
	case types.BOOL:
		return ast.NewBoolLiteral(p, fmt.Sprintf("%v", v.b), v.b)
	default:
		return ast.NewStringLiteral(p, v.s, v.s)
	}
}

// foldConstant replaces expr with its folded literal when possible,
// leaving expr untouched otherwise — the "silent failure" behavior of
// the original's try_calc_node/except-pass pattern.
func foldConstant(expr ast.Expression) ast.Expression {
	v, err := tryEvalConst(expr)
	if err != nil {
		return expr
	}
	return literalFrom(expr, v)
}
