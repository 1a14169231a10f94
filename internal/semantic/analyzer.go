package semantic

import (
	"fmt"
	"strings"

	"github.com/proskuryakov/rupc/internal/ast"
	cerrors "github.com/proskuryakov/rupc/internal/errors"
	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/scope"
	"github.com/proskuryakov/rupc/internal/types"
)

// Analyzer walks a parsed program, building the scope tree and
// resolving every node's type in place.
type Analyzer struct {
	source string
	file   string
}

// New creates an Analyzer. source is the original text (used to print
// the caret-annotated context in errors); file is the display name,
// empty for stdin/REPL input.
func New(source, file string) *Analyzer {
	return &Analyzer{source: source, file: file}
}

func (a *Analyzer) errf(pos lexer.Position, format string, args ...any) error {
	return cerrors.New(pos, fmt.Sprintf(format, args...), a.source, a.file)
}

// Analyze runs full semantic analysis over program and returns the
// populated global scope. Each top-level declaration is analyzed even
// after an earlier one fails, so a single invocation can surface more
// than one problem; with more than one failure the returned error is
// an *AnalysisError aggregating all of them.
func (a *Analyzer) Analyze(program *ast.StatementList) (*scope.Scope, error) {
	global := scope.NewGlobal()

	var errs []error
	for _, stmt := range program.Statements {
		if err := a.analyzeStatement(stmt, global); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		if len(errs) == 1 {
			return nil, errs[0]
		}
		return nil, &AnalysisError{Errors: errs}
	}

	for name, ident := range global.Idents() {
		if ident.Forward {
			return nil, a.errf(lexer.Position{}, "функция %s объявлена, но не определена", name)
		}
	}
	if !hasEntryPoint(program) {
		return nil, a.errf(lexer.Position{}, "Нет точки входа в программу (функция главный)")
	}
	return global, nil
}

// AnalyzeStatement analyzes a single statement against an existing
// scope, for `rupc repl`'s persistent session scope. Unlike Analyze it
// neither allocates a fresh global scope nor requires a главный entry
// point, since a REPL session is never a complete program.
func (a *Analyzer) AnalyzeStatement(stmt ast.Statement, s *scope.Scope) error {
	return a.analyzeStatement(stmt, s)
}

// hasEntryPoint reports whether program defines a главный function at
// top level.
func hasEntryPoint(program *ast.StatementList) bool {
	for _, stmt := range program.Statements {
		if fn, ok := stmt.(*ast.FunctionDefinition); ok && fn.Name == "главный" {
			return true
		}
	}
	return false
}

// resolveType resolves a *ast.TypeName to its TypeDesc, caching the
// result on the node.
func (a *Analyzer) resolveType(tn *ast.TypeName) (*types.TypeDesc, error) {
	td, err := types.FromStr(tn.Name)
	if err != nil {
		return nil, a.errf(tn.Pos(), "неизвестный тип %s", tn.Name)
	}
	tn.Resolved = td
	return td, nil
}

// convert wraps expr in a TypeConvert to target when needed, erroring
// when no implicit conversion exists. context names the role of the
// value being converted (e.g. "присваиваемое значение", "условие"),
// matching the original's type_convert(node, type, context) messages.
func (a *Analyzer) convert(expr ast.Expression, target *types.TypeDesc, context string) (ast.Expression, error) {
	from := expr.GetType()
	if from.Equal(target) {
		return expr, nil
	}
	if from.IsSimple() && target.IsSimple() && types.ConvertibleTo(from.Base, target.Base) {
		return ast.NewTypeConvert(expr, target), nil
	}
	return nil, a.errf(expr.Pos(), "%s: тип %s не может быть приведён к типу %s", context, from, target)
}

// analyzeExpression dispatches on the concrete Expression type,
// resolving node.GetType() in place and returning the (possibly
// replaced) expression.
func (a *Analyzer) analyzeExpression(expr ast.Expression, s *scope.Scope) (ast.Expression, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return a.analyzeLiteral(n)
	case *ast.Identifier:
		return a.analyzeIdentifier(n, s)
	case *ast.ArrayIndex:
		return nil, a.errf(n.Pos(), "массивы не поддерживаются в этой версии компилятора")
	case *ast.BinaryOp:
		return a.analyzeBinaryOp(n, s)
	case *ast.TypeConvert:
		return n, nil
	case *ast.Call:
		return a.analyzeCall(n, s)
	default:
		return nil, a.errf(expr.Pos(), "неизвестный узел выражения %T", expr)
	}
}

func (a *Analyzer) analyzeLiteral(n *ast.Literal) (ast.Expression, error) {
	switch n.Kind {
	case ast.LitInt:
		n.SetType(types.Int)
	case ast.LitFloat:
		n.SetType(types.Float)
	case ast.LitBool:
		n.SetType(types.Bool)
	case ast.LitString:
		n.SetType(types.Str)
	default:
		return nil, a.errf(n.Pos(), "значение константы неизвестного типа")
	}
	return n, nil
}

func (a *Analyzer) analyzeIdentifier(n *ast.Identifier, s *scope.Scope) (ast.Expression, error) {
	ident := s.GetIdent(n.Name)
	if ident == nil {
		return nil, a.errf(n.Pos(), "идентификатор '%s' не найден", n.Name)
	}
	if ident.Type.IsFunc() {
		return nil, a.errf(n.Pos(), "'%s' является функцией и не может использоваться как значение", n.Name)
	}
	n.Ident = ident
	n.SetType(ident.Type)
	return n, nil
}

func (a *Analyzer) analyzeBinaryOp(n *ast.BinaryOp, s *scope.Scope) (ast.Expression, error) {
	left, err := a.analyzeExpression(n.Left, s)
	if err != nil {
		return nil, err
	}
	n.Left = left
	right, err := a.analyzeExpression(n.Right, s)
	if err != nil {
		return nil, err
	}
	n.Right = right

	lt, rt := n.Left.GetType(), n.Right.GetType()
	if !lt.IsSimple() || !rt.IsSimple() {
		return nil, a.errf(n.Pos(), "оператор %s неприменим к типам (%s, %s)", n.Op, lt, rt)
	}

	if res, ok := types.BinOpResult(n.Op, lt.Base, rt.Base); ok {
		n.SetType(types.Simple(res))
		return n, nil
	}

	for _, widened := range types.ConversionTargets(rt.Base) {
		if res, ok := types.BinOpResult(n.Op, lt.Base, widened); ok {
			n.Right = ast.NewTypeConvert(n.Right, types.Simple(widened))
			n.SetType(types.Simple(res))
			return n, nil
		}
	}
	for _, widened := range types.ConversionTargets(lt.Base) {
		if res, ok := types.BinOpResult(n.Op, widened, rt.Base); ok {
			n.Left = ast.NewTypeConvert(n.Left, types.Simple(widened))
			n.SetType(types.Simple(res))
			return n, nil
		}
	}

	return nil, a.errf(n.Pos(), "оператор %s неприменим к типам (%s, %s)", n.Op, lt, rt)
}

func (a *Analyzer) analyzeCall(n *ast.Call, s *scope.Scope) (ast.Expression, error) {
	ident := s.GetIdent(n.Callee.Name)
	if ident == nil {
		return nil, a.errf(n.Pos(), "функция %s не найдена", n.Callee.Name)
	}
	if !ident.Type.IsFunc() {
		return nil, a.errf(n.Pos(), "идентификатор %s не является функцией", n.Callee.Name)
	}
	if len(ident.Type.Params) != len(n.Args) {
		return nil, a.errf(n.Pos(), "количество аргументов %s не совпадает (ожидалось %d, передано %d)",
			n.Callee.Name, len(ident.Type.Params), len(n.Args))
	}
	actual := make([]*types.TypeDesc, len(n.Args))
	mismatch := false
	for i, arg := range n.Args {
		analyzed, err := a.analyzeExpression(arg, s)
		if err != nil {
			return nil, err
		}
		n.Args[i] = analyzed
		actual[i] = analyzed.GetType()

		converted, cerr := a.convert(analyzed, ident.Type.Params[i], fmt.Sprintf("аргумент %d функции %s", i+1, n.Callee.Name))
		if cerr != nil {
			mismatch = true
			continue
		}
		n.Args[i] = converted
	}
	if mismatch {
		return nil, a.errf(n.Pos(), "аргументы функции %s не совпадают с объявлением: формальные (%s), фактические (%s)",
			n.Callee.Name, formatTypeList(ident.Type.Params), formatTypeList(actual))
	}

	n.Callee.Ident = ident
	n.Callee.SetType(ident.Type)
	n.SetType(ident.Type.Return)
	return n, nil
}

// formatTypeList renders a parameter/argument type list as a
// comma-separated string for the combined formal-vs-actual signature
// error analyzeCall raises when one or more arguments fail to convert.
func formatTypeList(ts []*types.TypeDesc) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
