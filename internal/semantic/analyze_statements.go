package semantic

import (
	"github.com/proskuryakov/rupc/internal/ast"
	"github.com/proskuryakov/rupc/internal/scope"
	"github.com/proskuryakov/rupc/internal/types"
)

// analyzeStatement dispatches on the concrete Statement type.
func (a *Analyzer) analyzeStatement(stmt ast.Statement, s *scope.Scope) error {
	switch n := stmt.(type) {
	case *ast.VariableDefinition:
		return a.analyzeVariableDefinition(n, s)
	case *ast.ArrayDefinition:
		return a.errf(n.Pos(), "массивы не поддерживаются в этой версии компилятора")
	case *ast.ArrayDefinitionInPlace:
		return a.errf(n.Pos(), "массивы не поддерживаются в этой версии компилятора")
	case *ast.Assign:
		return a.analyzeAssign(n, s)
	case *ast.CallStatement:
		resolved, err := a.analyzeExpression(n.Call, s)
		if err != nil {
			return err
		}
		n.Call = resolved.(*ast.Call)
		return nil
	case *ast.If:
		return a.analyzeIf(n, s)
	case *ast.While:
		return a.analyzeWhile(n, s)
	case *ast.DoWhile:
		return a.analyzeDoWhile(n, s)
	case *ast.For:
		return a.analyzeFor(n, s)
	case *ast.Return:
		return a.analyzeReturn(n, s)
	case *ast.FunctionDefinition:
		return a.analyzeFunctionDefinition(n, s)
	case *ast.FunctionDeclaration:
		return a.analyzeFunctionDeclaration(n, s)
	case *ast.StatementList:
		return a.analyzeStatementList(n, s)
	default:
		return a.errf(stmt.Pos(), "неизвестный узел оператора %T", stmt)
	}
}

// analyzeStatementList processes a block. A
// non-program block introduces a fresh child scope; the top-level
// program list shares the scope it is given (the global scope).
func (a *Analyzer) analyzeStatementList(list *ast.StatementList, s *scope.Scope) error {
	target := s
	if !list.Program {
		target = scope.New(s)
	}
	for _, stmt := range list.Statements {
		if err := a.analyzeStatement(stmt, target); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeVariableDefinition(n *ast.VariableDefinition, s *scope.Scope) error {
	declared, err := a.resolveType(n.Type)
	if err != nil {
		return err
	}
	if declared.Equal(types.Void) {
		return a.errf(n.Pos(), "переменная не может иметь тип %s", declared)
	}

	for _, d := range n.Declarators {
		ident := &scope.IdentDesc{Name: d.Name, Type: declared, Kind: scope.LOCAL}
		stored, err := s.AddIdent(ident)
		if err != nil {
			return a.errf(n.Pos(), "идентификатор '%s' уже объявлен", d.Name)
		}
		d.Ident = stored

		if d.Init != nil {
			folded := foldConstant(d.Init)
			analyzed, err := a.analyzeExpression(folded, s)
			if err != nil {
				return err
			}
			converted, err := a.convert(analyzed, declared, "присваиваемое значение")
			if err != nil {
				return err
			}
			d.Init = converted
		}
	}
	return nil
}

func (a *Analyzer) analyzeAssign(n *ast.Assign, s *scope.Scope) error {
	var targetType *types.TypeDesc
	switch t := n.Target.(type) {
	case *ast.Identifier:
		resolved, err := a.analyzeIdentifier(t, s)
		if err != nil {
			return err
		}
		n.Target = resolved
		targetType = resolved.GetType()
	case *ast.ArrayIndex:
		return a.errf(t.Pos(), "массивы не поддерживаются в этой версии компилятора")
	default:
		return a.errf(n.Pos(), "недопустимая цель присваивания %T", n.Target)
	}

	folded := foldConstant(n.Value)
	analyzed, err := a.analyzeExpression(folded, s)
	if err != nil {
		return err
	}
	converted, err := a.convert(analyzed, targetType, "присваиваемое значение")
	if err != nil {
		return err
	}
	n.Value = converted
	return nil
}

func (a *Analyzer) analyzeIf(n *ast.If, s *scope.Scope) error {
	cond, err := a.analyzeExpression(n.Cond, s)
	if err != nil {
		return err
	}
	cond, err = a.convert(cond, types.Bool, "условие")
	if err != nil {
		return err
	}
	n.Cond = cond
	if err := a.analyzeStatementList(n.Then, s); err != nil {
		return err
	}
	if n.Else != nil {
		if err := a.analyzeStatementList(n.Else, s); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeWhile(n *ast.While, s *scope.Scope) error {
	cond, err := a.analyzeExpression(n.Cond, s)
	if err != nil {
		return err
	}
	cond, err = a.convert(cond, types.Bool, "условие")
	if err != nil {
		return err
	}
	n.Cond = cond
	return a.analyzeStatementList(n.Body, s)
}

func (a *Analyzer) analyzeDoWhile(n *ast.DoWhile, s *scope.Scope) error {
	if err := a.analyzeStatementList(n.Body, s); err != nil {
		return err
	}
	cond, err := a.analyzeExpression(n.Cond, s)
	if err != nil {
		return err
	}
	cond, err = a.convert(cond, types.Bool, "условие")
	if err != nil {
		return err
	}
	n.Cond = cond
	return nil
}

func (a *Analyzer) analyzeFor(n *ast.For, s *scope.Scope) error {
	loopScope := scope.New(s)
	if n.Init != nil {
		if err := a.analyzeStatement(n.Init, loopScope); err != nil {
			return err
		}
	}
	cond, err := a.analyzeExpression(n.Cond, loopScope)
	if err != nil {
		return err
	}
	cond, err = a.convert(cond, types.Bool, "условие")
	if err != nil {
		return err
	}
	n.Cond = cond
	if n.Step != nil {
		if err := a.analyzeStatement(n.Step, loopScope); err != nil {
			return err
		}
	}
	return a.analyzeStatementList(n.Body, loopScope)
}

func (a *Analyzer) analyzeReturn(n *ast.Return, s *scope.Scope) error {
	fnScope := s.CurrFunc()
	if fnScope == nil || fnScope.Func == nil {
		return a.errf(n.Pos(), "оператор 'вернуть' вне функции")
	}
	expected := fnScope.Func.Type.Return

	if n.Value == nil {
		if !expected.Equal(types.Void) {
			return a.errf(n.Pos(), "функция %s должна возвращать значение типа %s", fnScope.Func.Name, expected)
		}
		return nil
	}
	if expected.Equal(types.Void) {
		return a.errf(n.Pos(), "функция %s объявлена как %s и не может возвращать значение", fnScope.Func.Name, expected)
	}
	folded := foldConstant(n.Value)
	analyzed, err := a.analyzeExpression(folded, s)
	if err != nil {
		return err
	}
	converted, err := a.convert(analyzed, expected, "возвращаемое значение")
	if err != nil {
		return err
	}
	n.Value = converted
	return nil
}
