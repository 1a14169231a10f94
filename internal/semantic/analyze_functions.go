package semantic

import (
	"github.com/proskuryakov/rupc/internal/ast"
	"github.com/proskuryakov/rupc/internal/scope"
	"github.com/proskuryakov/rupc/internal/types"
)

// buildSignature resolves a function header's return type and
// parameter types without touching any scope, so forward declarations
// and definitions can be compared before either is committed.
func (a *Analyzer) buildSignature(ret *ast.TypeName, params *ast.ParamList) (*types.TypeDesc, []*types.TypeDesc, error) {
	retType, err := a.resolveType(ret)
	if err != nil {
		return nil, nil, err
	}
	paramTypes := make([]*types.TypeDesc, len(params.Params))
	for i, p := range params.Params {
		pt, err := a.resolveType(p.Type)
		if err != nil {
			return nil, nil, err
		}
		paramTypes[i] = pt
	}
	return retType, paramTypes, nil
}

// analyzeFunctionDeclaration implements the resolved Open Question of
// a forward declaration registers its signature at
// global scope and must later be completed by a matching definition.
func (a *Analyzer) analyzeFunctionDeclaration(n *ast.FunctionDeclaration, s *scope.Scope) error {
	if s.CurrFunc() != nil {
		return a.errf(n.Pos(), "объявление функции %s внутри другой функции не поддерживается", n.Name)
	}
	global := s.CurrGlobal()
	retType, paramTypes, err := a.buildSignature(n.ReturnType, n.Params)
	if err != nil {
		return err
	}
	fnType := types.Func(retType, paramTypes...)

	if existing := global.GetIdent(n.Name); existing != nil {
		return a.errf(n.Pos(), "функция %s уже объявлена", n.Name)
	}

	ident := &scope.IdentDesc{Name: n.Name, Type: fnType, Kind: scope.GLOBAL, Forward: true}
	stored, err := global.AddIdent(ident)
	if err != nil {
		return a.errf(n.Pos(), "функция %s уже объявлена", n.Name)
	}
	if n.Name != "главный" {
		stored.Index = global.FuncIndex
		global.FuncIndex++
	}
	n.Ident = stored
	return nil
}

func (a *Analyzer) analyzeFunctionDefinition(n *ast.FunctionDefinition, s *scope.Scope) error {
	if s.CurrFunc() != nil {
		return a.errf(n.Pos(), "объявление функции %s внутри другой функции не поддерживается", n.Name)
	}
	global := s.CurrGlobal()

	retType, paramTypes, err := a.buildSignature(n.ReturnType, n.Params)
	if err != nil {
		return err
	}
	fnType := types.Func(retType, paramTypes...)

	var funcIdent *scope.IdentDesc
	if existing := global.GetIdent(n.Name); existing != nil {
		if !existing.Forward {
			return a.errf(n.Pos(), "повторное определение функции %s", n.Name)
		}
		if !existing.Type.Equal(fnType) {
			return a.errf(n.Pos(), "сигнатура функции %s не совпадает с объявлением", n.Name)
		}
		existing.Forward = false
		funcIdent = existing
	} else {
		funcIdent = &scope.IdentDesc{Name: n.Name, Type: fnType, Kind: scope.GLOBAL}
		if funcIdent, err = global.AddIdent(funcIdent); err != nil {
			return a.errf(n.Pos(), "повторное определение функции %s", n.Name)
		}
		if n.Name != "главный" {
			funcIdent.Index = global.FuncIndex
			global.FuncIndex++
		}
	}

	funcScope := scope.New(global)
	funcScope.Func = funcIdent

	for i, p := range n.Params.Params {
		ident := &scope.IdentDesc{Name: p.Name, Type: paramTypes[i], Kind: scope.PARAM}
		stored, err := funcScope.AddIdent(ident)
		if err != nil {
			return a.errf(p.Pos(), "параметр %s уже объявлен", p.Name)
		}
		p.Ident = stored
	}

	funcIdent.Func = n
	n.Ident = funcIdent
	n.Scope = funcScope

	return a.analyzeStatementList(n.Body, funcScope)
}
