package ast

import (
	"fmt"
	"strings"

	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/scope"
)

// Param is a single formal parameter: a name and a declared type.
type Param struct {
	base
	Name  string
	Type  *TypeName
	Ident *scope.IdentDesc
}

func NewParam(pos lexer.Position, name string, typ *TypeName) *Param {
	return &Param{base: base{pos}, Name: name, Type: typ}
}

func (p *Param) String() string { return fmt.Sprintf("%s %s", p.Type.String(), p.Name) }

// ParamList is the parenthesized formal-parameter list of a function
// header.
type ParamList struct {
	base
	Params []*Param
}

func NewParamList(pos lexer.Position, params []*Param) *ParamList {
	return &ParamList{base: base{pos}, Params: params}
}

func (pl *ParamList) String() string {
	parts := make([]string, len(pl.Params))
	for i, p := range pl.Params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// FunctionDeclaration is a forward declaration: a signature with no
// body. The analyzer registers its signature at
// global scope and requires a later matching FunctionDefinition.
type FunctionDeclaration struct {
	base
	Name       string
	ReturnType *TypeName
	Params     *ParamList
	Ident      *scope.IdentDesc
}

func NewFunctionDeclaration(pos lexer.Position, name string, ret *TypeName, params *ParamList) *FunctionDeclaration {
	return &FunctionDeclaration{base: base{pos}, Name: name, ReturnType: ret, Params: params}
}

func (f *FunctionDeclaration) statementNode() {}

func (f *FunctionDeclaration) String() string {
	return fmt.Sprintf("%s %s(%s);", f.ReturnType.String(), f.Name, f.Params.String())
}

// FunctionDefinition is a full function declaration with a body.
type FunctionDefinition struct {
	base
	Name       string
	ReturnType *TypeName
	Params     *ParamList
	Body       *StatementList
	Ident      *scope.IdentDesc
	Scope      *scope.Scope // the function's own scope, set by the analyzer
}

func NewFunctionDefinition(pos lexer.Position, name string, ret *TypeName, params *ParamList, body *StatementList) *FunctionDefinition {
	return &FunctionDefinition{base: base{pos}, Name: name, ReturnType: ret, Params: params, Body: body}
}

func (f *FunctionDefinition) statementNode() {}

func (f *FunctionDefinition) String() string {
	return fmt.Sprintf("%s %s(%s) %s", f.ReturnType.String(), f.Name, f.Params.String(), f.Body.String())
}
