package ast

import (
	"fmt"
	"strings"

	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/scope"
)

// Assign is `target = value;`.
type Assign struct {
	base
	Target Expression // *Identifier or *ArrayIndex
	Value  Expression
}

func NewAssign(pos lexer.Position, target, value Expression) *Assign {
	return &Assign{base: base{pos}, Target: target, Value: value}
}

func (a *Assign) statementNode() {}

func (a *Assign) String() string {
	return fmt.Sprintf("%s = %s;", a.Target.String(), a.Value.String())
}

// VariableDeclarator is one entry in a VariableDefinition's
// comma-separated name list: a bare identifier, or an identifier with
// an initializer.
type VariableDeclarator struct {
	Name  string
	Init  Expression // nil if uninitialized
	Ident *scope.IdentDesc
}

func NewVariableDeclarator(name string, init Expression) *VariableDeclarator {
	return &VariableDeclarator{Name: name, Init: init}
}

func (d *VariableDeclarator) String() string {
	if d.Init != nil {
		return fmt.Sprintf("%s = %s", d.Name, d.Init.String())
	}
	return d.Name
}

// VariableDefinition declares one or more variables of the same type,
// each with its own optional initializer: `целый a, b = 5;`.
type VariableDefinition struct {
	base
	Type        *TypeName
	Declarators []*VariableDeclarator
}

func NewVariableDefinition(pos lexer.Position, typ *TypeName, declarators []*VariableDeclarator) *VariableDefinition {
	return &VariableDefinition{base: base{pos}, Type: typ, Declarators: declarators}
}

func (v *VariableDefinition) statementNode() {}

func (v *VariableDefinition) String() string {
	parts := make([]string, len(v.Declarators))
	for i, d := range v.Declarators {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%s %s;", v.Type.String(), strings.Join(parts, ", "))
}

// ArrayDefinition declares a fixed-size array variable: `целый a[10];`.
// Rejected by the analyzer; retained in the AST so the parser's
// grammar coverage stays complete.
type ArrayDefinition struct {
	base
	Name string
	Type *TypeName
	Size Expression
}

func NewArrayDefinition(pos lexer.Position, name string, typ *TypeName, size Expression) *ArrayDefinition {
	return &ArrayDefinition{base: base{pos}, Name: name, Type: typ, Size: size}
}

func (a *ArrayDefinition) statementNode() {}

func (a *ArrayDefinition) String() string {
	return fmt.Sprintf("%s %s[%s];", a.Type.String(), a.Name, a.Size.String())
}

// ArrayDefinitionInPlace declares an array with a literal initializer
// list: `целый a[] = {1, 2, 3};`. Also rejected by the analyzer.
type ArrayDefinitionInPlace struct {
	base
	Name   string
	Type   *TypeName
	Values *ExpressionList
}

func NewArrayDefinitionInPlace(pos lexer.Position, name string, typ *TypeName, values *ExpressionList) *ArrayDefinitionInPlace {
	return &ArrayDefinitionInPlace{base: base{pos}, Name: name, Type: typ, Values: values}
}

func (a *ArrayDefinitionInPlace) statementNode() {}

func (a *ArrayDefinitionInPlace) String() string {
	return fmt.Sprintf("%s %s[] = {%s};", a.Type.String(), a.Name, a.Values.String())
}

// CallStatement is a call expression used as a bare statement, e.g.
// `вывод("привет");`.
type CallStatement struct {
	base
	Call *Call
}

func NewCallStatement(call *Call) *CallStatement {
	return &CallStatement{base: base{call.Pos()}, Call: call}
}

func (c *CallStatement) statementNode() {}

func (c *CallStatement) String() string { return c.Call.String() + ";" }

// If is `если (Cond) Then [иначе Else]`, where Then/Else are either a
// brace-delimited block or a single bare statement.
type If struct {
	base
	Cond Expression
	Then *StatementList
	Else *StatementList // nil if no else-branch
}

func NewIf(pos lexer.Position, cond Expression, then, els *StatementList) *If {
	return &If{base: base{pos}, Cond: cond, Then: then, Else: els}
}

func (i *If) statementNode() {}

func (i *If) String() string {
	if i.Else != nil {
		return fmt.Sprintf("если (%s) %s иначе %s", i.Cond.String(), i.Then.String(), i.Else.String())
	}
	return fmt.Sprintf("если (%s) %s", i.Cond.String(), i.Then.String())
}

// While is `пока (Cond) Body` — condition checked before each iteration.
type While struct {
	base
	Cond Expression
	Body *StatementList
}

func NewWhile(pos lexer.Position, cond Expression, body *StatementList) *While {
	return &While{base: base{pos}, Cond: cond, Body: body}
}

func (w *While) statementNode() {}

func (w *While) String() string {
	return fmt.Sprintf("пока (%s) %s", w.Cond.String(), w.Body.String())
}

// DoWhile is `делать Body пока (Cond);` — body runs at least once.
type DoWhile struct {
	base
	Body *StatementList
	Cond Expression
}

func NewDoWhile(pos lexer.Position, body *StatementList, cond Expression) *DoWhile {
	return &DoWhile{base: base{pos}, Body: body, Cond: cond}
}

func (d *DoWhile) statementNode() {}

func (d *DoWhile) String() string {
	return fmt.Sprintf("делать %s пока (%s);", d.Body.String(), d.Cond.String())
}

// For is a C-style `цикл (Init; Cond; Step) Body` loop.
type For struct {
	base
	Init Statement // may be nil
	Cond Expression
	Step Statement // may be nil
	Body *StatementList
}

func NewFor(pos lexer.Position, init Statement, cond Expression, step Statement, body *StatementList) *For {
	return &For{base: base{pos}, Init: init, Cond: cond, Step: step, Body: body}
}

func (f *For) statementNode() {}

func (f *For) String() string {
	var init, step string
	if f.Init != nil {
		init = f.Init.String()
	}
	if f.Step != nil {
		step = f.Step.String()
	}
	return fmt.Sprintf("цикл (%s; %s; %s) %s", init, f.Cond.String(), step, f.Body.String())
}

// Return is `вернуть [Value];`.
type Return struct {
	base
	Value Expression // nil for a bare `вернуть;`
}

func NewReturn(pos lexer.Position, value Expression) *Return {
	return &Return{base: base{pos}, Value: value}
}

func (r *Return) statementNode() {}

func (r *Return) String() string {
	if r.Value != nil {
		return fmt.Sprintf("вернуть %s;", r.Value.String())
	}
	return "вернуть;"
}

// StatementList is a block of statements (`{ ... }`, or a single bare
// statement promoted to a one-element list). Program sets it apart as
// the translation unit's top-level list (no braces in String()).
type StatementList struct {
	base
	Statements []Statement
	Program    bool
}

func NewStatementList(pos lexer.Position, stmts []Statement, program bool) *StatementList {
	return &StatementList{base: base{pos}, Statements: stmts, Program: program}
}

func (s *StatementList) statementNode() {}

func (s *StatementList) String() string {
	parts := make([]string, len(s.Statements))
	for i, st := range s.Statements {
		parts[i] = st.String()
	}
	body := strings.Join(parts, " ")
	if s.Program {
		return body
	}
	return fmt.Sprintf("{ %s }", body)
}
