// Package cil lowers an analyzed AST to CIL assembler text (ilasm
// input): the opcode vocabulary is ldc/ldloc/stloc/ldarg/conv plus the
// typed arithmetic and branch mnemonics, emitted inside the
// `.method`/`.locals init` method-body shape with IL_XXXX/JP_XXXX
// label formatting. Locals are addressed by slot number alone —
// `stloc.s`/`ldloc.s` only need the slot index, since the
// `.locals init` block already declares each slot's type.
package cil

import (
	"fmt"
	"strings"

	"github.com/proskuryakov/rupc/internal/ast"
	"github.com/proskuryakov/rupc/internal/codegen/label"
	"github.com/proskuryakov/rupc/internal/scope"
	"github.com/proskuryakov/rupc/internal/types"
)

var builtins = map[string]string{
	scope.BuiltinPrint:      "[mscorlib]System.Console::Write",
	scope.BuiltinPrintLn:    "[mscorlib]System.Console::WriteLine",
	scope.BuiltinPrintInt:   "[mscorlib]System.Console::WriteLine",
	scope.BuiltinPrintFloat: "[mscorlib]System.Console::WriteLine",
}

// cilTypeName is the ilasm type keyword for a resolved base type. BOOL
// is not given its own IL value type in the original's table; CIL
// represents it as int32 on the evaluation stack, so it is folded in here.
func cilTypeName(t *types.TypeDesc) string {
	switch t.Base {
	case types.VOID:
		return "void"
	case types.FLOAT:
		return "float64"
	case types.STR:
		return "string"
	default:
		return "int32"
	}
}

var arithOps = map[types.BinOp]string{
	types.ADD: "add", types.SUB: "sub", types.MUL: "mul", types.DIV: "div", types.MOD: "rem",
	types.BIT_AND: "and", types.BIT_OR: "or",
}

// branchOps gives the direct conditional-branch mnemonic for each
// comparison, per msil_operators in the original.
var branchOps = map[types.BinOp]string{
	types.GT: "bgt.s", types.GE: "bge.s", types.LT: "blt.s", types.LE: "ble.s",
	types.EQ: "beq.s", types.NEQ: "bne.un.s",
}

// Generator lowers one analyzed program to a single .il text artifact.
type Generator struct {
	assembly string
	out      strings.Builder
}

// New creates a Generator naming the emitted assembly/class assembly.
func New(assembly string) *Generator { return &Generator{assembly: assembly} }

// Generate emits the full .il source for program.
func (g *Generator) Generate(program *ast.StatementList) (string, error) {
	g.out.Reset()
	fmt.Fprintf(&g.out, header, g.assembly, g.assembly, g.assembly)
	g.out.WriteString(ctor)

	for _, stmt := range program.Statements {
		fn, ok := stmt.(*ast.FunctionDefinition)
		if !ok {
			continue
		}
		g.genFunction(fn)
	}

	g.out.WriteString("}\n")
	return g.out.String(), nil
}

const header = `
.assembly extern mscorlib
{
  .publickeytoken = (B7 7A 5C 56 19 34 E0 89 )
  .ver 4:0:0:0
}
.assembly '%s'
{
}
.module '%s.exe'

.class public %s extends [mscorlib]System.Object
{
`

const ctor = `  .method public hidebysig specialname rtspecialname instance void .ctor() cil managed
  {
    ldarg.0
    call instance void [mscorlib]System.Object::.ctor()
    ret
  }

`

func (g *Generator) genFunction(fn *ast.FunctionDefinition) {
	isMain := fn.Name == "главный"
	name := "Main"
	if !isMain {
		name = fmt.Sprintf("func_%d", fn.Ident.Index)
	}

	params := make([]string, len(fn.Params.Params))
	for i, p := range fn.Params.Params {
		params[i] = fmt.Sprintf("%s p_%d", cilTypeName(p.Ident.Type), p.Ident.Index)
	}

	var localsBlock string
	if locals := fn.Scope.Locals; len(locals) > 0 {
		decls := make([]string, len(locals))
		for i, l := range locals {
			decls[i] = fmt.Sprintf("      [%d] %s val_%d", l.Index, cilTypeName(l.Type), l.Index)
		}
		localsBlock = fmt.Sprintf("    .locals init (\n%s\n    )\n", strings.Join(decls, ",\n"))
	}

	lp := label.NewCIL()
	var body strings.Builder
	g.genStatementList(fn.Body, lp, &body)

	entry := ""
	if isMain {
		entry = "    .entrypoint\n"
	}

	fmt.Fprintf(&g.out, "  .method public hidebysig static %s %s(%s) cil managed\n  {\n%s%s\n%s\n  } // end of method\n\n",
		cilTypeName(fn.Ident.Type.Return), name, strings.Join(params, ", "), entry, localsBlock, body.String())
}

// GenerateStatement renders stmt as a standalone CIL instruction
// fragment under its own fresh label sequence, for `rupc repl` to
// display beside the JVM fragment without a full assembly wrapper.
func (g *Generator) GenerateStatement(stmt ast.Statement) string {
	lp := label.NewCIL()
	var out strings.Builder
	g.genStatement(stmt, lp, &out)
	return out.String()
}

func (g *Generator) genStatementList(list *ast.StatementList, lp *label.CILProvider, out *strings.Builder) {
	for _, stmt := range list.Statements {
		g.genStatement(stmt, lp, out)
	}
}

func (g *Generator) genStatement(stmt ast.Statement, lp *label.CILProvider, out *strings.Builder) {
	switch n := stmt.(type) {
	case *ast.VariableDefinition:
		for _, d := range n.Declarators {
			if d.Init != nil {
				g.emitExpr(d.Init, lp, out)
				g.emitStoreIdent(d.Ident, lp, out)
			}
		}
	case *ast.Assign:
		g.emitExpr(n.Value, lp, out)
		if id, ok := n.Target.(*ast.Identifier); ok {
			g.emitStoreIdent(id.Ident, lp, out)
		}
	case *ast.CallStatement:
		g.emitCall(n.Call, lp, out)
	case *ast.If:
		g.genIf(n, lp, out)
	case *ast.While:
		g.genWhile(n, lp, out)
	case *ast.DoWhile:
		g.genDoWhile(n, lp, out)
	case *ast.For:
		g.genFor(n, lp, out)
	case *ast.Return:
		if n.Value != nil {
			g.emitExpr(n.Value, lp, out)
		}
		fmt.Fprintf(out, "    %s: ret\n", lp.NextInlineLabel())
	case *ast.StatementList:
		g.genStatementList(n, lp, out)
	}
}

func (g *Generator) emitLoadIdent(id *scope.IdentDesc, lp *label.CILProvider, out *strings.Builder) {
	op := "ldloc.s"
	if id.Kind == scope.PARAM {
		op = "ldarg.s"
	}
	fmt.Fprintf(out, "    %s: %s %d\n", lp.NextInlineLabel(), op, id.Index)
}

func (g *Generator) emitStoreIdent(id *scope.IdentDesc, lp *label.CILProvider, out *strings.Builder) {
	op := "stloc.s"
	if id.Kind == scope.PARAM {
		op = "starg.s"
	}
	fmt.Fprintf(out, "    %s: %s %d\n", lp.NextInlineLabel(), op, id.Index)
}

// emitExpr emits an expression as a pushed value. Boolean-valued
// comparisons and logical operators are materialized via the same
// short-circuit resolver used for conditions, branching to push a
// 0/1 literal — the generalization the grammar needs for a boolean
// value used outside an `if`/`while`/`for`/`делать` condition.
func (g *Generator) emitExpr(expr ast.Expression, lp *label.CILProvider, out *strings.Builder) {
	switch n := expr.(type) {
	case *ast.Literal:
		g.emitLiteral(n, lp, out)
	case *ast.Identifier:
		g.emitLoadIdent(n.Ident, lp, out)
	case *ast.TypeConvert:
		g.emitExpr(n.Inner, lp, out)
		g.emitConvert(n.Inner.GetType(), n.GetType(), lp, out)
	case *ast.Call:
		g.emitCall(n, lp, out)
	case *ast.BinaryOp:
		if types.IsComparison(n.Op) || n.Op == types.AND || n.Op == types.OR {
			g.materializeBool(n, lp, out)
			return
		}
		g.emitExpr(n.Left, lp, out)
		g.emitExpr(n.Right, lp, out)
		fmt.Fprintf(out, "    %s: %s\n", lp.NextInlineLabel(), arithOps[n.Op])
	}
}

// emitConvert lowers a TypeConvert. Converting to STR has no numeric
// opcode — it calls into System.Convert, which accepts any of the
// three convertible source types without boxing. INT→BOOL shares a
// stack representation (int32) with no normalizing opcode emitted.
func (g *Generator) emitConvert(from, to *types.TypeDesc, lp *label.CILProvider, out *strings.Builder) {
	switch {
	case to.Base == types.STR:
		fmt.Fprintf(out, "    %s: call string [mscorlib]System.Convert::ToString(%s)\n", lp.NextInlineLabel(), cilTypeName(from))
	case from.Base == types.INT && to.Base == types.FLOAT:
		fmt.Fprintf(out, "    %s: conv.r8\n", lp.NextInlineLabel())
	}
}

func (g *Generator) emitLiteral(n *ast.Literal, lp *label.CILProvider, out *strings.Builder) {
	switch n.Kind {
	case ast.LitInt:
		fmt.Fprintf(out, "    %s: ldc.i4.s %d\n", lp.NextInlineLabel(), n.IntVal)
	case ast.LitFloat:
		fmt.Fprintf(out, "    %s: ldc.r8 %g\n", lp.NextInlineLabel(), n.FloatVal)
	case ast.LitBool:
		v := 0
		if n.BoolVal {
			v = 1
		}
		fmt.Fprintf(out, "    %s: ldc.i4.%d\n", lp.NextInlineLabel(), v)
	case ast.LitString:
		var bs []string
		for _, b := range []byte(n.StringVal) {
			bs = append(bs, fmt.Sprintf("%02X", b))
		}
		fmt.Fprintf(out, "    %s: ldstr bytearray (%s )\n", lp.NextInlineLabel(), strings.Join(bs, " "))
	}
}

func (g *Generator) emitCall(n *ast.Call, lp *label.CILProvider, out *strings.Builder) {
	if n.Callee.Ident.BuiltIn {
		for _, arg := range n.Args {
			g.emitExpr(arg, lp, out)
		}
		sig := cilTypeName(n.Args[0].GetType())
		fmt.Fprintf(out, "    %s: call void %s(%s)\n", lp.NextInlineLabel(), builtins[n.Callee.Name], sig)
		return
	}
	for _, arg := range n.Args {
		g.emitExpr(arg, lp, out)
	}
	paramTypes := make([]string, len(n.Args))
	for i, arg := range n.Args {
		paramTypes[i] = cilTypeName(arg.GetType())
	}
	fmt.Fprintf(out, "    %s: call %s %s::func_%d(%s)\n",
		lp.NextInlineLabel(), cilTypeName(n.GetType()), g.assembly, n.Callee.Ident.Index, strings.Join(paramTypes, ", "))
}

// resolveCondition lowers
// node so control flow ends at exactly one of lFalse/lTrue, never
// materializing a boolean value on the stack.
func (g *Generator) resolveCondition(node ast.Expression, lFalse, lTrue string, positive bool, lp *label.CILProvider, out *strings.Builder) {
	bin, isBin := node.(*ast.BinaryOp)

	if !isBin || (bin.Op != types.AND && bin.Op != types.OR && !types.IsComparison(bin.Op)) {
		// A bare boolean-valued expression (identifier, call, literal):
		// push it and branch directly.
		g.emitExpr(node, lp, out)
		if positive {
			fmt.Fprintf(out, "    %s: brtrue.s %s\n", lp.NextInlineLabel(), lTrue)
			fmt.Fprintf(out, "    br.s %s\n", lFalse)
		} else {
			fmt.Fprintf(out, "    %s: brfalse.s %s\n", lp.NextInlineLabel(), lFalse)
			fmt.Fprintf(out, "    br.s %s\n", lTrue)
		}
		return
	}

	if types.IsComparison(bin.Op) {
		op := bin.Op
		target := lTrue
		fallthroughLabel := lFalse
		if !positive {
			op = types.InvertComparison(bin.Op)
			target = lFalse
			fallthroughLabel = lTrue
		}
		g.emitExpr(bin.Left, lp, out)
		g.emitExpr(bin.Right, lp, out)
		fmt.Fprintf(out, "    %s: %s %s\n", lp.NextInlineLabel(), branchOps[op], target)
		fmt.Fprintf(out, "    br.s %s\n", fallthroughLabel)
		return
	}

	if bin.Op == types.OR {
		rhsLabel := lp.NextJumpLabel()
		g.resolveCondition(bin.Left, rhsLabel, lTrue, true, lp, out)
		lp.PushLabel(rhsLabel)
		g.resolveCondition(bin.Right, lFalse, lTrue, true, lp, out)
		return
	}
	// AND
	rhsLabel := lp.NextJumpLabel()
	g.resolveCondition(bin.Left, lFalse, rhsLabel, true, lp, out)
	lp.PushLabel(rhsLabel)
	g.resolveCondition(bin.Right, lFalse, lTrue, true, lp, out)
}

func (g *Generator) materializeBool(node ast.Expression, lp *label.CILProvider, out *strings.Builder) {
	lFalse := lp.NextJumpLabel()
	lTrue := lp.NextJumpLabel()
	lEnd := lp.NextJumpLabel()
	g.resolveCondition(node, lFalse, lTrue, false, lp, out)
	lp.PushLabel(lTrue)
	fmt.Fprintf(out, "    %s: ldc.i4.1\n", lp.NextInlineLabel())
	fmt.Fprintf(out, "    br.s %s\n", lEnd)
	lp.PushLabel(lFalse)
	fmt.Fprintf(out, "    %s: ldc.i4.0\n", lp.NextInlineLabel())
	lp.PushLabel(lEnd)
}

func (g *Generator) genIf(n *ast.If, lp *label.CILProvider, out *strings.Builder) {
	lFalse := lp.NextJumpLabel()
	lTrue := lp.NextJumpLabel()
	g.resolveCondition(n.Cond, lFalse, lTrue, false, lp, out)

	if n.Else == nil {
		lp.PushLabel(lTrue)
		g.genStatementList(n.Then, lp, out)
		lp.PushLabel(lFalse)
		return
	}

	lEnd := lp.NextJumpLabel()
	lp.PushLabel(lTrue)
	g.genStatementList(n.Then, lp, out)
	fmt.Fprintf(out, "    %s: br.s %s\n", lp.NextInlineLabel(), lEnd)
	lp.PushLabel(lFalse)
	g.genStatementList(n.Else, lp, out)
	lp.PushLabel(lEnd)
}

func (g *Generator) genWhile(n *ast.While, lp *label.CILProvider, out *strings.Builder) {
	lCheck := lp.NextJumpLabel()
	lBody := lp.NextJumpLabel()
	lEnd := lp.NextJumpLabel()

	fmt.Fprintf(out, "    %s: br.s %s\n", lp.NextInlineLabel(), lCheck)
	lp.PushLabel(lBody)
	g.genStatementList(n.Body, lp, out)
	lp.PushLabel(lCheck)
	g.resolveCondition(n.Cond, lEnd, lBody, true, lp, out)
	lp.PushLabel(lEnd)
}

func (g *Generator) genDoWhile(n *ast.DoWhile, lp *label.CILProvider, out *strings.Builder) {
	lBody := lp.NextJumpLabel()
	lEnd := lp.NextJumpLabel()

	lp.PushLabel(lBody)
	g.genStatementList(n.Body, lp, out)
	g.resolveCondition(n.Cond, lEnd, lBody, true, lp, out)
	lp.PushLabel(lEnd)
}

func (g *Generator) genFor(n *ast.For, lp *label.CILProvider, out *strings.Builder) {
	lCheck := lp.NextJumpLabel()
	lBody := lp.NextJumpLabel()
	lEnd := lp.NextJumpLabel()

	if n.Init != nil {
		g.genStatement(n.Init, lp, out)
	}
	fmt.Fprintf(out, "    %s: br.s %s\n", lp.NextInlineLabel(), lCheck)

	lp.PushLabel(lBody)
	g.genStatementList(n.Body, lp, out)
	if n.Step != nil {
		g.genStatement(n.Step, lp, out)
	}
	lp.PushLabel(lCheck)
	g.resolveCondition(n.Cond, lEnd, lBody, true, lp, out)
	lp.PushLabel(lEnd)
}
