// Package jvm lowers an analyzed AST to Jasmin assembler text: the
// opcode vocabulary is bipush/ldc/iload/fload/istore/fstore, typed
// arithmetic mnemonics, if_icmpXX/fcmpl+ifXX comparisons, and
// invokestatic/invokevirtual/getstatic, emitted inside the
// .method/.limit stack/.limit locals method-body shape with a
// decimal-only label scheme shared between jump and inline labels.
//
// String-typed locals/params and the вывод/вывод_перенос builtins (in
// addition to вывод_целый/вывод_вещ) are implemented alongside the
// numeric path below.
package jvm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/proskuryakov/rupc/internal/ast"
	"github.com/proskuryakov/rupc/internal/codegen/label"
	"github.com/proskuryakov/rupc/internal/scope"
	"github.com/proskuryakov/rupc/internal/types"
)

// jvmType is the JVM descriptor letter/name for a base type. BOOL is
// folded into I, matching the int representation the original uses for
// boolean values on the operand stack and in locals.
func jvmType(t *types.TypeDesc) string {
	switch t.Base {
	case types.VOID:
		return "V"
	case types.FLOAT:
		return "F"
	case types.STR:
		return "Ljava/lang/String;"
	default:
		return "I"
	}
}

// category groups a base type into the operand-stack kind that decides
// which load/store/compare opcode family applies.
type category int

const (
	catInt category = iota
	catFloat
	catRef
)

func catOf(t *types.TypeDesc) category {
	switch t.Base {
	case types.FLOAT:
		return catFloat
	case types.STR:
		return catRef
	default:
		return catInt
	}
}

func loadOp(t *types.TypeDesc) string {
	switch catOf(t) {
	case catFloat:
		return "fload"
	case catRef:
		return "aload"
	default:
		return "iload"
	}
}

func storeOp(t *types.TypeDesc) string {
	switch catOf(t) {
	case catFloat:
		return "fstore"
	case catRef:
		return "astore"
	default:
		return "istore"
	}
}

var arithOps = map[types.BinOp]map[category]string{
	types.ADD: {catInt: "iadd", catFloat: "fadd"},
	types.SUB: {catInt: "isub", catFloat: "fsub"},
	types.MUL: {catInt: "imul", catFloat: "fmul"},
	types.DIV: {catInt: "idiv", catFloat: "fdiv"},
	types.MOD: {catInt: "irem", catFloat: "frem"},
}

// intCompareOps branch directly off the two pushed operands, per
// jbc_operators in the original — no preceding comparison opcode needed
// for int-category operands.
var intCompareOps = map[types.BinOp]string{
	types.GT: "if_icmpgt", types.GE: "if_icmpge", types.LT: "if_icmplt", types.LE: "if_icmple",
	types.EQ: "if_icmpeq", types.NEQ: "if_icmpne",
}

// zeroCompareOps branch against an implicit zero left on the stack by a
// preceding fcmpl (float operands) or invokevirtual compareTo (string
// operands), per jbc_compare_additions.
var zeroCompareOps = map[types.BinOp]string{
	types.GT: "ifgt", types.GE: "ifge", types.LT: "iflt", types.LE: "ifle",
	types.EQ: "ifeq", types.NEQ: "ifne",
}

var builtins = map[string]struct {
	method string
	desc   string
}{
	scope.BuiltinPrint:      {"print", "(Ljava/lang/String;)V"},
	scope.BuiltinPrintLn:    {"println", "(Ljava/lang/String;)V"},
	scope.BuiltinPrintInt:   {"println", "(I)V"},
	scope.BuiltinPrintFloat: {"println", "(F)V"},
}

// Generator lowers one analyzed program to a single .j text artifact.
type Generator struct {
	class string
	out   strings.Builder
}

// New creates a Generator naming the emitted class file.
func New(class string) *Generator { return &Generator{class: class} }

// Generate emits the full .j source for program.
func (g *Generator) Generate(program *ast.StatementList) (string, error) {
	g.out.Reset()
	fmt.Fprintf(&g.out, header, g.class, g.class)
	g.out.WriteString(ctor)

	for _, stmt := range program.Statements {
		fn, ok := stmt.(*ast.FunctionDefinition)
		if !ok {
			continue
		}
		g.genFunction(fn)
	}

	return g.out.String(), nil
}

const header = `.class public %s
.super java/lang/Object

`

const ctor = `.method public <init>()V
  .limit stack 1
  .limit locals 1
  aload_0
  invokespecial java/lang/Object/<init>()V
  return
.end method

`

func (g *Generator) genFunction(fn *ast.FunctionDefinition) {
	isMain := fn.Name == "главный"

	name := fmt.Sprintf("func_%d", fn.Ident.Index)
	paramDescs := make([]string, len(fn.Params.Params))
	for i, p := range fn.Params.Params {
		paramDescs[i] = jvmType(p.Ident.Type)
	}
	retDesc := jvmType(fn.Ident.Type.Return)
	localsOffset := len(fn.Params.Params)

	if isMain {
		name = "main"
		paramDescs = []string{"[Ljava/lang/String;"}
		retDesc = "V"
		localsOffset = 1
	}

	locals := fn.Scope.Locals
	lp := label.NewJVM()
	var body strings.Builder
	g.genStatementList(fn.Body, localsOffset, lp, &body)

	if fn.Ident.Type.Return.Equal(types.Void) || isMain {
		fmt.Fprintf(&body, "    return\n")
	}

	limitLocals := localsOffset + len(locals)
	if limitLocals == 0 {
		limitLocals = 1
	}

	fmt.Fprintf(&g.out, ".method public static %s(%s)%s\n  .limit stack 64\n  .limit locals %d\n%s.end method\n\n",
		name, strings.Join(paramDescs, ""), retDesc, limitLocals, body.String())
}

// GenerateStatement renders stmt as a standalone Jasmin instruction
// fragment under its own fresh label sequence, for `rupc repl`.
// localsOffset is 0 at REPL top level, since session variables are
// tracked as globals, not function params.
func (g *Generator) GenerateStatement(stmt ast.Statement, localsOffset int) string {
	lp := label.NewJVM()
	var out strings.Builder
	g.genStatement(stmt, localsOffset, lp, &out)
	return out.String()
}

func (g *Generator) genStatementList(list *ast.StatementList, off int, lp *label.JVMProvider, out *strings.Builder) {
	for _, stmt := range list.Statements {
		g.genStatement(stmt, off, lp, out)
	}
}

func (g *Generator) genStatement(stmt ast.Statement, off int, lp *label.JVMProvider, out *strings.Builder) {
	switch n := stmt.(type) {
	case *ast.VariableDefinition:
		for _, d := range n.Declarators {
			if d.Init != nil {
				g.emitExpr(d.Init, off, lp, out)
				g.emitStoreIdent(d.Ident, off, lp, out)
			}
		}
	case *ast.Assign:
		g.emitExpr(n.Value, off, lp, out)
		if id, ok := n.Target.(*ast.Identifier); ok {
			g.emitStoreIdent(id.Ident, off, lp, out)
		}
	case *ast.CallStatement:
		g.emitCall(n.Call, off, lp, out)
	case *ast.If:
		g.genIf(n, off, lp, out)
	case *ast.While:
		g.genWhile(n, off, lp, out)
	case *ast.DoWhile:
		g.genDoWhile(n, off, lp, out)
	case *ast.For:
		g.genFor(n, off, lp, out)
	case *ast.Return:
		if n.Value != nil {
			g.emitExpr(n.Value, off, lp, out)
			fmt.Fprintf(out, "  %s: %s\n", lp.NextInlineLabel(), returnOp(n.Value.GetType()))
			return
		}
		fmt.Fprintf(out, "  %s: return\n", lp.NextInlineLabel())
	case *ast.StatementList:
		g.genStatementList(n, off, lp, out)
	}
}

func returnOp(t *types.TypeDesc) string {
	switch catOf(t) {
	case catFloat:
		return "freturn"
	case catRef:
		return "areturn"
	default:
		return "ireturn"
	}
}

// localSlot maps an identifier to its JVM local-variable-table index:
// parameters keep their raw slot, locals are pushed past the function's
// parameter count (JVM conflates params and locals into a single
// indexed frame, unlike CIL's separate arg/loc spaces).
func localSlot(id *scope.IdentDesc, off int) int {
	if id.Kind == scope.PARAM {
		return id.Index
	}
	return off + id.Index
}

func (g *Generator) emitLoadIdent(id *scope.IdentDesc, off int, lp *label.JVMProvider, out *strings.Builder) {
	fmt.Fprintf(out, "  %s: %s %d\n", lp.NextInlineLabel(), loadOp(id.Type), localSlot(id, off))
}

func (g *Generator) emitStoreIdent(id *scope.IdentDesc, off int, lp *label.JVMProvider, out *strings.Builder) {
	fmt.Fprintf(out, "  %s: %s %d\n", lp.NextInlineLabel(), storeOp(id.Type), localSlot(id, off))
}

// emitExpr emits an expression as a pushed value. Boolean-valued
// comparisons and logical operators are materialized via the same
// short-circuit resolver used for conditions — the generalization the
// grammar needs for a boolean value used outside a condition position.
func (g *Generator) emitExpr(expr ast.Expression, off int, lp *label.JVMProvider, out *strings.Builder) {
	switch n := expr.(type) {
	case *ast.Literal:
		g.emitLiteral(n, lp, out)
	case *ast.Identifier:
		g.emitLoadIdent(n.Ident, off, lp, out)
	case *ast.TypeConvert:
		g.emitExpr(n.Inner, off, lp, out)
		g.emitConvert(n.Inner.GetType(), n.GetType(), lp, out)
	case *ast.Call:
		g.emitCall(n, off, lp, out)
	case *ast.BinaryOp:
		if types.IsComparison(n.Op) || n.Op == types.AND || n.Op == types.OR {
			g.materializeBool(n, off, lp, out)
			return
		}
		g.emitExpr(n.Left, off, lp, out)
		g.emitExpr(n.Right, off, lp, out)
		fmt.Fprintf(out, "  %s: %s\n", lp.NextInlineLabel(), arithOps[n.Op][catOf(n.Left.GetType())])
	}
}

// emitConvert lowers a TypeConvert. Converting to STR has no numeric
// opcode — it calls String.valueOf, which has an overload for each of
// the three convertible source categories. INT→BOOL shares a stack
// representation (int) with no normalizing opcode emitted. INT→FLOAT
// widens with i2f.
func (g *Generator) emitConvert(from, to *types.TypeDesc, lp *label.JVMProvider, out *strings.Builder) {
	switch {
	case to.Base == types.STR:
		fmt.Fprintf(out, "  %s: invokestatic java/lang/String/valueOf(%s)Ljava/lang/String;\n", lp.NextInlineLabel(), jvmType(from))
	case from.Base == types.INT && to.Base == types.FLOAT:
		fmt.Fprintf(out, "  %s: i2f\n", lp.NextInlineLabel())
	}
}

func (g *Generator) emitLiteral(n *ast.Literal, lp *label.JVMProvider, out *strings.Builder) {
	switch n.Kind {
	case ast.LitInt:
		g.emitIntConst(n.IntVal, lp, out)
	case ast.LitFloat:
		fmt.Fprintf(out, "  %s: ldc %s\n", lp.NextInlineLabel(), strconv.FormatFloat(n.FloatVal, 'g', -1, 32))
	case ast.LitBool:
		v := 0
		if n.BoolVal {
			v = 1
		}
		fmt.Fprintf(out, "  %s: iconst_%d\n", lp.NextInlineLabel(), v)
	case ast.LitString:
		fmt.Fprintf(out, "  %s: ldc %q\n", lp.NextInlineLabel(), n.StringVal)
	}
}

func (g *Generator) emitIntConst(v int64, lp *label.JVMProvider, out *strings.Builder) {
	lbl := lp.NextInlineLabel()
	switch {
	case v >= -1 && v <= 5:
		fmt.Fprintf(out, "  %s: iconst_%d\n", lbl, v)
	case v >= -128 && v <= 127:
		fmt.Fprintf(out, "  %s: bipush %d\n", lbl, v)
	case v >= -32768 && v <= 32767:
		fmt.Fprintf(out, "  %s: sipush %d\n", lbl, v)
	default:
		fmt.Fprintf(out, "  %s: ldc %d\n", lbl, v)
	}
}

func (g *Generator) emitCall(n *ast.Call, off int, lp *label.JVMProvider, out *strings.Builder) {
	if n.Callee.Ident.BuiltIn {
		b := builtins[n.Callee.Name]
		fmt.Fprintf(out, "  %s: getstatic java/lang/System/out Ljava/io/PrintStream;\n", lp.NextInlineLabel())
		for _, arg := range n.Args {
			g.emitExpr(arg, off, lp, out)
		}
		fmt.Fprintf(out, "    invokevirtual java/io/PrintStream/%s%s\n", b.method, b.desc)
		return
	}
	for _, arg := range n.Args {
		g.emitExpr(arg, off, lp, out)
	}
	argDescs := make([]string, len(n.Args))
	for i, arg := range n.Args {
		argDescs[i] = jvmType(arg.GetType())
	}
	fmt.Fprintf(out, "  %s: invokestatic %s/func_%d(%s)%s\n",
		lp.NextInlineLabel(), g.class, n.Callee.Ident.Index, strings.Join(argDescs, ""), jvmType(n.GetType()))
}

// resolveCondition lowers
// node so control flow ends at exactly one of lFalse/lTrue, never
// materializing a boolean value on the stack.
func (g *Generator) resolveCondition(node ast.Expression, lFalse, lTrue string, positive bool, off int, lp *label.JVMProvider, out *strings.Builder) {
	bin, isBin := node.(*ast.BinaryOp)

	if !isBin || (bin.Op != types.AND && bin.Op != types.OR && !types.IsComparison(bin.Op)) {
		// A bare boolean-valued expression (identifier, call, literal):
		// push it and branch directly.
		g.emitExpr(node, off, lp, out)
		if positive {
			fmt.Fprintf(out, "  %s: ifne %s\n", lp.NextInlineLabel(), lTrue)
			fmt.Fprintf(out, "    goto %s\n", lFalse)
		} else {
			fmt.Fprintf(out, "  %s: ifeq %s\n", lp.NextInlineLabel(), lFalse)
			fmt.Fprintf(out, "    goto %s\n", lTrue)
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
		g.emitExpr(bin.Left, off, lp, out)
		g.emitExpr(bin.Right, off, lp, out)
		switch catOf(bin.Left.GetType()) {
		case catInt:
			fmt.Fprintf(out, "  %s: %s %s\n", lp.NextInlineLabel(), intCompareOps[op], target)
		case catFloat:
			fmt.Fprintf(out, "  %s: fcmpl\n", lp.NextInlineLabel())
			fmt.Fprintf(out, "    %s %s\n", zeroCompareOps[op], target)
		case catRef:
			fmt.Fprintf(out, "  %s: invokevirtual java/lang/String/compareTo(Ljava/lang/Object;)I\n", lp.NextInlineLabel())
			fmt.Fprintf(out, "    %s %s\n", zeroCompareOps[op], target)
		}
		fmt.Fprintf(out, "    goto %s\n", fallthroughLabel)
		return
	}

	if bin.Op == types.OR {
		rhsLabel := lp.NextJumpLabel()
		g.resolveCondition(bin.Left, rhsLabel, lTrue, true, off, lp, out)
		lp.PushLabel(rhsLabel)
		g.resolveCondition(bin.Right, lFalse, lTrue, true, off, lp, out)
		return
	}
	// AND
	rhsLabel := lp.NextJumpLabel()
	g.resolveCondition(bin.Left, lFalse, rhsLabel, true, off, lp, out)
	lp.PushLabel(rhsLabel)
	g.resolveCondition(bin.Right, lFalse, lTrue, true, off, lp, out)
}

func (g *Generator) materializeBool(node ast.Expression, off int, lp *label.JVMProvider, out *strings.Builder) {
	lFalse := lp.NextJumpLabel()
	lTrue := lp.NextJumpLabel()
	lEnd := lp.NextJumpLabel()
	g.resolveCondition(node, lFalse, lTrue, false, off, lp, out)
	lp.PushLabel(lTrue)
	fmt.Fprintf(out, "  %s: iconst_1\n", lp.NextInlineLabel())
	fmt.Fprintf(out, "    goto %s\n", lEnd)
	lp.PushLabel(lFalse)
	fmt.Fprintf(out, "  %s: iconst_0\n", lp.NextInlineLabel())
	lp.PushLabel(lEnd)
}

func (g *Generator) genIf(n *ast.If, off int, lp *label.JVMProvider, out *strings.Builder) {
	lFalse := lp.NextJumpLabel()
	lTrue := lp.NextJumpLabel()
	g.resolveCondition(n.Cond, lFalse, lTrue, false, off, lp, out)

	if n.Else == nil {
		lp.PushLabel(lTrue)
		g.genStatementList(n.Then, off, lp, out)
		lp.PushLabel(lFalse)
		return
	}

	lEnd := lp.NextJumpLabel()
	lp.PushLabel(lTrue)
	g.genStatementList(n.Then, off, lp, out)
	fmt.Fprintf(out, "  %s: goto %s\n", lp.NextInlineLabel(), lEnd)
	lp.PushLabel(lFalse)
	g.genStatementList(n.Else, off, lp, out)
	lp.PushLabel(lEnd)
}

// genWhile checks the condition at the top of each iteration — jump
// straight to the check, loop body falls through to it on completion.
func (g *Generator) genWhile(n *ast.While, off int, lp *label.JVMProvider, out *strings.Builder) {
	lCheck := lp.NextJumpLabel()
	lBody := lp.NextJumpLabel()
	lEnd := lp.NextJumpLabel()

	fmt.Fprintf(out, "  %s: goto %s\n", lp.NextInlineLabel(), lCheck)
	lp.PushLabel(lBody)
	g.genStatementList(n.Body, off, lp, out)
	lp.PushLabel(lCheck)
	g.resolveCondition(n.Cond, lEnd, lBody, true, off, lp, out)
	lp.PushLabel(lEnd)
}

// genDoWhile checks the condition at the bottom — the body always runs
// once before the first check.
func (g *Generator) genDoWhile(n *ast.DoWhile, off int, lp *label.JVMProvider, out *strings.Builder) {
	lBody := lp.NextJumpLabel()
	lEnd := lp.NextJumpLabel()

	lp.PushLabel(lBody)
	g.genStatementList(n.Body, off, lp, out)
	g.resolveCondition(n.Cond, lEnd, lBody, true, off, lp, out)
	lp.PushLabel(lEnd)
}

func (g *Generator) genFor(n *ast.For, off int, lp *label.JVMProvider, out *strings.Builder) {
	lCheck := lp.NextJumpLabel()
	lBody := lp.NextJumpLabel()
	lEnd := lp.NextJumpLabel()

	if n.Init != nil {
		g.genStatement(n.Init, off, lp, out)
	}
	fmt.Fprintf(out, "  %s: goto %s\n", lp.NextInlineLabel(), lCheck)

	lp.PushLabel(lBody)
	g.genStatementList(n.Body, off, lp, out)
	if n.Step != nil {
		g.genStatement(n.Step, off, lp, out)
	}
	lp.PushLabel(lCheck)
	g.resolveCondition(n.Cond, lEnd, lBody, true, off, lp, out)
	lp.PushLabel(lEnd)
}
