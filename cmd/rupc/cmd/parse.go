package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/proskuryakov/rupc/internal/ast"
	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/parser"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Разобрать исходный файл и вывести дерево разбора",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "вывести полную структуру дерева")
}

func runParse(cmd *cobra.Command, args []string) error {
	program, _, err := parseFile(args[0])
	if err != nil {
		return err
	}

	if parseDumpAST {
		dumpASTNode(program, 0)
	} else {
		fmt.Println(program.String())
	}
	return nil
}

// parseFile is the shared file→program pipeline step used by parse,
// check, build, and run. It returns the parsed program alongside the
// raw source text, needed downstream for error source-context display.
func parseFile(path string) (*ast.StatementList, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("не удалось прочитать файл %s: %w", path, err)
	}
	source := string(content)

	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		var sb strings.Builder
		fmt.Fprintf(&sb, "ошибки разбора %s:\n", path)
		for _, e := range errs {
			fmt.Fprintf(&sb, "  %s\n", e.Error())
		}
		return nil, "", fmt.Errorf("%s", strings.TrimRight(sb.String(), "\n"))
	}
	return program, source, nil
}

// dumpASTNode prints node's structure recursively.
func dumpASTNode(node ast.Node, indent int) {
	pad := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.StatementList:
		label := "Блок"
		if n.Program {
			label = "Программа"
		}
		fmt.Printf("%s%s (%d операторов)\n", pad, label, len(n.Statements))
		for _, s := range n.Statements {
			dumpASTNode(s, indent+1)
		}
	case *ast.FunctionDefinition:
		fmt.Printf("%sФункция %s(%s) -> %s\n", pad, n.Name, n.Params.String(), n.ReturnType.String())
		dumpASTNode(n.Body, indent+1)
	case *ast.FunctionDeclaration:
		fmt.Printf("%sОбъявление %s(%s) -> %s\n", pad, n.Name, n.Params.String(), n.ReturnType.String())
	case *ast.VariableDefinition:
		for _, d := range n.Declarators {
			fmt.Printf("%sПеременная %s: %s\n", pad, d.Name, n.Type.String())
			if d.Init != nil {
				dumpASTNode(d.Init, indent+1)
			}
		}
	case *ast.Assign:
		fmt.Printf("%sПрисваивание\n", pad)
		dumpASTNode(n.Target, indent+1)
		dumpASTNode(n.Value, indent+1)
	case *ast.CallStatement:
		dumpASTNode(n.Call, indent)
	case *ast.If:
		fmt.Printf("%sЕсли\n", pad)
		dumpASTNode(n.Cond, indent+1)
		dumpASTNode(n.Then, indent+1)
		if n.Else != nil {
			dumpASTNode(n.Else, indent+1)
		}
	case *ast.While:
		fmt.Printf("%sПока\n", pad)
		dumpASTNode(n.Cond, indent+1)
		dumpASTNode(n.Body, indent+1)
	case *ast.DoWhile:
		fmt.Printf("%sДелать-пока\n", pad)
		dumpASTNode(n.Body, indent+1)
		dumpASTNode(n.Cond, indent+1)
	case *ast.For:
		fmt.Printf("%sЦикл\n", pad)
		if n.Init != nil {
			dumpASTNode(n.Init, indent+1)
		}
		dumpASTNode(n.Cond, indent+1)
		if n.Step != nil {
			dumpASTNode(n.Step, indent+1)
		}
		dumpASTNode(n.Body, indent+1)
	case *ast.Return:
		fmt.Printf("%sВернуть\n", pad)
		if n.Value != nil {
			dumpASTNode(n.Value, indent+1)
		}
	case *ast.BinaryOp:
		fmt.Printf("%sБинарная операция (%s)\n", pad, n.Op.String())
		dumpASTNode(n.Left, indent+1)
		dumpASTNode(n.Right, indent+1)
	case *ast.Call:
		fmt.Printf("%sВызов %s\n", pad, n.Callee.Name)
		for _, a := range n.Args {
			dumpASTNode(a, indent+1)
		}
	case *ast.Identifier:
		fmt.Printf("%sИдентификатор: %s\n", pad, n.Name)
	case *ast.Literal:
		fmt.Printf("%sЛитерал: %s\n", pad, n.String())
	default:
		fmt.Printf("%s%T: %s\n", pad, node, node.String())
	}
}
