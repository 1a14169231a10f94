package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proskuryakov/rupc/internal/ast"
	cerrors "github.com/proskuryakov/rupc/internal/errors"
	"github.com/proskuryakov/rupc/internal/scope"
	"github.com/proskuryakov/rupc/internal/semantic"
)

// semanticResult bundles the outcome of a successful lex→parse→analyze
// run, for build/run to continue from without re-analyzing.
type semanticResult struct {
	program *ast.StatementList
	scope   *scope.Scope
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Выполнить только семантический анализ",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, err := analyzeFile(args[0])
	if err != nil {
		return err
	}
	return nil
}

// analyzeFile runs the full lex→parse→analyze pipeline on path,
// formatting a single semantic error in the short "Ошибка: ..." shape;
// an aggregated *semantic.AnalysisError is returned unchanged.
func analyzeFile(path string) (*semanticResult, error) {
	program, source, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	an := semantic.New(source, path)
	global, err := an.Analyze(program)
	if err != nil {
		if ce, ok := err.(*cerrors.CompilerError); ok {
			return nil, fmt.Errorf("%s", ce.Short())
		}
		return nil, err
	}
	return &semanticResult{program: program, scope: global}, nil
}
