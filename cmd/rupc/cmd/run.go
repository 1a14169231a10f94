package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/proskuryakov/rupc/internal/toolchain"
)

var runTarget string

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Собрать, ассемблировать и запустить программу, выводя её stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runTarget, "target", "cil", "цель компиляции: cil или jvm")
}

func runRun(cmd *cobra.Command, args []string) error {
	path := args[0]

	artifact, _, _, err := buildOne(path, runTarget)
	if err != nil {
		return err
	}

	cfg := toolchain.Load()
	result, err := cfg.AssembleAndRun(toolchain.Target(runTarget), path, artifact)
	if err != nil {
		return err
	}

	fmt.Print(result.Stdout)
	if result.Stderr != "" {
		fmt.Fprint(os.Stderr, result.Stderr)
	}
	if result.ExitCode != 0 {
		os.Exit(result.ExitCode)
	}
	return nil
}
