package cmd

import (
	"github.com/spf13/cobra"

	"github.com/proskuryakov/rupc/internal/replui"
)

var replNoColor bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Запустить интерактивную сессию",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVar(&replNoColor, "no-color", false, "отключить цветной вывод")
}

func runRepl(cmd *cobra.Command, args []string) error {
	return replui.Start(replui.Options{NoColor: replNoColor})
}
