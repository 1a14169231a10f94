package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Показать информацию о версии",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rupc версия %s\n", Version)
		fmt.Printf("Коммит: %s\n", GitCommit)
		fmt.Printf("Сборка: %s\n", BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
