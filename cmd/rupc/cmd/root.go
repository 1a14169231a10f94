package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rupc",
	Short: "Компилятор учебного языка с русскоязычными ключевыми словами",
	Long: `rupc — компилятор учебного процедурного языка с русскоязычными
ключевыми словами (если/иначе/пока/делать/цикл/вернуть), C-подобные
фигурные скобки для блоков, два независимых бэкенда генерации кода —
CIL (текст для ilasm) и Jasmin (текст для ассемблера JVM).`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "версия %%s" .Version}}
Коммит: %s
Сборка: %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "подробный вывод")
}
