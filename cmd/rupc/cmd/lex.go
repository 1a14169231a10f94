package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/proskuryakov/rupc/internal/lexer"
)

var lexShowPos bool

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Разбить исходный файл на токены и вывести их",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", true, "показывать позицию каждого токена")
}

func runLex(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл %s: %w", args[0], err)
	}

	l := lexer.New(string(content))
	illegal := 0
	for {
		tok := l.NextToken()
		if lexShowPos {
			fmt.Println(tok.String())
		} else {
			fmt.Printf("%s(%q)\n", tok.Type, tok.Literal)
		}
		if tok.Type == lexer.ILLEGAL {
			illegal++
		}
		if tok.Type == lexer.EOF {
			break
		}
	}
	if illegal > 0 {
		return fmt.Errorf("обнаружено %d недопустимых токенов", illegal)
	}
	return nil
}
