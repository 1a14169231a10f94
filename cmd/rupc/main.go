// Command rupc is the driver for the Russian-keyword procedural
// language compiler: lex/parse/check/build/run/repl.
package main

import (
	"fmt"
	"os"

	"github.com/proskuryakov/rupc/cmd/rupc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
