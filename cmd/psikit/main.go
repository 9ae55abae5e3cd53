// Command psikit runs, validates, replays, and inspects quantum-optics
// experiments.
package main

import (
	"fmt"
	"os"

	"github.com/agomlabs/psikit/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
