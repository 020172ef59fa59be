// Command reldir rewrites Cypher relationship directions to agree with a
// schema of (Source, TYPE, Target) definitions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/reldir/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own failures; anything else is a usage
		// error from cobra.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(exitErr.Code)
	}
}
