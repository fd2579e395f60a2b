// Command deswitch restores native switch statements in IR modules.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/deswitch/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// ExitErrors were already reported by the command's formatter; usage
	// errors from cobra were not.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(cli.GetExitCode(err))
}
