// Command discern decides whether records persisted in two snapshots are the
// same record under declared equivalence rules.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/discern/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// ExitErrors were already reported by the command that returned them.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
