// Command crosscheck is the bare conformance driver. It registers no
// implementations, so "run" only works from a target binary that embeds
// cli.NewRootCommand with its own registry; list, validate, and history
// are fully usable from here.
package main

import (
	"fmt"
	"os"

	"github.com/crosscheck-dev/crosscheck/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand(nil)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
