// Command tasks is the root entry point, so the tool installs with
// `go install github.com/idilsaglam/tasks@latest`. It is the same binary as
// cmd/tasks.
package main

import (
	"os"

	"github.com/idilsaglam/tasks/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
