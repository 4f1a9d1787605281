// Package main provides the levelcheck command.
package main

import (
	"io"
	"os"

	"github.com/leapstack-labs/levelcheck/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	return cli.ExecuteArgs(args, stdout, stderr)
}
