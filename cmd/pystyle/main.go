// Package main provides the entry point for the pystyle CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/pystyle/cmd/pystyle/commands"
	"github.com/Sumatoshi-tech/pystyle/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}
