// Package main is entrypoint to the blastradius cli application.
package main

import (
	"fmt"
	"os"

	"go.interactor.dev/blastradius/cmd/cli/commands"
)

func main() {
	command := commands.NewCommand()
	if err := command.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
