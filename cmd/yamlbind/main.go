package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/reoring/yamlbind/internal/cli"
)

func main() {
	command := cli.NewDefaultCmd()

	err := command.Execute()
	if err != nil {
		if !errors.Is(err, cli.ErrFailed) {
			fmt.Fprintf(os.Stderr, "yamlbind: Error: %s\n", err)
		}
		os.Exit(1)
	}
}
