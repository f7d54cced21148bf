package main

import (
	"fmt"
	"os"

	"github.com/de-tools/capacity-atlas/pkg/runtime/terminal"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cli := terminal.NewCLI(terminal.Options{
		Logger: logger,
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
