// Package main is the entry point for the genquote CLI.
package main

import (
	"os"

	"genquote/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
