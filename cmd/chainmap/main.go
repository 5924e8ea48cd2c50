// Package main provides the entry point for chainmap.
//
// chainmap runs the reference scenario against the concurrent chained
// hash map, drives benchmark workloads with optional Prometheus export,
// and offers an interactive shell over a live map.
package main

import (
	"os"

	"github.com/yndnr/chainmap-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
