// Package main is the entry point for the sightline CLI.
// It resolves property names against files, environment variables and
// command line options, and reports where each value came from.
package main

import (
	"log"
	"os"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr, os.Environ())
	if err := cmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
