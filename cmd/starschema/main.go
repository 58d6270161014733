// Package main is the entry point for starschema.
package main

import (
	"fmt"
	"os"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
