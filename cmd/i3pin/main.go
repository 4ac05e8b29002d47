// Package main is the entry point for the i3pin CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "i3pin: %v\n", err)
		os.Exit(1)
	}
}
