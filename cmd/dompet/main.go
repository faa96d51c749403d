// Package main is the entry point for the dompet ledger.
package main

import (
	"os"

	"dompet/cmd/dompet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
