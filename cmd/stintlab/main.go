// main is the entry point for the stintlab CLI.
package main

import (
	"os"

	"github.com/apexmetrics/stintlab/cmd"
	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/internal/iostore"
)

func main() {
	err := cmd.Execute()

	// Close before any exit so SQLite flushes cleanly.
	iostore.CloseStore()

	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
