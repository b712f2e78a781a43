package main

import (
	"log"
	"os"
)

// exitCode carries quality-gate failures (verification mismatches under
// --fail-on-mismatch, regressions under --fail-on-regression) to the
// process exit without aborting a run midway.
var exitCode int

func main() {
	// Execute the root command. Cobra handles parsing the arguments.
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
	os.Exit(exitCode)
}
