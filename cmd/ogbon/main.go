// Package main provides the entry point for the ogbon CLI.
package main

import (
	"errors"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		// validate has already reported its findings.
		if !errors.Is(err, errValidationFailed) {
			printError(err)
		}
		os.Exit(exitCode(err))
	}
}
