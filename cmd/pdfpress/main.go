// Package main provides the pdfpress CLI tool for squeezing PDF documents
// under a byte budget and collecting documents from remote sources.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
