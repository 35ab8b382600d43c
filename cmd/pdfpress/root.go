package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags.
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfpress",
	Short: "Squeeze PDF documents under a byte budget",
	Long: `Pdfpress compresses PDF files toward a target size by searching over
the codec's image quality levels, and collects documents from local or
cloud sources for batch processing.

Examples:
  # Compress a PDF to roughly 500 KB
  pdfpress squeeze report.pdf report-small.pdf --target 500KB

  # Mirror PDFs from a bucket into a local directory
  pdfpress collect --source gs://acme-docs/inbox --dest ./inbox

  # Summarize past runs
  pdfpress stats --journal ./pdfpress.jsonl.zst`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// newLogger builds the CLI logger. Verbose mode switches to a human-readable
// development config at debug level.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
