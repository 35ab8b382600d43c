package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docforge/pdfpress"
	"github.com/docforge/pdfpress/internal/codec/gscodec"
	"github.com/docforge/pdfpress/internal/sizefmt"
	"github.com/docforge/pdfpress/internal/stats/logger"
)

var squeezeCmd = &cobra.Command{
	Use:   "squeeze INPUT OUTPUT",
	Short: "Compress a PDF toward a target size",
	Long: `Compress a PDF file toward a target size by binary-searching over the
codec's image quality levels.

The result is the highest-quality rendition that stays within the
tolerance ceiling (target plus tolerance). When no quality level gets
under the ceiling, the smallest rendition observed is kept as a
best-effort fallback and a warning is printed.

Examples:
  # Compress to roughly 500 KB
  pdfpress squeeze report.pdf report-small.pdf --target 500KB

  # Tighter tolerance, narrower quality range
  pdfpress squeeze scan.pdf scan-small.pdf --target 1.5MB --tolerance 0.02 --min-quality 30 --max-quality 80`,
	Args: cobra.ExactArgs(2),
	RunE: runSqueeze,
}

var (
	targetStr     string
	tolerance     float64
	minQuality    int
	maxQuality    int
	maxIterations int
	workDir       string
	gsBinary      string
	journalPath   string
)

func init() {
	squeezeCmd.Flags().StringVar(&targetStr, "target", "", "desired maximum size (e.g. 500KB, 1.5MB)")
	squeezeCmd.Flags().Float64Var(&tolerance, "tolerance", 0.05, "acceptable relative overshoot above the target")
	squeezeCmd.Flags().IntVar(&minQuality, "min-quality", 20, "lower bound for image quality")
	squeezeCmd.Flags().IntVar(&maxQuality, "max-quality", 95, "upper bound for image quality")
	squeezeCmd.Flags().IntVar(&maxIterations, "max-iterations", 8, "maximum number of codec trials")
	squeezeCmd.Flags().StringVar(&workDir, "work-dir", "", "directory for trial files (default: system temp)")
	squeezeCmd.Flags().StringVar(&gsBinary, "gs", gscodec.DefaultBinary, "ghostscript executable")
	squeezeCmd.Flags().StringVar(&journalPath, "journal", "", "append the run to a journal file")
	squeezeCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(squeezeCmd)
}

// validateTolerance rejects flag values outside (0, 1). The library maps a
// zero tolerance to its default, which would silently mask a bad flag value.
func validateTolerance(v float64) error {
	if v <= 0 || v >= 1 {
		return fmt.Errorf("invalid --tolerance %v: must be greater than 0 and less than 1", v)
	}
	return nil
}

func runSqueeze(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	targetBytes, err := sizefmt.Parse(targetStr)
	if err != nil {
		return fmt.Errorf("invalid --target: %w", err)
	}

	if err := validateTolerance(tolerance); err != nil {
		return err
	}

	// A directory output resolves to the input's basename inside it.
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		output = filepath.Join(output, filepath.Base(input))
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	gs := gscodec.New(gscodec.WithBinary(gsBinary), gscodec.WithWorkDir(workDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
		cancel()
	}()

	if err := gs.HealthCheck(ctx); err != nil {
		return fmt.Errorf("ghostscript not available: %w", err)
	}

	opts := []pdfpress.Option{
		pdfpress.WithCodec(gs),
		pdfpress.WithLogger(log.Named("pdfpress")),
		pdfpress.WithStats(logger.New(log.Named("pdfpress.stats"))),
	}
	if journalPath != "" {
		jopt, err := pdfpress.WithJournal(journalPath)
		if err != nil {
			return err
		}
		opts = append(opts, jopt)
	}

	client, err := pdfpress.New(opts...)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	defer client.Close()

	res, err := client.Compress(ctx, pdfpress.Request{
		Input:         input,
		Output:        output,
		TargetBytes:   targetBytes,
		Tolerance:     tolerance,
		MinQuality:    minQuality,
		MaxQuality:    maxQuality,
		MaxIterations: maxIterations,
	})
	if err != nil {
		switch {
		case errors.Is(err, pdfpress.ErrInputNotFound):
			return fmt.Errorf("input PDF not found: %s", input)
		case errors.Is(err, pdfpress.ErrInvalidBudget):
			return err
		default:
			return fmt.Errorf("compressing %s: %w", input, err)
		}
	}

	fmt.Printf("Compressed PDF saved to %s (size: %s)\n", res.OutputPath, sizefmt.Format(res.FinalSize))

	if !res.ReachedTarget {
		if res.Fallback {
			fmt.Fprintln(os.Stderr, "Warning: no quality level satisfied the tolerance window; kept the smallest rendition observed.")
		} else {
			fmt.Fprintln(os.Stderr, "Warning: unable to reach the requested target size exactly, but the output is within the tolerance window.")
		}
		client.Close()
		log.Sync()
		os.Exit(1)
	}
	return nil
}
