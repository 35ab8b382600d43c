package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docforge/pdfpress/internal/analysis"
	"github.com/docforge/pdfpress/internal/journal"
	"github.com/docforge/pdfpress/internal/sizefmt"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize past compression runs from a journal",
	Long: `Read a run journal written with 'squeeze --journal' and print aggregate
statistics: run counts, how often the target was reached, and how many
bytes were saved overall.`,
	RunE: runStats,
}

var statsJournalPath string

func init() {
	statsCmd.Flags().StringVar(&statsJournalPath, "journal", "", "journal file to read")
	statsCmd.MarkFlagRequired("journal")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	entries, err := journal.Read(statsJournalPath)
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("Run 'pdfpress squeeze --journal' to start recording.")
		return nil
	}

	var reached, copied, fallbacks, trials int
	var inBytes, outBytes int64
	for _, e := range entries {
		if e.ReachedTarget {
			reached++
		}
		if e.CopiedThrough {
			copied++
		}
		if e.Fallback {
			fallbacks++
		}
		trials += e.Iterations
		inBytes += e.InputBytes
		outBytes += e.FinalBytes
	}

	agg := analysis.Summarize(entries)

	saved := inBytes - outBytes
	fmt.Printf("Runs:            %d\n", len(entries))
	fmt.Printf("Target reached:  %d (%.0f%%)\n", reached, 100*float64(reached)/float64(len(entries)))
	fmt.Printf("Copied through:  %d\n", copied)
	fmt.Printf("Fallback runs:   %d\n", fallbacks)
	fmt.Printf("Codec trials:    %d (%s)\n", trials, describeLine(agg.Trials, "%.1f"))
	fmt.Printf("Input bytes:     %s\n", sizefmt.Format(inBytes))
	fmt.Printf("Output bytes:    %s\n", sizefmt.Format(outBytes))
	if saved > 0 {
		fmt.Printf("Saved:           %s (%.1f%%)\n", sizefmt.Format(saved), 100*float64(saved)/float64(inBytes))
	}
	if agg.Ratio.N > 0 {
		fmt.Printf("Size ratio:      %s\n", describeLine(agg.Ratio, "%.2f"))
	}
	fmt.Printf("Run time (s):    %s\n", describeLine(agg.Seconds, "%.2f"))
	return nil
}

// describeLine renders a sample's mean, median, and spread on one line.
func describeLine(d *analysis.Descriptive, format string) string {
	line := fmt.Sprintf("mean "+format+", median "+format, d.Mean, d.Median)
	if d.N > 1 {
		line += fmt.Sprintf(", stddev "+format, d.StdDev)
		line += fmt.Sprintf(", range "+format+"-"+format, d.Min, d.Max)
	}
	return line
}
