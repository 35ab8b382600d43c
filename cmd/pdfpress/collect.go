package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docforge/pdfpress/internal/collect"
	"github.com/docforge/pdfpress/internal/sizefmt"
	"github.com/docforge/pdfpress/internal/source"
	"github.com/docforge/pdfpress/internal/source/fssource"
	"github.com/docforge/pdfpress/internal/source/gcssource"
	"github.com/docforge/pdfpress/internal/source/s3source"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Mirror documents from a remote source into a local directory",
	Long: `Discover documents in a source and copy the matching ones into a local
directory, preserving their path structure. A manifest.json describing
the sweep is written into the destination.

Sources:
  ./some/dir                local directory
  gs://bucket/prefix        Google Cloud Storage
  s3://bucket/prefix        Amazon S3

Examples:
  # One-off mirror of a bucket's PDFs
  pdfpress collect --source gs://acme-docs/inbox --dest ./inbox

  # Sweep every 10 minutes, newest documents only
  pdfpress collect --source s3://acme-docs/scans --dest ./scans --since 24h --interval 10m`,
	RunE: runCollect,
}

var (
	collectSource string
	collectDest   string
	collectExts   []string
	collectSince  time.Duration
	collectMax    int
	collectEvery  time.Duration
)

func init() {
	collectCmd.Flags().StringVar(&collectSource, "source", "", "source directory or bucket URL")
	collectCmd.Flags().StringVar(&collectDest, "dest", "", "destination directory")
	collectCmd.Flags().StringSliceVar(&collectExts, "ext", []string{".pdf"}, "filename extensions to collect")
	collectCmd.Flags().DurationVar(&collectSince, "since", 0, "only collect objects modified within this window (0 = all)")
	collectCmd.Flags().IntVar(&collectMax, "max-files", 0, "maximum files to copy per sweep (0 = unlimited)")
	collectCmd.Flags().DurationVar(&collectEvery, "interval", 0, "re-sweep on this interval (0 = run once)")
	collectCmd.MarkFlagRequired("source")
	collectCmd.MarkFlagRequired("dest")
	rootCmd.AddCommand(collectCmd)
}

// openSource builds the right backend from the source string.
func openSource(ctx context.Context, uri string) (source.Source, error) {
	switch {
	case strings.HasPrefix(uri, "gs://"):
		bucket, prefix, err := splitBucketURL(uri, "gs://")
		if err != nil {
			return nil, err
		}
		return gcssource.New(ctx, bucket, gcssource.WithPrefix(prefix))
	case strings.HasPrefix(uri, "s3://"):
		bucket, prefix, err := splitBucketURL(uri, "s3://")
		if err != nil {
			return nil, err
		}
		return s3source.New(ctx, bucket, s3source.WithPrefix(prefix))
	default:
		return fssource.New(uri)
	}
}

// splitBucketURL parses "scheme://bucket/prefix" into bucket and prefix.
func splitBucketURL(uri, scheme string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(uri, scheme)
	parts := strings.SplitN(rest, "/", 2)
	if parts[0] == "" {
		return "", "", fmt.Errorf("invalid source %q: missing bucket name", uri)
	}
	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}
	return bucket, prefix, nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, stopping...")
		cancel()
	}()

	src, err := openSource(ctx, collectSource)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer src.Close()

	opts := []collect.Option{
		collect.WithExtensions(collectExts),
		collect.WithMaxFiles(collectMax),
		collect.WithLogger(log.Named("collect")),
	}
	if collectSince > 0 {
		opts = append(opts, collect.WithSince(time.Now().Add(-collectSince)))
	}

	c, err := collect.New(src, collectDest, opts...)
	if err != nil {
		return fmt.Errorf("creating collector: %w", err)
	}

	sweep := func() error {
		sum, err := c.Run(ctx)
		if err != nil {
			return err
		}
		if err := collect.WriteManifest(collectDest, collect.NewManifest(collectSource, sum)); err != nil {
			return err
		}
		fmt.Printf("Swept %s: %d scanned, %d copied (%s), %d skipped, %d failed in %s\n",
			collectSource, sum.Scanned, sum.Copied, sizefmt.Format(sum.Bytes), sum.Skipped, sum.Failed, sum.Took.Round(time.Millisecond))
		return nil
	}

	if err := sweep(); err != nil {
		return err
	}
	if collectEvery <= 0 {
		return nil
	}

	ticker := time.NewTicker(collectEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := sweep(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error("sweep failed", zap.Error(err))
			}
		}
	}
}
