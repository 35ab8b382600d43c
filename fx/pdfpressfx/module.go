// Package pdfpressfx provides an fx module for a Ghostscript-backed
// pdfpress client.
package pdfpressfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/docforge/pdfpress"
	"github.com/docforge/pdfpress/internal/codec/gscodec"
	"github.com/docforge/pdfpress/internal/stats"
	"github.com/docforge/pdfpress/internal/stats/logger"
)

// Config holds configuration for the pdfpress client.
type Config struct {
	// GhostscriptBinary overrides the gs executable. Empty uses PATH.
	GhostscriptBinary string

	// WorkDir is where trial files are written. Empty uses the system
	// temp directory.
	WorkDir string

	// JournalPath enables the run journal when non-empty.
	JournalPath string
}

// Module provides a pdfpress client.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("pdfpress",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("pdfpress.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *pdfpress.Client
}

func newClient(p Params) (Result, error) {
	var gsOpts []gscodec.Option
	if p.Config.GhostscriptBinary != "" {
		gsOpts = append(gsOpts, gscodec.WithBinary(p.Config.GhostscriptBinary))
	}
	if p.Config.WorkDir != "" {
		gsOpts = append(gsOpts, gscodec.WithWorkDir(p.Config.WorkDir))
	}

	opts := []pdfpress.Option{
		pdfpress.WithCodec(gscodec.New(gsOpts...)),
		pdfpress.WithStats(p.Collector),
		pdfpress.WithLogger(p.Logger.Named("pdfpress")),
	}
	if p.Config.JournalPath != "" {
		jopt, err := pdfpress.WithJournal(p.Config.JournalPath)
		if err != nil {
			return Result{}, err
		}
		opts = append(opts, jopt)
	}

	client, err := pdfpress.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
