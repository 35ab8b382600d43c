package search

import (
	"fmt"

	"github.com/docforge/pdfpress/internal/budget"
	"github.com/docforge/pdfpress/internal/ledger"
)

// Final describes the promoted output of a search.
type Final struct {
	Size          int64
	Quality       int
	ReachedTarget bool
	Fallback      bool
}

// Finalize promotes the ledger's winning candidate to outputPath and reports
// on it. The winner is the best passing candidate if any, else the fallback.
// ReachedTarget is a property of the promoted candidate: true only when its
// size is at or below the exact target, which is stricter than the tolerance
// ceiling the search accepted it under.
//
// Finalize does not release the rest of the ledger; callers keep a deferred
// Release so that non-winning artifacts are reclaimed on every exit path,
// including this function's own error paths.
func Finalize(lg *ledger.Ledger, b budget.Budget, outputPath string) (*Final, error) {
	winner, ok := lg.Winner()
	if !ok {
		return nil, ErrNoCandidate
	}

	if err := winner.Artifact.Promote(outputPath); err != nil {
		return nil, fmt.Errorf("promoting winner at quality %d: %w", winner.Quality, err)
	}

	return &Final{
		Size:          winner.Size,
		Quality:       winner.Quality,
		ReachedTarget: b.MeetsTarget(winner.Size),
		Fallback:      !lg.HasBest(),
	}, nil
}
