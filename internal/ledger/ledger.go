// Package ledger retains the candidates produced by a recompression search.
//
// The ledger holds at most two live candidates: the best passing trial seen
// so far (largest size under the tolerance ceiling) and, only while no
// passing trial has ever been retained, the least-bad failing trial
// (smallest overshoot). Once a passing candidate is held the fallback slot
// is frozen: failing trials are ignored from then on, permanently.
package ledger

import (
	"go.uber.org/multierr"

	"github.com/docforge/pdfpress/internal/artifact"
)

// Candidate is one trial's artifact together with its observed size and the
// quality level that produced it.
type Candidate struct {
	Quality  int
	Size     int64
	Artifact *artifact.Artifact
}

// phase is the ledger's explicit state. The freeze invariant is structural:
// transitions out of phaseBestHeld never touch the fallback slot.
type phase int

const (
	// phaseEmpty: no candidate retained yet.
	phaseEmpty phase = iota
	// phaseTrackingFallback: no passing trial yet; fallback tracks the
	// running minimum over failing trials.
	phaseTrackingFallback
	// phaseBestHeld: a passing trial has been retained. The fallback slot,
	// whether occupied or not, is frozen.
	phaseBestHeld
)

// Ledger owns the backing storage of every candidate it retains.
type Ledger struct {
	phase    phase
	best     Candidate
	fallback Candidate
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// OfferPassing offers a candidate that satisfied the tolerance ceiling.
// The ledger takes ownership: it either retains the candidate (releasing a
// superseded best) or releases it immediately. A candidate is retained only
// if no best exists or its size is strictly larger than the held best's.
// Reports whether the candidate was retained.
func (l *Ledger) OfferPassing(c Candidate) (bool, error) {
	switch l.phase {
	case phaseEmpty, phaseTrackingFallback:
		l.best = c
		l.phase = phaseBestHeld
		return true, nil
	case phaseBestHeld:
		if c.Size <= l.best.Size {
			return false, c.Artifact.Release()
		}
		err := l.best.Artifact.Release()
		l.best = c
		return true, err
	}
	return false, c.Artifact.Release()
}

// OfferFailing offers a candidate that overshot the tolerance ceiling.
// While no passing candidate has ever been retained, the fallback slot keeps
// the smallest failing size seen. Once any passing candidate exists the slot
// is frozen and failing candidates are released unconditionally.
// Reports whether the candidate was retained.
func (l *Ledger) OfferFailing(c Candidate) (bool, error) {
	switch l.phase {
	case phaseEmpty:
		l.fallback = c
		l.phase = phaseTrackingFallback
		return true, nil
	case phaseTrackingFallback:
		if c.Size >= l.fallback.Size {
			return false, c.Artifact.Release()
		}
		err := l.fallback.Artifact.Release()
		l.fallback = c
		return true, err
	case phaseBestHeld:
		// Frozen: feasibility has been found, failing trials carry no
		// further information.
		return false, c.Artifact.Release()
	}
	return false, c.Artifact.Release()
}

// Winner returns the candidate that finalization should promote: the best
// passing candidate if one exists, else the fallback. ok is false when the
// ledger is empty.
func (l *Ledger) Winner() (Candidate, bool) {
	switch l.phase {
	case phaseBestHeld:
		return l.best, true
	case phaseTrackingFallback:
		return l.fallback, true
	}
	return Candidate{}, false
}

// HasBest reports whether a passing candidate has been retained.
func (l *Ledger) HasBest() bool { return l.phase == phaseBestHeld }

// Release releases every artifact the ledger still holds. Promoted artifacts
// are spent handles, so releasing after finalization only removes the
// leftovers. Safe to call multiple times and on every exit path.
func (l *Ledger) Release() error {
	var err error
	if l.phase == phaseBestHeld {
		err = multierr.Append(err, l.best.Artifact.Release())
	}
	if l.fallback.Artifact != nil {
		err = multierr.Append(err, l.fallback.Artifact.Release())
	}
	return err
}
