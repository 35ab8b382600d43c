package collect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manifest records the outcome of the most recent sweep into a destination
// directory.
type Manifest struct {
	Version   int       `json:"version"`
	Source    string    `json:"source"`
	Scanned   int       `json:"scanned"`
	Copied    int       `json:"copied"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Bytes     int64     `json:"bytes"`
	SweptAt   time.Time `json:"swept_at"`
	TookMilli int64     `json:"took_ms"`
}

const manifestFilename = "manifest.json"

// ManifestVersion is bumped when the manifest schema changes.
const ManifestVersion = 1

// WriteManifest writes the manifest into the destination directory.
func WriteManifest(dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFilename), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads the manifest from a destination directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFilename))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// NewManifest builds a manifest from a sweep summary.
func NewManifest(sourceName string, sum *Summary) *Manifest {
	return &Manifest{
		Version:   ManifestVersion,
		Source:    sourceName,
		Scanned:   sum.Scanned,
		Copied:    sum.Copied,
		Skipped:   sum.Skipped,
		Failed:    sum.Failed,
		Bytes:     sum.Bytes,
		SweptAt:   sum.Started,
		TookMilli: sum.Took.Milliseconds(),
	}
}
