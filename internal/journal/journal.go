// Package journal records compression runs as an append-only, zstd-framed
// JSONL file. Each append writes one self-contained zstd frame; readers
// decode the concatenated frames as a single stream.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Entry is one recorded compression run.
type Entry struct {
	Time          time.Time     `json:"time"`
	Input         string        `json:"input"`
	Output        string        `json:"output"`
	Codec         string        `json:"codec,omitempty"`
	TargetBytes   int64         `json:"target_bytes"`
	InputBytes    int64         `json:"input_bytes"`
	FinalBytes    int64         `json:"final_bytes"`
	Quality       int           `json:"quality,omitempty"`
	Iterations    int           `json:"iterations"`
	ReachedTarget bool          `json:"reached_target"`
	CopiedThrough bool          `json:"copied_through,omitempty"`
	Fallback      bool          `json:"fallback,omitempty"`
	Duration      time.Duration `json:"duration_ns"`
}

// Writer appends entries to a journal file. Safe for concurrent use.
type Writer struct {
	mu   sync.Mutex
	file *os.File
}

// NewWriter opens (creating if needed) the journal at path for appending.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return &Writer{file: f}, nil
}

// Append writes one entry as its own zstd frame.
func (w *Writer) Append(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling journal entry: %w", err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	enc, err := zstd.NewWriter(w.file)
	if err != nil {
		return fmt.Errorf("creating journal compressor: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("writing journal entry: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flushing journal entry: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// Read decodes every entry in the journal at path. A missing file yields an
// empty slice, not an error, so callers can aggregate before any run exists.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating journal decompressor: %w", err)
	}
	defer dec.Close()

	var entries []Entry
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parsing journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return entries, nil
}
