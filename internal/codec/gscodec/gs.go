// Package gscodec implements the recompression codec with Ghostscript's
// pdfwrite device. Embedded images are re-encoded as JPEG at the requested
// quality and downsampled to a resolution derived from it; the output is
// linearized for fast web view.
package gscodec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/docforge/pdfpress/internal/artifact"
	"github.com/docforge/pdfpress/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// DefaultBinary is the Ghostscript executable looked up on PATH.
const DefaultBinary = "gs"

// Codec shells out to Ghostscript for each trial.
type Codec struct {
	binary  string
	workDir string
}

// Option configures a Codec.
type Option func(*Codec)

// WithBinary overrides the Ghostscript executable path.
func WithBinary(path string) Option {
	return func(c *Codec) { c.binary = path }
}

// WithWorkDir places trial output files in dir instead of the system temp
// directory.
func WithWorkDir(dir string) Option {
	return func(c *Codec) { c.workDir = dir }
}

// New returns a Ghostscript-backed codec.
func New(opts ...Option) *Codec {
	c := &Codec{binary: DefaultBinary}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns "ghostscript".
func (c *Codec) Name() string { return "ghostscript" }

// HealthCheck verifies the Ghostscript binary is runnable.
func (c *Codec) HealthCheck(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.binary, "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("gscodec: %s --version: %w (output: %s)", c.binary, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Recompress rewrites src at the given quality into a fresh temp file.
func (c *Codec) Recompress(ctx context.Context, src string, quality int) (*artifact.Artifact, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("%w: quality %d outside 1..100", codec.ErrFailed, quality)
	}

	tmp, err := os.CreateTemp(c.workDir, "pdfpress-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: creating trial file: %w", codec.ErrFailed, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	cmd := exec.CommandContext(ctx, c.binary, c.args(src, tmpPath, quality)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: ghostscript quality %d: %w (output: %s)", codec.ErrFailed, quality, err, strings.TrimSpace(string(out)))
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: stat trial output: %w", codec.ErrFailed, err)
	}
	if info.Size() == 0 {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: ghostscript produced empty output at quality %d", codec.ErrFailed, quality)
	}

	return artifact.New(tmpPath, info.Size()), nil
}

// args builds the Ghostscript invocation for one trial.
func (c *Codec) args(src, dst string, quality int) []string {
	res := resolutionFor(quality)
	return []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.5",
		"-dNOPAUSE", "-dBATCH", "-dQUIET", "-dSAFER",
		"-dAutoRotatePages=/None",
		"-dFastWebView=true",
		"-dAutoFilterColorImages=false",
		"-dAutoFilterGrayImages=false",
		"-dColorImageFilter=/DCTEncode",
		"-dGrayImageFilter=/DCTEncode",
		fmt.Sprintf("-dJPEGQ=%d", quality),
		"-dDownsampleColorImages=true",
		fmt.Sprintf("-dColorImageResolution=%d", res),
		"-dDownsampleGrayImages=true",
		fmt.Sprintf("-dGrayImageResolution=%d", res),
		"-sOutputFile=" + dst,
		src,
	}
}

// resolutionFor maps a quality level to an image resolution between 72 and
// 300 dpi. Lower quality downsamples harder.
func resolutionFor(quality int) int {
	return 72 + (quality-1)*228/99
}
