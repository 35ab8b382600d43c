package gscodec

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docforge/pdfpress/internal/codec"
)

func TestResolutionFor(t *testing.T) {
	tests := []struct {
		quality int
		want    int
	}{
		{1, 72},
		{100, 300},
		{50, 184},
	}
	for _, tt := range tests {
		if got := resolutionFor(tt.quality); got != tt.want {
			t.Errorf("resolutionFor(%d) = %d, want %d", tt.quality, got, tt.want)
		}
	}
}

func TestArgs(t *testing.T) {
	c := New()
	args := c.args("in.pdf", "out.pdf", 40)

	joined := strings.Join(args, " ")
	for _, want := range []string{"-dJPEGQ=40", "-sOutputFile=out.pdf", "-dFastWebView=true", "in.pdf"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q in %q", want, joined)
		}
	}
}

func TestRecompress_QualityOutOfRange(t *testing.T) {
	c := New()
	for _, q := range []int{0, 101, -5} {
		_, err := c.Recompress(context.Background(), "in.pdf", q)
		if !errors.Is(err, codec.ErrFailed) {
			t.Errorf("Recompress(quality=%d) error = %v, want ErrFailed", q, err)
		}
	}
}

func TestRecompress_MissingBinary(t *testing.T) {
	c := New(WithBinary("ghostscript-not-installed"), WithWorkDir(t.TempDir()))
	_, err := c.Recompress(context.Background(), "in.pdf", 50)
	if !errors.Is(err, codec.ErrFailed) {
		t.Errorf("Recompress() error = %v, want ErrFailed", err)
	}
}
