package s3source

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
)

func TestCombinedOptionsAllApply(t *testing.T) {
	src, err := New(context.Background(), "docs",
		WithRegion("eu-central-1"),
		WithEndpoint("http://localhost:9000"),
		WithPrefix("inbox"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	opts := src.client.Options()
	if opts.Region != "eu-central-1" {
		t.Errorf("Region = %q, want %q", opts.Region, "eu-central-1")
	}
	if got := aws.ToString(opts.BaseEndpoint); got != "http://localhost:9000" {
		t.Errorf("BaseEndpoint = %q, want %q", got, "http://localhost:9000")
	}
	if !opts.UsePathStyle {
		t.Error("UsePathStyle = false, want true")
	}
	if src.prefix != "inbox/" {
		t.Errorf("prefix = %q, want %q", src.prefix, "inbox/")
	}
}

func TestPrefixNormalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"inbox", "inbox/"},
		{"inbox/", "inbox/"},
		{"a/b/", "a/b/"},
	}

	for _, tt := range tests {
		src, err := New(context.Background(), "docs", WithPrefix(tt.in))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if src.prefix != tt.want {
			t.Errorf("WithPrefix(%q): prefix = %q, want %q", tt.in, src.prefix, tt.want)
		}
	}
}
