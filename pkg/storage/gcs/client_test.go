package gcs

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDisabledClient(t *testing.T) {
	t.Parallel()

	var c *Client
	if c.Enabled() {
		t.Fatal("nil client should be disabled")
	}
	if _, err := c.Upload(context.Background(), "a/b.png", "image/png", strings.NewReader("x")); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if err := c.Delete(context.Background(), "a/b.png"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close on disabled client: %v", err)
	}
}

func TestObjectPathFromURL(t *testing.T) {
	t.Parallel()

	c := &Client{bucket: "graamkart-assets"}
	got := c.ObjectPathFromURL("https://storage.googleapis.com/graamkart-assets/products/abc/1.png")
	if got != "products/abc/1.png" {
		t.Fatalf("unexpected object path %q", got)
	}

	if got := c.ObjectPathFromURL("https://example.com/other/file.png"); got != "" {
		t.Fatalf("expected empty path for foreign url, got %q", got)
	}
}
