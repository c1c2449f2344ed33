package llm

import (
	"context"
	"errors"
	"testing"
)

func TestPlaceholderClientReturnsNotConfigured(t *testing.T) {
	var c Client = PlaceholderClient{}
	out, err := c.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
