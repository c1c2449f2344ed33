package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mime, err := store.Save(ctx, "Inventory Portal", "brief.txt", strings.NewReader("scope notes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("scope notes")) {
		t.Fatalf("size = %d", size)
	}
	if !strings.HasPrefix(mime, "text/plain") {
		t.Fatalf("mime = %q", mime)
	}
	if !strings.HasSuffix(key, "_brief.txt") {
		t.Fatalf("key = %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "scope notes" {
		t.Fatalf("content = %q", got)
	}
}

func TestSaveRejectsTraversalName(t *testing.T) {
	store := New(t.TempDir())
	if _, _, _, err := store.Save(context.Background(), "p", "../secret.txt", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for traversal file name")
	}
}

func TestOpenRejectsEscapingKey(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../outside.txt"); err == nil {
		t.Fatal("expected error for escaping key")
	}
}

func TestSaveHonorsCanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := store.Save(ctx, "p", "a.txt", strings.NewReader("x")); err == nil {
		t.Fatal("expected context error")
	}
}

func TestDeleteRemovesObject(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, _, _, err := store.Save(ctx, "Inventory Portal", "brief.txt", strings.NewReader("scope notes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Fatalf("expected open after delete to fail")
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if err := store.Delete(ctx, "../outside.txt"); err == nil {
		t.Fatalf("expected escaping key to be rejected")
	}
}
