package handler

import (
	"testing"

	"github.com/nivaan/health-booking-admin/internal/storage"
)

func TestAttachmentURLs_ResolvesPublicPaths(t *testing.T) {
	store := storage.New(t.TempDir(), "/media")

	got := attachmentURLs(store, []string{"support/ab12.pdf", "support/cd34.png"})
	want := []string{"/media/support/ab12.pdf", "/media/support/cd34.png"}
	if len(got) != len(want) {
		t.Fatalf("got %d urls, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("url[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// A raw stored path must never leak through to the client.
	if got[0] == "support/ab12.pdf" {
		t.Fatal("stored path returned unresolved")
	}

	if empty := attachmentURLs(store, nil); len(empty) != 0 {
		t.Fatalf("expected no urls for no attachments, got %v", empty)
	}
}
