package storage

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSaveAndResolve(t *testing.T) {
	s := New(t.TempDir(), "/media")

	content := []byte("%PDF-1.4 fake bill")
	id, storedPath, err := s.Save(CollectionBills, "invoice.PDF", "application/pdf",
		bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("empty media id")
	}
	if !strings.HasPrefix(storedPath, "bills/") || !strings.HasSuffix(storedPath, ".pdf") {
		t.Fatalf("storedPath = %q, want bills/<uuid>.pdf", storedPath)
	}

	got, err := os.ReadFile(s.Abs(storedPath))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("content mismatch: %q", got)
	}

	if url := s.URL(storedPath); url != "/media/"+storedPath {
		t.Fatalf("URL = %q, want /media/%s", url, storedPath)
	}
}

func TestSaveRejections(t *testing.T) {
	s := New(t.TempDir(), "/media")
	r := strings.NewReader("x")

	if _, _, err := s.Save("avatars", "a.png", "image/png", r, 1); err != ErrUnknownCollection {
		t.Errorf("unknown collection: err = %v", err)
	}
	if _, _, err := s.Save(CollectionReports, "a.exe", "application/octet-stream", r, 1); err != ErrContentType {
		t.Errorf("bad mime: err = %v", err)
	}
	if _, _, err := s.Save(CollectionReports, "a.pdf", "application/pdf", r, MaxFileSize+1); err != ErrFileTooLarge {
		t.Errorf("oversize: err = %v", err)
	}
}

func TestRemoveMissingIsNotError(t *testing.T) {
	s := New(t.TempDir(), "/media")
	if err := s.Remove("reports/gone.pdf"); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
}
