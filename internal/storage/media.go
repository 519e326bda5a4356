// Package storage persists uploaded media (bills, diagnostic reports,
// support chat attachments) on the local filesystem under a public media
// root and maps stored files to retrievable URLs.  Database bookkeeping for
// stored files lives in the media repository; this package only moves bytes.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize is the largest upload accepted, in bytes (25 MB).
const MaxFileSize = 25 * 1024 * 1024

// Collections recognised by the store.
const (
	CollectionBills   = "bills"
	CollectionReports = "reports"
	CollectionSupport = "support"
	CollectionExports = "exports"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("storage: file exceeds maximum allowed size")
	// ErrContentType is returned for MIME types outside the allow list.
	ErrContentType = errors.New("storage: content type is not allowed")
	// ErrUnknownCollection is returned for a collection name the store
	// does not manage.
	ErrUnknownCollection = errors.New("storage: unknown collection")
)

// AllowedContentTypes lists upload MIME types accepted for bills, reports
// and support attachments.
var AllowedContentTypes = map[string]bool{
	"application/pdf":  true,
	"image/png":        true,
	"image/jpeg":       true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

var knownCollections = map[string]bool{
	CollectionBills:   true,
	CollectionReports: true,
	CollectionSupport: true,
	CollectionExports: true,
}

// Store writes media files below baseDir and serves them below baseURL.
// Stored paths handed out by Save are relative to baseDir so they can be
// persisted and later resolved with Abs or URL.
type Store struct {
	baseDir string
	baseURL string
}

// New returns a Store rooted at baseDir.  baseURL is the public prefix
// under which baseDir is exposed (e.g. "/media").
func New(baseDir, baseURL string) *Store {
	return &Store{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Save streams r into a new file under the collection's directory and
// returns the generated media ID and the stored path relative to the media
// root.  The original filename only contributes its extension; the stored
// name is a fresh UUID so uploads can never collide or traverse paths.
func (s *Store) Save(collection, originalName, mime string, r io.Reader, size int64) (id, storedPath string, err error) {
	if !knownCollections[collection] {
		return "", "", ErrUnknownCollection
	}
	if size > MaxFileSize {
		return "", "", ErrFileTooLarge
	}
	if !AllowedContentTypes[mime] {
		return "", "", ErrContentType
	}
	id = uuid.NewString()
	ext := strings.ToLower(filepath.Ext(originalName))
	storedPath = filepath.ToSlash(filepath.Join(collection, id+ext))

	dir := filepath.Join(s.baseDir, collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}
	dst, err := os.Create(filepath.Join(s.baseDir, filepath.FromSlash(storedPath)))
	if err != nil {
		return "", "", fmt.Errorf("storage: create: %w", err)
	}
	defer dst.Close()
	// io.LimitReader guards against a lying Content-Length.
	if _, err := io.Copy(dst, io.LimitReader(r, MaxFileSize+1)); err != nil {
		return "", "", fmt.Errorf("storage: write: %w", err)
	}
	return id, storedPath, nil
}

// Abs resolves a stored (public-relative) path to an absolute filesystem
// path.  It does not check that the file exists; callers that attach files
// to outgoing mail probe with os.Stat and degrade gracefully.
func (s *Store) Abs(storedPath string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(storedPath))
}

// URL returns the public URL for a stored path.
func (s *Store) URL(storedPath string) string {
	return s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(storedPath), "/")
}

// Remove deletes a stored file.  Missing files are not an error; the row
// pointing at the file has already been superseded.
func (s *Store) Remove(storedPath string) error {
	err := os.Remove(s.Abs(storedPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
