// Package cache maintains the local write-once store of PDF attachments.
// Cached entries are immutable: an attachment key always maps to the same
// bytes once written, so a hit never re-fetches or re-validates.
package cache

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoPDFInArchive reports a fetched archive that contains no PDF entry.
var ErrNoPDFInArchive = errors.New("no PDF entry in attachment archive")

// Fetcher downloads the ZIP archive stored for an attachment key.
type Fetcher interface {
	FetchAttachmentArchive(ctx context.Context, attachmentID string) ([]byte, error)
}

// Manager resolves attachment keys to locally cached PDF files.
type Manager struct {
	root    string
	fetcher Fetcher
}

// NewManager creates the cache root if needed and returns a manager over it.
func NewManager(root string, fetcher Fetcher) (*Manager, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", root, err)
	}
	return &Manager{root: root, fetcher: fetcher}, nil
}

// Path returns the local cache path for an attachment key.
func (m *Manager) Path(attachmentID string) string {
	return filepath.Join(m.root, attachmentID+".pdf")
}

// Get returns the local path of the cached PDF for the attachment,
// fetching and unpacking it on first access.
func (m *Manager) Get(ctx context.Context, attachmentID string) (string, error) {
	path := m.Path(attachmentID)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat cache entry %s: %w", path, err)
	}

	archive, err := m.fetcher.FetchAttachmentArchive(ctx, attachmentID)
	if err != nil {
		return "", err
	}

	pdfData, err := extractPDF(archive)
	if err != nil {
		return "", fmt.Errorf("attachment %s: %w", attachmentID, err)
	}

	if err := writeAtomic(path, pdfData); err != nil {
		return "", err
	}
	return path, nil
}

// extractPDF returns the bytes of the first *.pdf entry in a ZIP archive.
func extractPDF(archive []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment archive: %w", err)
	}
	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, ".pdf") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			return nil, fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
		}
		return buf.Bytes(), nil
	}
	return nil, ErrNoPDFInArchive
}

// writeAtomic writes data to path via a temp file and rename, so a crashed
// writer never leaves a truncated cache entry behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache entry %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize cache entry %s: %w", path, err)
	}
	return nil
}
