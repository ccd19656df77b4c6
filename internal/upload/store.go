// Package upload validates, renames and persists submitted PDF files.
package upload

import (
	"errors"
	"fmt"
	"io"
	mathrand "math/rand"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// MaxFileBytes is the ceiling for a single uploaded file (25 MiB).
	MaxFileBytes = 25 << 20

	// PDFMediaType is the only accepted media type.
	PDFMediaType = "application/pdf"

	randSuffixRange = 1_000_000_000
)

var (
	ErrNoFile          = errors.New("upload: no file provided")
	ErrUnsupportedType = errors.New("upload: only PDF files are allowed")
	ErrTooLarge        = errors.New("upload: file exceeds the size limit")
)

// Record describes one stored upload. StoredName is generated server-side;
// nothing from the client name is trusted beyond its extension.
type Record struct {
	OriginalName string `json:"original_name"`
	StoredName   string `json:"filename"`
	StoredPath   string `json:"path"`
	SizeBytes    int64  `json:"size_bytes"`
	MIMEType     string `json:"mime_type"`
}

// Store persists validated uploads under a fixed directory. Stored names are
// collision resistant, so concurrent saves never race on the same path.
type Store struct {
	dir      string
	maxBytes int64
	now      func() time.Time

	randMu sync.Mutex
	rand   *mathrand.Rand
}

// Option configures Store behavior.
type Option func(*Store)

// WithMaxBytes overrides the default size ceiling.
func WithMaxBytes(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewStore constructs a Store rooted at dir, creating it if needed.
func NewStore(dir string, opts ...Option) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("upload: directory is not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	s := &Store{
		dir:      dir,
		maxBytes: MaxFileBytes,
		now:      time.Now,
		rand:     mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string { return s.dir }

// MaxBytes returns the configured size ceiling.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save validates the declared media type, writes the content under a
// generated name and returns the stored record. On any rejection no file
// survives in the directory.
func (s *Store) Save(originalName, contentType string, r io.Reader) (Record, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != PDFMediaType {
		return Record{}, ErrUnsupportedType
	}

	name := s.generateName(originalName)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Record{}, fmt.Errorf("create upload file: %w", err)
	}

	// Copy one byte past the limit so oversized content is detectable.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return Record{}, fmt.Errorf("write upload file: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return Record{}, ErrTooLarge
	}

	return Record{
		OriginalName: filepath.Base(originalName),
		StoredName:   name,
		StoredPath:   path,
		SizeBytes:    written,
		MIMEType:     PDFMediaType,
	}, nil
}

// generateName builds a high-resolution-timestamp plus random-suffix name,
// preserving only the original extension.
func (s *Store) generateName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))

	s.randMu.Lock()
	suffix := s.rand.Int63n(randSuffixRange)
	s.randMu.Unlock()

	return fmt.Sprintf("%d-%d%s", s.now().UnixNano(), suffix, ext)
}
