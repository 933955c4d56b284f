// Package uploads stores logo images uploaded through the admin panel.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/munchkineatter/DrawDrum/internal/domain"
)

// allowedTypes maps accepted image content types to a fallback extension
// used when the uploaded filename carries none.
var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes and removes uploaded files under a single directory.
type Store struct {
	dir string
}

// NewStore creates the uploads directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the uploads directory.
func (s *Store) Dir() string { return s.dir }

// Save stores the reader's contents under a fresh unique name and returns
// that name. The content type must be one of the accepted image types.
func (s *Store) Save(contentType, originalName string, r io.Reader) (string, error) {
	fallbackExt, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return "", domain.ErrUnsupportedImage
	}

	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = fallbackExt
	}
	name := fmt.Sprintf("logo_%s%s", uuid.New().String()[:8], ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored file. A missing file is not an error: the caller
// still clears and broadcasts the path.
func (s *Store) Remove(filename string) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}

// Path resolves a stored filename to its absolute location, rejecting names
// that escape the uploads directory.
func (s *Store) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", domain.ErrUploadNotFound
	}
	return filepath.Join(s.dir, filename), nil
}

// Open opens a stored file for serving. Returns domain.ErrUploadNotFound if
// the file does not exist.
func (s *Store) Open(filename string) (*os.File, error) {
	path, err := s.Path(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, domain.ErrUploadNotFound
	}
	return f, err
}
