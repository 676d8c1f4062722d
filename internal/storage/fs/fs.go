package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/torchan-dev/torchan/internal/service"
)

// Storage keeps uploads in a flat directory under rootPath, addressed by
// opaque uuid-based filename tokens.
type Storage struct {
	rootPath string
}

// Ensure Storage implements the interface at compile time.
var _ service.MediaStorage = (*Storage)(nil)

func New(rootPath string) (*Storage, error) {
	// filepath.Clean prevents path traversal like "media/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// Save writes an upload and returns its storage-safe filename token.
// The token keeps only the (cleaned) extension of the original name.
func (s *Storage) Save(fileData io.Reader, originalExtension string) (string, error) {
	cleanExtension := strings.ToLower(filepath.Base(filepath.Clean(originalExtension)))
	if !strings.HasPrefix(cleanExtension, ".") {
		cleanExtension = "." + cleanExtension
	}
	filename := uuid.NewString() + cleanExtension

	fullPath := filepath.Join(s.rootPath, filename)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, fileData); err != nil {
		os.Remove(fullPath) // best effort
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return filename, nil
}

// SaveThumb stores a thumbnail next to its original under a derived name.
func (s *Storage) SaveThumb(fileData io.Reader, token string) error {
	fullPath := filepath.Join(s.rootPath, thumbName(token))
	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, fileData); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return nil
}

func thumbName(token string) string {
	return filepath.Base(token) + ".thumb.jpg"
}

// Read opens a stored upload by its filename token.
func (s *Storage) Read(filename string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.rootPath, filepath.Base(filename))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("upload not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a stored upload and its thumbnail.
// A file that is already gone is not an error.
func (s *Storage) Delete(filename string) error {
	fullPath := filepath.Join(s.rootPath, filepath.Base(filename))

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	os.Remove(filepath.Join(s.rootPath, thumbName(filename))) // best effort
	return nil
}
