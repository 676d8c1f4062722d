package service

import "io"

type MediaStorage interface {
	// Save stores an upload's content and returns the opaque filename token
	// that posts reference. Only the extension of the original name survives.
	Save(fileData io.Reader, originalExtension string) (string, error)

	// SaveThumb stores a pre-rendered thumbnail for an existing token.
	SaveThumb(fileData io.Reader, token string) error

	// Read opens a stored upload by filename token.
	Read(filename string) (io.ReadCloser, error)

	// Delete removes an upload (and its thumbnail, if any).
	Delete(filename string) error
}
