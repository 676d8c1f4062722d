package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/torchan-dev/torchan/internal/config"
	internal_errors "github.com/torchan-dev/torchan/internal/errors"
	"github.com/torchan-dev/torchan/internal/logger"
)

// Upload validates and stores post attachments. Validation is by extension
// whitelist and size cap; saving happens before any database write so a
// failed save aborts post creation cleanly.
type Upload struct {
	media        MediaStorage
	maxBytes     int64
	allowedExt   map[string]bool
	thumbMaxSize int
}

func NewUpload(media MediaStorage, cfg *config.Config) *Upload {
	allowed := make(map[string]bool, len(cfg.Public.AllowedExtensions))
	for _, ext := range cfg.Public.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &Upload{
		media:        media,
		maxBytes:     cfg.Public.MaxUploadBytes,
		allowedExt:   allowed,
		thumbMaxSize: cfg.Public.ThumbMaxSize,
	}
}

// Process stores one upload and returns its filename token.
func (u *Upload) Process(fileData io.Reader, originalFilename string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalFilename)), ".")
	if !u.allowedExt[ext] {
		return "", internal_errors.Validation(fmt.Sprintf("File type .%s is not allowed", ext))
	}

	data, err := io.ReadAll(io.LimitReader(fileData, u.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > u.maxBytes {
		return "", &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("File exceeds the %d byte limit", u.maxBytes),
			StatusCode: http.StatusRequestEntityTooLarge,
		}
	}

	token, err := u.media.Save(bytes.NewReader(data), "."+ext)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	u.makeThumbnail(data, token)
	return token, nil
}

// Release removes a stored upload, used when post creation fails after the
// file was already saved.
func (u *Upload) Release(token string) {
	if err := u.media.Delete(token); err != nil {
		logger.Log.Error("failed to release upload", "file", token, "error", err)
	}
}

// makeThumbnail renders a bounded jpeg preview. Non-fatal: a file we cannot
// decode is simply served without a thumbnail.
func (u *Upload) makeThumbnail(data []byte, token string) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Log.Warn("skipping thumbnail for undecodable upload", "file", token, "error", err)
		return
	}

	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), u.thumbMaxSize)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		logger.Log.Warn("failed to encode thumbnail", "file", token, "error", err)
		return
	}
	if err := u.media.SaveThumb(&buf, token); err != nil {
		logger.Log.Warn("failed to save thumbnail", "file", token, "error", err)
	}
}

// fitWithin scales (w, h) down to fit a maxSize square, preserving aspect.
func fitWithin(w, h, maxSize int) (int, int) {
	if w <= maxSize && h <= maxSize {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}
