package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/torchan-dev/torchan/internal/utils"
)

// parseIntParam parses an integer URL parameter with a readable error.
func parseIntParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}

// checkFlood runs the flood guard for the requesting client. It writes the
// 429 response itself and reports whether the caller may proceed.
func (h *Handler) checkFlood(w http.ResponseWriter, r *http.Request) bool {
	ip, err := utils.GetIP(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return false
	}

	decision, err := h.flood.CheckAndRecord(ip, time.Now())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return false
	}
	if !decision.Allowed {
		w.Header().Set("Retry-After", strconv.FormatInt(decision.RetryAfter, 10))
		http.Error(w, "Posting too fast, wait before posting again", http.StatusTooManyRequests)
		return false
	}
	return true
}

// stageUpload parses the optional "file" form field and stores it,
// returning the filename token (nil when no file was sent).
// Storing happens before any database write; failures abort the post.
func (h *Handler) stageUpload(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid file field: %w", err)
	}
	defer file.Close()

	token, err := h.upload.Process(file, header.Filename)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// parsePostForm reads the multipart (or urlencoded) post form, bounded by the
// upload size cap plus slack for the text fields.
func (h *Handler) parsePostForm(r *http.Request) error {
	r.Body = http.MaxBytesReader(nil, r.Body, h.cfg.Public.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(h.cfg.Public.MaxUploadBytes + (1 << 20)); err != nil {
		if err == http.ErrNotMultipart {
			return r.ParseForm()
		}
		return fmt.Errorf("invalid form: %w", err)
	}
	return nil
}
