package handler

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-chi/chi/v5"
	"github.com/torchan-dev/torchan/internal/api"
	internal_errors "github.com/torchan-dev/torchan/internal/errors"
	mw "github.com/torchan-dev/torchan/internal/middleware"
	"github.com/torchan-dev/torchan/internal/utils"
)

// Login checks the moderator password against the configured bcrypt hash and
// issues a session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.Private.ModPasswordHash), []byte(body.Password)); err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.Unauthorized("Wrong password"))
		return
	}

	token, err := h.jwt.NewModeratorToken()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusOK)
}

// DeleteThread removes a thread with all its replies and uploads.
// Idempotent: deleting an already-gone thread still answers 200.
func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.mod.DeleteThread(mw.GetSessionToken(r), threadId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	replyId, err := parseIntParam(chi.URLParam(r, "reply"), "reply ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.mod.DeleteReply(mw.GetSessionToken(r), replyId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
