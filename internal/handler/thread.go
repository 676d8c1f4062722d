package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/torchan-dev/torchan/internal/api"
	"github.com/torchan-dev/torchan/internal/domain"
	"github.com/torchan-dev/torchan/internal/utils"
)

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	if err := h.parsePostForm(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.checkFlood(w, r) {
		return
	}

	image, err := h.stageUpload(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	threadId, err := h.thread.Create(domain.ThreadCreationData{
		Board:   board,
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Image:   image,
	})
	if err != nil {
		// The upload was staged before the database write; take it back out.
		if image != nil {
			h.upload.Release(*image)
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.CreatedResponse{Id: threadId})
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	thread, err := h.thread.Get(threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.ThreadDetailResponse{
		ThreadResponse: h.renderThreadMetadata(thread.ThreadMetadata),
		Replies:        make([]api.ReplyResponse, 0, len(thread.Replies)),
	}
	for _, reply := range thread.Replies {
		response.Replies = append(response.Replies, h.renderReply(reply))
	}
	writeJSON(w, http.StatusOK, response)
}
