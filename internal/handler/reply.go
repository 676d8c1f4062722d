package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/torchan-dev/torchan/internal/api"
	"github.com/torchan-dev/torchan/internal/domain"
	"github.com/torchan-dev/torchan/internal/utils"
)

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

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

	replyId, err := h.reply.Create(domain.ReplyCreationData{
		ThreadId: threadId,
		Content:  r.FormValue("content"),
		Image:    image,
	})
	if err != nil {
		if image != nil {
			h.upload.Release(*image)
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.CreatedResponse{Id: replyId})
}
