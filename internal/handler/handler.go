package handler

import (
	"encoding/json"
	"net/http"

	"github.com/torchan-dev/torchan/internal/api"
	"github.com/torchan-dev/torchan/internal/config"
	"github.com/torchan-dev/torchan/internal/domain"
	"github.com/torchan-dev/torchan/internal/jwt"
	"github.com/torchan-dev/torchan/internal/logger"
	"github.com/torchan-dev/torchan/internal/markdown"
	"github.com/torchan-dev/torchan/internal/service"
)

type Handler struct {
	thread *service.Thread
	reply  *service.Reply
	mod    *service.Moderation
	flood  *service.FloodGuard
	upload *service.Upload
	media  service.MediaStorage
	jwt    jwt.JwtService
	text   *markdown.TextProcessor
	cfg    *config.Config
	health Pinger
}

func New(
	thread *service.Thread,
	reply *service.Reply,
	mod *service.Moderation,
	flood *service.FloodGuard,
	upload *service.Upload,
	media service.MediaStorage,
	jwtService jwt.JwtService,
	cfg *config.Config,
) *Handler {
	return &Handler{
		thread: thread,
		reply:  reply,
		mod:    mod,
		flood:  flood,
		upload: upload,
		media:  media,
		jwt:    jwtService,
		text:   markdown.New(),
		cfg:    cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) renderReply(reply *domain.Reply) api.ReplyResponse {
	content, _ := h.text.ProcessPost(reply.Content)
	return api.ReplyResponse{
		Id:        reply.Id,
		ThreadId:  reply.ThreadId,
		Content:   content,
		Image:     reply.Image,
		CreatedAt: reply.CreatedAt,
	}
}

func (h *Handler) renderThreadMetadata(metadata domain.ThreadMetadata) api.ThreadResponse {
	content, _ := h.text.ProcessPost(metadata.Content)
	return api.ThreadResponse{
		Id:        metadata.Id,
		Board:     metadata.Board,
		Title:     metadata.Title,
		Content:   content,
		Image:     metadata.Image,
		CreatedAt: metadata.CreatedAt,
		BumpTime:  metadata.BumpTime,
	}
}
