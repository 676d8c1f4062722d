package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/torchan-dev/torchan/internal/api"
	"github.com/torchan-dev/torchan/internal/utils"
)

func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request) {
	boards := h.thread.Boards()
	response := api.BoardsResponse{Boards: make([]api.BoardInfo, 0, len(boards))}
	for _, b := range boards {
		response.Boards = append(response.Boards, api.BoardInfo{ShortName: b.ShortName, Name: b.Name})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	page, err := h.thread.ListBoard(board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.BoardPageResponse{
		BoardInfo: api.BoardInfo{ShortName: page.ShortName, Name: page.Name},
		Threads:   make([]api.ThreadSummaryResponse, 0, len(page.Threads)),
	}
	for _, summary := range page.Threads {
		rendered := api.ThreadSummaryResponse{
			ThreadResponse: h.renderThreadMetadata(summary.ThreadMetadata),
			ReplyCount:     summary.ReplyCount,
			PreviewReplies: make([]api.ReplyResponse, 0, len(summary.PreviewReplies)),
		}
		for _, reply := range summary.PreviewReplies {
			rendered.PreviewReplies = append(rendered.PreviewReplies, h.renderReply(reply))
		}
		response.Threads = append(response.Threads, rendered)
	}
	writeJSON(w, http.StatusOK, response)
}
