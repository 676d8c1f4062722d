// Package api defines the request/response shapes of the HTTP boundary.
package api

import "time"

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type CreatedResponse struct {
	Id int64 `json:"id"`
}

type ReplyResponse struct {
	Id        int64     `json:"id"`
	ThreadId  int64     `json:"thread_id"`
	Content   string    `json:"content"` // rendered, sanitized HTML
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ThreadResponse struct {
	Id        int64     `json:"id"`
	Board     string    `json:"board"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	BumpTime  time.Time `json:"bump_time"`
}

type ThreadSummaryResponse struct {
	ThreadResponse
	ReplyCount     int             `json:"reply_count"`
	PreviewReplies []ReplyResponse `json:"preview_replies"`
}

type ThreadDetailResponse struct {
	ThreadResponse
	Replies []ReplyResponse `json:"replies"`
}

type BoardInfo struct {
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

type BoardsResponse struct {
	Boards []BoardInfo `json:"boards"`
}

type BoardPageResponse struct {
	BoardInfo
	Threads []ThreadSummaryResponse `json:"threads"`
}
