package domain

import (
	"time"
)

type ReplyCreationData struct {
	ThreadId ThreadId
	Content  PostText
	Image    *string
}

type Reply struct {
	Id        ReplyId
	ThreadId  ThreadId
	Content   PostText
	Image     *string
	CreatedAt time.Time
}
