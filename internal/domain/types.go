package domain

type (
	BoardShortName = string
	BoardName      = string

	ThreadId    = int64
	ThreadTitle = string

	ReplyId = int64

	PostText = string

	// ClientId identifies a posting client for flood control.
	// In practice the caller's network address.
	ClientId = string
)
