package service

import (
	"github.com/torchan-dev/torchan/internal/domain"
	internal_errors "github.com/torchan-dev/torchan/internal/errors"
)

// Authorizer validates a moderator session token. Credential checking and
// session issuance live outside this package.
type Authorizer interface {
	Authorize(sessionToken string) bool
}

type ThreadDeleter interface {
	Delete(id domain.ThreadId) error
}

type ReplyDeleter interface {
	Delete(id domain.ReplyId) error
}

// Moderation gates destructive operations behind the authorizer.
// A failed authorization performs no state change.
type Moderation struct {
	auth    Authorizer
	threads ThreadDeleter
	replies ReplyDeleter
}

func NewModeration(auth Authorizer, threads ThreadDeleter, replies ReplyDeleter) *Moderation {
	return &Moderation{auth, threads, replies}
}

func (m *Moderation) DeleteThread(sessionToken string, id domain.ThreadId) error {
	if !m.auth.Authorize(sessionToken) {
		return internal_errors.Forbidden("Moderator session required")
	}
	return m.threads.Delete(id)
}

func (m *Moderation) DeleteReply(sessionToken string, id domain.ReplyId) error {
	if !m.auth.Authorize(sessionToken) {
		return internal_errors.Forbidden("Moderator session required")
	}
	return m.replies.Delete(id)
}
