package service

import (
	"github.com/torchan-dev/torchan/internal/domain"
	"github.com/torchan-dev/torchan/internal/logger"
)

type ReplyStorage interface {
	CreateReply(creationData domain.ReplyCreationData) (domain.ReplyId, error)
	GetReply(id domain.ReplyId) (*domain.Reply, error)
	DeleteReply(id domain.ReplyId) (*string, error)
}

type ReplyValidator interface {
	Content(text domain.PostText) error
}

// Reply appends replies to threads. The storage applies the insert and the
// parent's bump_time update as one atomic unit.
type Reply struct {
	storage   ReplyStorage
	media     MediaStorage
	validator ReplyValidator
}

func NewReply(storage ReplyStorage, media MediaStorage, validator ReplyValidator) *Reply {
	return &Reply{storage, media, validator}
}

func (r *Reply) Create(creationData domain.ReplyCreationData) (domain.ReplyId, error) {
	if err := r.validator.Content(creationData.Content); err != nil {
		return -1, err
	}
	return r.storage.CreateReply(creationData)
}

func (r *Reply) Get(id domain.ReplyId) (*domain.Reply, error) {
	return r.storage.GetReply(id)
}

// Delete removes a reply and releases its upload best-effort. The parent
// thread's bump_time is not touched. Missing reply is a no-op.
func (r *Reply) Delete(id domain.ReplyId) error {
	image, err := r.storage.DeleteReply(id)
	if err != nil {
		return err
	}
	if image != nil {
		if err := r.media.Delete(*image); err != nil {
			logger.Log.Error("failed to release upload", "file", *image, "error", err)
		}
	}
	return nil
}
