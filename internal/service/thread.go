package service

import (
	"sort"

	"github.com/torchan-dev/torchan/internal/config"
	"github.com/torchan-dev/torchan/internal/domain"
	internal_errors "github.com/torchan-dev/torchan/internal/errors"
	"github.com/torchan-dev/torchan/internal/logger"
)

type ThreadStorage interface {
	CreateThread(creationData domain.ThreadCreationData) (domain.ThreadId, *domain.Eviction, error)
	GetThread(id domain.ThreadId) (domain.Thread, error)
	DeleteThread(id domain.ThreadId) ([]string, error)
	ListBoard(board domain.BoardShortName, limit, previewReplies int) ([]*domain.ThreadSummary, error)
}

type PostValidator interface {
	Title(title domain.ThreadTitle) error
	Content(text domain.PostText) error
}

// Thread implements the thread lifecycle and the board/thread read side.
type Thread struct {
	storage   ThreadStorage
	media     MediaStorage
	validator PostValidator
	cfg       *config.Config
}

func NewThread(storage ThreadStorage, media MediaStorage, validator PostValidator, cfg *config.Config) *Thread {
	return &Thread{storage, media, validator, cfg}
}

// Create validates the board and content, enforces the board capacity (the
// storage evicts the oldest-bumped thread when at the cap) and inserts the
// thread with created_at = bump_time = now.
func (t *Thread) Create(creationData domain.ThreadCreationData) (domain.ThreadId, error) {
	if !t.cfg.BoardExists(creationData.Board) {
		return -1, internal_errors.Validation("Unknown board")
	}
	if err := t.validator.Title(creationData.Title); err != nil {
		return -1, err
	}
	if err := t.validator.Content(creationData.Content); err != nil {
		return -1, err
	}

	id, eviction, err := t.storage.CreateThread(creationData)
	if err != nil {
		return -1, err
	}
	if eviction != nil {
		logger.Log.Info("evicted oldest thread to stay under board cap",
			"board", creationData.Board, "evicted_thread", eviction.ThreadId)
		t.releaseMedia(eviction.ImagePaths)
	}
	return id, nil
}

func (t *Thread) Get(id domain.ThreadId) (domain.Thread, error) {
	return t.storage.GetThread(id)
}

// Delete removes a thread with all replies, then releases the uploads they
// referenced. File release is best-effort: failures are logged, never
// surfaced, and never block the database-side deletion (which has already
// committed by then). Deleting a missing thread is a no-op.
func (t *Thread) Delete(id domain.ThreadId) error {
	imagePaths, err := t.storage.DeleteThread(id)
	if err != nil {
		return err
	}
	t.releaseMedia(imagePaths)
	return nil
}

// ListBoard returns a page of thread summaries, most recently bumped first.
// Read-only; listing never changes bump order.
func (t *Thread) ListBoard(board domain.BoardShortName) (domain.BoardPage, error) {
	name, ok := t.cfg.Public.Boards[board]
	if !ok {
		return domain.BoardPage{}, internal_errors.NotFound("Board not found")
	}

	summaries, err := t.storage.ListBoard(board, t.cfg.Public.BoardPageSize, t.cfg.Public.PreviewReplies)
	if err != nil {
		return domain.BoardPage{}, err
	}
	return domain.BoardPage{
		Board:   domain.Board{ShortName: board, Name: name},
		Threads: summaries,
	}, nil
}

// Boards lists the configured boards sorted by short name.
func (t *Thread) Boards() []domain.Board {
	boards := make([]domain.Board, 0, len(t.cfg.Public.Boards))
	for shortName, name := range t.cfg.Public.Boards {
		boards = append(boards, domain.Board{ShortName: shortName, Name: name})
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].ShortName < boards[j].ShortName })
	return boards
}

func (t *Thread) releaseMedia(imagePaths []string) {
	for _, p := range imagePaths {
		if err := t.media.Delete(p); err != nil {
			logger.Log.Error("failed to release upload", "file", p, "error", err)
		}
	}
}
