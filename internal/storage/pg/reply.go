package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/torchan-dev/torchan/internal/domain"
	internal_errors "github.com/torchan-dev/torchan/internal/errors"
)

// CreateReply inserts a reply and bumps the parent thread in one transaction,
// so no reader observes one without the other.
func (s *Storage) CreateReply(creationData domain.ReplyCreationData) (domain.ReplyId, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return -1, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // ignored once the tx is committed

	createdTs := now()
	result, err := tx.Exec(`
        UPDATE threads SET bump_time = $1 WHERE id = $2
    `, createdTs, creationData.ThreadId)
	if err != nil {
		return -1, fmt.Errorf("failed to bump thread: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return -1, internal_errors.NotFound("Thread not found")
	}

	var id domain.ReplyId
	err = tx.QueryRow(`
        INSERT INTO replies (thread_id, content, image, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, creationData.ThreadId, creationData.Content, creationData.Image, createdTs).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert reply: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return -1, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func (s *Storage) GetReply(id domain.ReplyId) (*domain.Reply, error) {
	var reply domain.Reply
	err := s.db.QueryRow(`
        SELECT id, thread_id, content, image, created_at
        FROM replies
        WHERE id = $1
    `, id).Scan(&reply.Id, &reply.ThreadId, &reply.Content, &reply.Image, &reply.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Reply not found")
		}
		return nil, fmt.Errorf("failed to fetch reply: %w", err)
	}
	return &reply, nil
}

// DeleteReply removes a reply, returning its upload token if it had one.
// Missing reply is a no-op. The parent thread's bump_time is left alone.
func (s *Storage) DeleteReply(id domain.ReplyId) (*string, error) {
	var image *string
	err := s.db.QueryRow(`
        DELETE FROM replies WHERE id = $1 RETURNING image
    `, id).Scan(&image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete reply: %w", err)
	}
	return image, nil
}
