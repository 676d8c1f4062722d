package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/torchan-dev/torchan/internal/domain"
	internal_errors "github.com/torchan-dev/torchan/internal/errors"
)

// CreateThread inserts a new thread with created_at = bump_time = now.
// Capacity enforcement runs in the same transaction: when the board already
// holds the configured maximum, the oldest-bumped thread (smallest id on tie)
// is deleted first and returned so the caller can release its uploads.
// An advisory lock keyed by the board serializes enforce+insert per board.
func (s *Storage) CreateThread(creationData domain.ThreadCreationData) (domain.ThreadId, *domain.Eviction, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return -1, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.Exec("SELECT pg_advisory_xact_lock(hashtext($1))", creationData.Board); err != nil {
		return -1, nil, fmt.Errorf("failed to acquire board lock: %w", err)
	}

	eviction, err := enforceCapacity(tx, creationData.Board, s.cfg.Public.MaxThreadsPerBoard)
	if err != nil {
		return -1, nil, err
	}

	createdTs := now()
	var id domain.ThreadId
	err = tx.QueryRow(`
        INSERT INTO threads (board, title, content, image, created_at, bump_time)
        VALUES ($1, $2, $3, $4, $5, $5)
        RETURNING id
    `, creationData.Board, creationData.Title, creationData.Content, creationData.Image, createdTs).Scan(&id)
	if err != nil {
		return -1, nil, fmt.Errorf("failed to insert thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return -1, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, eviction, nil
}

// enforceCapacity deletes the oldest-bumped thread when the board is at the
// cap, so the following insert keeps the count <= maxThreads.
func enforceCapacity(tx *sql.Tx, board domain.BoardShortName, maxThreads int) (*domain.Eviction, error) {
	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM threads WHERE board = $1", board).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count threads: %w", err)
	}
	if count < maxThreads {
		return nil, nil
	}

	var victimId domain.ThreadId
	err := tx.QueryRow(`
        SELECT id FROM threads
        WHERE board = $1
        ORDER BY bump_time ASC, id ASC
        LIMIT 1
    `, board).Scan(&victimId)
	if err != nil {
		return nil, fmt.Errorf("failed to select eviction victim: %w", err)
	}

	imagePaths, err := collectImagePaths(tx, victimId)
	if err != nil {
		return nil, err
	}

	// Replies cascade via the foreign key.
	if _, err := tx.Exec("DELETE FROM threads WHERE id = $1", victimId); err != nil {
		return nil, fmt.Errorf("failed to evict thread %d: %w", victimId, err)
	}

	return &domain.Eviction{ThreadId: victimId, ImagePaths: imagePaths}, nil
}

// collectImagePaths gathers the upload tokens of a thread and all its replies
// before deletion, so filesystem release can happen after commit.
func collectImagePaths(tx *sql.Tx, id domain.ThreadId) ([]string, error) {
	rows, err := tx.Query(`
        SELECT image FROM threads WHERE id = $1 AND image IS NOT NULL
        UNION ALL
        SELECT image FROM replies WHERE thread_id = $1 AND image IS NOT NULL
    `, id)
	if err != nil {
		return nil, fmt.Errorf("failed to collect image paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan image path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// GetThread fetches a thread with all its replies in ascending id order.
// Read-only: viewing a thread does not bump it.
func (s *Storage) GetThread(id domain.ThreadId) (domain.Thread, error) {
	var metadata domain.ThreadMetadata
	err := s.db.QueryRow(`
        SELECT id, board, title, content, image, created_at, bump_time
        FROM threads
        WHERE id = $1
    `, id).Scan(
		&metadata.Id, &metadata.Board, &metadata.Title, &metadata.Content,
		&metadata.Image, &metadata.CreatedAt, &metadata.BumpTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, internal_errors.NotFound("Thread not found")
		}
		return domain.Thread{}, fmt.Errorf("failed to fetch thread metadata: %w", err)
	}

	rows, err := s.db.Query(`
        SELECT id, thread_id, content, image, created_at
        FROM replies
        WHERE thread_id = $1
        ORDER BY id ASC
    `, id)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to fetch replies: %w", err)
	}
	defer rows.Close()

	var replies []*domain.Reply
	for rows.Next() {
		var reply domain.Reply
		if err := rows.Scan(&reply.Id, &reply.ThreadId, &reply.Content, &reply.Image, &reply.CreatedAt); err != nil {
			return domain.Thread{}, fmt.Errorf("failed to scan reply: %w", err)
		}
		replies = append(replies, &reply)
	}
	if err = rows.Err(); err != nil {
		return domain.Thread{}, fmt.Errorf("rows iteration error: %w", err)
	}

	return domain.Thread{ThreadMetadata: metadata, Replies: replies}, nil
}

// DeleteThread removes a thread and (via cascade) its replies, returning the
// upload tokens that were referenced. Missing thread is a no-op.
func (s *Storage) DeleteThread(id domain.ThreadId) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	imagePaths, err := collectImagePaths(tx, id)
	if err != nil {
		return nil, err
	}

	result, err := tx.Exec("DELETE FROM threads WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete thread: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return imagePaths, nil
}

// ListBoard returns up to limit thread summaries for a board, most recently
// bumped first (ties by larger id). Each summary carries the total reply
// count and the earliest previewReplies replies in ascending id order.
func (s *Storage) ListBoard(board domain.BoardShortName, limit, previewReplies int) ([]*domain.ThreadSummary, error) {
	rows, err := s.db.Query(`
        SELECT id, board, title, content, image, created_at, bump_time
        FROM threads
        WHERE board = $1
        ORDER BY bump_time DESC, id DESC
        LIMIT $2
    `, board, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch board threads: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.ThreadSummary
	summaryIdx := make(map[domain.ThreadId]int)
	var threadIds []int64
	for rows.Next() {
		var summary domain.ThreadSummary
		if err := rows.Scan(
			&summary.Id, &summary.Board, &summary.Title, &summary.Content,
			&summary.Image, &summary.CreatedAt, &summary.BumpTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan thread summary: %w", err)
		}
		summaries = append(summaries, &summary)
		summaryIdx[summary.Id] = len(summaries) - 1
		threadIds = append(threadIds, summary.Id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	replyRows, err := s.db.Query(`
        SELECT id, thread_id, content, image, created_at, rn, total
        FROM (
            SELECT r.*,
                ROW_NUMBER() OVER (PARTITION BY thread_id ORDER BY id ASC) AS rn,
                COUNT(*) OVER (PARTITION BY thread_id) AS total
            FROM replies r
            WHERE thread_id = ANY($1)
        ) numbered
        WHERE rn <= $2
        ORDER BY thread_id, id ASC
    `, pq.Array(threadIds), previewReplies)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reply previews: %w", err)
	}
	defer replyRows.Close()

	for replyRows.Next() {
		var reply domain.Reply
		var rn, total int
		if err := replyRows.Scan(&reply.Id, &reply.ThreadId, &reply.Content, &reply.Image, &reply.CreatedAt, &rn, &total); err != nil {
			return nil, fmt.Errorf("failed to scan reply preview: %w", err)
		}
		idx, ok := summaryIdx[reply.ThreadId]
		if !ok {
			continue
		}
		summaries[idx].ReplyCount = total
		summaries[idx].PreviewReplies = append(summaries[idx].PreviewReplies, &reply)
	}
	return summaries, replyRows.Err()
}

// ThreadCount reports the number of live threads on a board.
func (s *Storage) ThreadCount(board domain.BoardShortName) (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM threads WHERE board = $1", board).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count threads: %w", err)
	}
	return count, nil
}
