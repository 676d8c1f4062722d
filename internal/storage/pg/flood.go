package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/torchan-dev/torchan/internal/domain"
)

// CheckAndRecord decides whether a client may post at `now` and, when
// allowed, records the post timestamp. The whole check-then-write is a single
// conditional upsert, so two concurrent posts from one client cannot both
// pass inside the window.
func (s *Storage) CheckAndRecord(clientId domain.ClientId, postTime time.Time, window time.Duration) (bool, error) {
	var allowed bool
	err := s.db.QueryRow(`
        INSERT INTO flood_records (client_id, last_post_time)
        VALUES ($1, $2)
        ON CONFLICT (client_id) DO UPDATE
        SET last_post_time = EXCLUDED.last_post_time
        WHERE flood_records.last_post_time <= $2 - make_interval(secs => $3)
        RETURNING true
    `, clientId, postTime.UTC(), window.Seconds()).Scan(&allowed)
	if err != nil {
		// No row returned means the conditional update was skipped:
		// a post inside the window already exists.
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to upsert flood record: %w", err)
	}
	return allowed, nil
}
