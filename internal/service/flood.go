package service

import (
	"time"

	"github.com/torchan-dev/torchan/internal/domain"
)

// FloodStorage is the persistence seam for flood control.
type FloodStorage interface {
	CheckAndRecord(clientId domain.ClientId, postTime time.Time, window time.Duration) (bool, error)
}

// FloodGuard rate-limits posting per client. A client may post at most once
// per window; an accepted post updates the client's record, a denied one
// leaves no trace. Advisory only: client identifiers are spoofable over
// anonymizing transports.
type FloodGuard struct {
	storage FloodStorage
	window  time.Duration
}

func NewFloodGuard(storage FloodStorage, window time.Duration) *FloodGuard {
	return &FloodGuard{storage: storage, window: window}
}

func (g *FloodGuard) CheckAndRecord(clientId domain.ClientId, postTime time.Time) (domain.FloodDecision, error) {
	allowed, err := g.storage.CheckAndRecord(clientId, postTime, g.window)
	if err != nil {
		return domain.FloodDecision{}, err
	}
	decision := domain.FloodDecision{Allowed: allowed}
	if !allowed {
		// Upper bound: the precise remaining wait is not worth a second query.
		decision.RetryAfter = int64(g.window.Seconds())
	}
	return decision, nil
}

func (g *FloodGuard) Window() time.Duration {
	return g.window
}
