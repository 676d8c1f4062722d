package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torchan-dev/torchan/internal/domain"
)

// MockFloodStorage mocks the FloodStorage interface with an in-memory map,
// reproducing the storage contract: allow iff no record inside the window,
// recording only on allow.
type MockFloodStorage struct {
	records map[string]time.Time
	err     error
}

func NewMockFloodStorage() *MockFloodStorage {
	return &MockFloodStorage{records: make(map[string]time.Time)}
}

func (m *MockFloodStorage) CheckAndRecord(clientId domain.ClientId, postTime time.Time, window time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if last, ok := m.records[clientId]; ok && postTime.Sub(last) < window {
		return false, nil
	}
	m.records[clientId] = postTime
	return true, nil
}

func TestFloodGuard(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first post allowed, second inside window denied", func(t *testing.T) {
		guard := NewFloodGuard(NewMockFloodStorage(), 30*time.Second)

		first, err := guard.CheckAndRecord("1.2.3.4", base)
		require.NoError(t, err)
		assert.True(t, first.Allowed)

		second, err := guard.CheckAndRecord("1.2.3.4", base.Add(5*time.Second))
		require.NoError(t, err)
		assert.False(t, second.Allowed)
		assert.Equal(t, int64(30), second.RetryAfter)
	})

	t.Run("allowed again after the window elapses", func(t *testing.T) {
		guard := NewFloodGuard(NewMockFloodStorage(), 30*time.Second)

		_, err := guard.CheckAndRecord("1.2.3.4", base)
		require.NoError(t, err)

		decision, err := guard.CheckAndRecord("1.2.3.4", base.Add(30*time.Second))
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("denied post does not extend the window", func(t *testing.T) {
		guard := NewFloodGuard(NewMockFloodStorage(), 30*time.Second)

		_, err := guard.CheckAndRecord("1.2.3.4", base)
		require.NoError(t, err)

		// Denied at +29s; the original record from t=0 still governs.
		denied, err := guard.CheckAndRecord("1.2.3.4", base.Add(29*time.Second))
		require.NoError(t, err)
		require.False(t, denied.Allowed)

		allowed, err := guard.CheckAndRecord("1.2.3.4", base.Add(31*time.Second))
		require.NoError(t, err)
		assert.True(t, allowed.Allowed)
	})

	t.Run("clients are independent", func(t *testing.T) {
		guard := NewFloodGuard(NewMockFloodStorage(), 30*time.Second)

		_, err := guard.CheckAndRecord("1.2.3.4", base)
		require.NoError(t, err)

		other, err := guard.CheckAndRecord("5.6.7.8", base.Add(time.Second))
		require.NoError(t, err)
		assert.True(t, other.Allowed)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		storage := NewMockFloodStorage()
		storage.err = errors.New("db down")
		guard := NewFloodGuard(storage, 30*time.Second)

		_, err := guard.CheckAndRecord("1.2.3.4", base)
		assert.Error(t, err)
	})
}
