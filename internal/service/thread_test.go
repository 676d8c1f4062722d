package service

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torchan-dev/torchan/internal/config"
	"github.com/torchan-dev/torchan/internal/domain"
	internal_errors "github.com/torchan-dev/torchan/internal/errors"
	"github.com/torchan-dev/torchan/internal/utils"
)

// --- Mocks ---

// MockThreadStorage mocks the ThreadStorage interface.
type MockThreadStorage struct {
	createThreadFunc func(creationData domain.ThreadCreationData) (domain.ThreadId, *domain.Eviction, error)
	getThreadFunc    func(id domain.ThreadId) (domain.Thread, error)
	deleteThreadFunc func(id domain.ThreadId) ([]string, error)
	listBoardFunc    func(board domain.BoardShortName, limit, previewReplies int) ([]*domain.ThreadSummary, error)

	mu                 sync.Mutex
	createThreadCalled bool
	deleteThreadCalled bool
	deleteIdArg        domain.ThreadId
	listLimitArg       int
	listPreviewArg     int
}

func (m *MockThreadStorage) CreateThread(creationData domain.ThreadCreationData) (domain.ThreadId, *domain.Eviction, error) {
	m.mu.Lock()
	m.createThreadCalled = true
	m.mu.Unlock()

	if m.createThreadFunc != nil {
		return m.createThreadFunc(creationData)
	}
	return 1, nil, nil
}

func (m *MockThreadStorage) GetThread(id domain.ThreadId) (domain.Thread, error) {
	if m.getThreadFunc != nil {
		return m.getThreadFunc(id)
	}
	return domain.Thread{ThreadMetadata: domain.ThreadMetadata{Id: id}}, nil
}

func (m *MockThreadStorage) DeleteThread(id domain.ThreadId) ([]string, error) {
	m.mu.Lock()
	m.deleteThreadCalled = true
	m.deleteIdArg = id
	m.mu.Unlock()

	if m.deleteThreadFunc != nil {
		return m.deleteThreadFunc(id)
	}
	return nil, nil
}

func (m *MockThreadStorage) ListBoard(board domain.BoardShortName, limit, previewReplies int) ([]*domain.ThreadSummary, error) {
	m.mu.Lock()
	m.listLimitArg = limit
	m.listPreviewArg = previewReplies
	m.mu.Unlock()

	if m.listBoardFunc != nil {
		return m.listBoardFunc(board, limit, previewReplies)
	}
	return nil, nil
}

// MockMediaStorage mocks MediaStorage, tracking deletions.
type MockMediaStorage struct {
	mu        sync.Mutex
	deleted   []string
	deleteErr error
}

func (m *MockMediaStorage) Save(fileData io.Reader, originalExtension string) (string, error) {
	return "token" + originalExtension, nil
}

func (m *MockMediaStorage) SaveThumb(fileData io.Reader, token string) error { return nil }

func (m *MockMediaStorage) Read(filename string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (m *MockMediaStorage) Delete(filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, filename)
	return m.deleteErr
}

func (m *MockMediaStorage) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{
		Boards:             map[string]string{"b": "Random", "a": "Anime"},
		BoardPageSize:      10,
		PreviewReplies:     3,
		MaxThreadsPerBoard: 100,
	}}
}

func newThreadService(storage *MockThreadStorage, media *MockMediaStorage) *Thread {
	return NewThread(storage, media, &utils.PostValidator{}, testConfig())
}

// --- Tests ---

func TestThreadCreate(t *testing.T) {
	validData := domain.ThreadCreationData{Board: "b", Title: "hello", Content: "first post"}

	t.Run("success", func(t *testing.T) {
		storage := &MockThreadStorage{}
		svc := newThreadService(storage, &MockMediaStorage{})

		id, err := svc.Create(validData)

		require.NoError(t, err)
		assert.Equal(t, domain.ThreadId(1), id)
		assert.True(t, storage.createThreadCalled)
	})

	t.Run("unknown board fails validation without storage call", func(t *testing.T) {
		storage := &MockThreadStorage{}
		svc := newThreadService(storage, &MockMediaStorage{})

		_, err := svc.Create(domain.ThreadCreationData{Board: "zzz", Content: "text"})

		require.Error(t, err)
		assert.Equal(t, 400, internal_errors.StatusCodeOf(err))
		assert.False(t, storage.createThreadCalled)
	})

	t.Run("empty content fails validation", func(t *testing.T) {
		storage := &MockThreadStorage{}
		svc := newThreadService(storage, &MockMediaStorage{})

		_, err := svc.Create(domain.ThreadCreationData{Board: "b", Content: "   "})

		require.Error(t, err)
		assert.Equal(t, 400, internal_errors.StatusCodeOf(err))
		assert.False(t, storage.createThreadCalled)
	})

	t.Run("eviction releases the evicted thread's uploads", func(t *testing.T) {
		storage := &MockThreadStorage{
			createThreadFunc: func(creationData domain.ThreadCreationData) (domain.ThreadId, *domain.Eviction, error) {
				return 101, &domain.Eviction{ThreadId: 1, ImagePaths: []string{"old1.png", "old2.jpg"}}, nil
			},
		}
		media := &MockMediaStorage{}
		svc := newThreadService(storage, media)

		id, err := svc.Create(validData)

		require.NoError(t, err)
		assert.Equal(t, domain.ThreadId(101), id)
		assert.Equal(t, []string{"old1.png", "old2.jpg"}, media.Deleted())
	})

	t.Run("storage error propagates", func(t *testing.T) {
		storage := &MockThreadStorage{
			createThreadFunc: func(creationData domain.ThreadCreationData) (domain.ThreadId, *domain.Eviction, error) {
				return -1, nil, errors.New("db down")
			},
		}
		svc := newThreadService(storage, &MockMediaStorage{})

		_, err := svc.Create(validData)

		require.Error(t, err)
		assert.Equal(t, 500, internal_errors.StatusCodeOf(err))
	})
}

func TestThreadDelete(t *testing.T) {
	t.Run("releases all referenced uploads", func(t *testing.T) {
		storage := &MockThreadStorage{
			deleteThreadFunc: func(id domain.ThreadId) ([]string, error) {
				return []string{"op.png", "r1.jpg"}, nil
			},
		}
		media := &MockMediaStorage{}
		svc := newThreadService(storage, media)

		require.NoError(t, svc.Delete(7))

		assert.True(t, storage.deleteThreadCalled)
		assert.Equal(t, domain.ThreadId(7), storage.deleteIdArg)
		assert.Equal(t, []string{"op.png", "r1.jpg"}, media.Deleted())
	})

	t.Run("missing thread is a no-op", func(t *testing.T) {
		storage := &MockThreadStorage{}
		media := &MockMediaStorage{}
		svc := newThreadService(storage, media)

		require.NoError(t, svc.Delete(404))
		assert.Empty(t, media.Deleted())
	})

	t.Run("file release failure does not fail the delete", func(t *testing.T) {
		storage := &MockThreadStorage{
			deleteThreadFunc: func(id domain.ThreadId) ([]string, error) {
				return []string{"stuck.png"}, nil
			},
		}
		media := &MockMediaStorage{deleteErr: errors.New("disk error")}
		svc := newThreadService(storage, media)

		assert.NoError(t, svc.Delete(7))
	})
}

func TestThreadListBoard(t *testing.T) {
	t.Run("passes configured page and preview sizes", func(t *testing.T) {
		storage := &MockThreadStorage{}
		svc := newThreadService(storage, &MockMediaStorage{})

		_, err := svc.ListBoard("b")

		require.NoError(t, err)
		assert.Equal(t, 10, storage.listLimitArg)
		assert.Equal(t, 3, storage.listPreviewArg)
	})

	t.Run("unknown board is not found", func(t *testing.T) {
		svc := newThreadService(&MockThreadStorage{}, &MockMediaStorage{})

		_, err := svc.ListBoard("zzz")

		require.Error(t, err)
		assert.Equal(t, 404, internal_errors.StatusCodeOf(err))
	})
}

func TestThreadBoards(t *testing.T) {
	svc := newThreadService(&MockThreadStorage{}, &MockMediaStorage{})

	boards := svc.Boards()

	require.Len(t, boards, 2)
	assert.Equal(t, "a", boards[0].ShortName)
	assert.Equal(t, "b", boards[1].ShortName)
}
