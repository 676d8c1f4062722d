package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeUpload(t *testing.T) {
	t.Run("streams a stored file", func(t *testing.T) {
		env := newTestEnv(t)
		token, err := env.media.Save(bytes.NewReader([]byte("image bytes")), ".png")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/uploads/"+token, nil)
		rr := httptest.NewRecorder()
		env.router().ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image bytes", rr.Body.String())
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Cache-Control"), "immutable")
	})

	t.Run("missing file", func(t *testing.T) {
		env := newTestEnv(t)
		req := httptest.NewRequest(http.MethodGet, "/uploads/nope.png", nil)
		rr := httptest.NewRecorder()
		env.router().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

type failingPinger struct{}

func (failingPinger) Ping() error { return errors.New("connection refused") }

type okPinger struct{}

func (okPinger) Ping() error { return nil }

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("health always ok", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.handler.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("ready without storage wired", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.handler.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("ready with reachable storage", func(t *testing.T) {
		env.handler.SetPinger(okPinger{})
		rr := httptest.NewRecorder()
		env.handler.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("ready with unreachable storage", func(t *testing.T) {
		env.handler.SetPinger(failingPinger{})
		rr := httptest.NewRecorder()
		env.handler.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
