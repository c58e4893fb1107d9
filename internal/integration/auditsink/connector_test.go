package auditsink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/structure-engine/internal/config"
	"github.com/futig/structure-engine/internal/entity"
	pkgRetry "github.com/futig/structure-engine/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc, token string) *Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewConnector(config.AuditSinkConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:            srv.URL,
			Token:          token,
			RequestTimeout: 5 * time.Second,
		},
		Endpoint: "/records",
		Retry: pkgRetry.RetryConfig{
			Attempts: 3,
			Delay:    time.Millisecond,
			MaxDelay: 5 * time.Millisecond,
			Timeout:  5 * time.Second,
		},
	}, zap.NewNop())
}

func TestConnector_Write(t *testing.T) {
	var got Envelope
	var headers http.Header
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/records", r.URL.Path)
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}, "secret")

	err := c.Write(context.Background(), "diff_logs", "diff_1", []byte(`{"id":"diff_1"}`))

	require.NoError(t, err)
	assert.Equal(t, "diff_logs", got.Category)
	assert.Equal(t, "diff_1", got.Key)
	assert.JSONEq(t, `{"id":"diff_1"}`, string(got.Record))
	assert.Equal(t, "diff_logs/diff_1", headers.Get("Idempotency-Key"))
	assert.Equal(t, "Bearer secret", headers.Get("Authorization"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
}

func TestConnector_WriteWithoutToken(t *testing.T) {
	var auth string
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}, "")

	require.NoError(t, c.Write(context.Background(), "diff_logs", "k", []byte(`{}`)))
	assert.Empty(t, auth)
}

func TestConnector_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}, "")

	require.NoError(t, c.Write(context.Background(), "diff_logs", "k", []byte(`{}`)))
	assert.Equal(t, int32(3), calls.Load())
}

func TestConnector_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}, "")

	err := c.Write(context.Background(), "diff_logs", "k", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.Equal(t, int32(3), calls.Load())
}

func TestConnector_ConflictMeansExists(t *testing.T) {
	var calls atomic.Int32
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "exists", http.StatusConflict)
	}, "")

	err := c.Write(context.Background(), "diff_logs", "k", []byte(`{}`))
	assert.ErrorIs(t, err, entity.ErrAuditRecordExists)
	assert.Equal(t, int32(1), calls.Load(), "client errors are not retried")
}

func TestConnector_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad", http.StatusBadRequest)
	}, "")

	err := c.Write(context.Background(), "diff_logs", "k", []byte(`{}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrAuditRecordExists)
	assert.Equal(t, int32(1), calls.Load())
}
