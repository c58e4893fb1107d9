package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnector_DoRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/items", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": "item", "count": 2}`)) //nolint:errcheck
	}))
	defer srv.Close()

	var resp struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	c := NewConnector(srv.URL + "/")
	err := c.DoRequest(context.Background(), http.MethodPost, "/v1/items", map[string]int{"a": 1}, &resp,
		WithHeader("X-Test", "yes"))

	require.NoError(t, err)
	assert.Equal(t, "item", resp.Name)
	assert.Equal(t, 2, resp.Count)
}

func TestConnector_DoRequest_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, "slow down", httpErr.Message)
	assert.True(t, IsRetryable(err))
}

func TestConnector_DoRequest_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewConnector(url).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.True(t, IsRetryable(err))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &HTTPError{StatusCode: 500}, true},
		{"too many requests", &HTTPError{StatusCode: 429}, true},
		{"conflict", &HTTPError{StatusCode: 409}, false},
		{"canceled", &NetworkError{Err: context.Canceled}, false},
		{"timeout", &NetworkError{Err: context.DeadlineExceeded}, true},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}

	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := NewConnector(srv.URL,
		WithMiddleware(mark("first")),
		WithMiddleware(Logging()),
		WithMiddleware(BearerAuth("t0k3n")),
		WithMiddleware(mark("last")),
	)
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))

	assert.Equal(t, []string{"first", "last"}, order)
	assert.Equal(t, "Bearer t0k3n", auth)
}
