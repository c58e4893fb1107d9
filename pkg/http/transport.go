package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// BearerAuth sets the Authorization header when token is not empty
func BearerAuth(token string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if token == "" {
			return next
		}
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(req)
		})
	}
}

// Logging writes one debug line per outbound call with its status and latency.
// Header values are never logged.
func Logging() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("url", req.URL.Redacted()),
				zap.Int64("request_bytes", req.ContentLength),
				zap.Duration("elapsed", time.Since(start)),
			}
			if err != nil {
				ctxzap.Debug(req.Context(), "outbound request failed", append(fields, zap.Error(err))...)
				return nil, err
			}

			ctxzap.Debug(req.Context(), "outbound request", append(fields, zap.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}
