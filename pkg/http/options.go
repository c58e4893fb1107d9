package http

import "time"

// Option configures the client built by NewConnector
type Option func(*clientConfig)

func WithConnTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.connTimeout = timeout
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.requestTimeout = timeout
	}
}

func WithKeepAlive(keepAlive time.Duration) Option {
	return func(c *clientConfig) {
		c.keepAlive = keepAlive
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.responseHeaderTimeout = timeout
	}
}

func WithIdleConnTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.idleConnTimeout = timeout
	}
}

func WithMaxIdleConnsPerHost(n int) Option {
	return func(c *clientConfig) {
		c.maxIdleConnsPerHost = n
	}
}

// WithMiddleware wraps the transport. Middlewares run in the order given.
func WithMiddleware(mw Middleware) Option {
	return func(c *clientConfig) {
		c.middlewares = append(c.middlewares, mw)
	}
}
