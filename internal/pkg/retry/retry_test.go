package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryConfig_ToRetryOptions(t *testing.T) {
	rc := &RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: time.Millisecond}

	calls := 0
	err := retry.Do(func() error {
		calls++
		return errors.New("boom")
	}, rc.ToRetryOptions()...)

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "boom", err.Error())
}

func TestRetryConfig_WithTimeout(t *testing.T) {
	rc := &RetryConfig{Timeout: time.Hour}
	ctx, cancel := rc.WithTimeout(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)

	rc.Timeout = 0
	ctx, cancel = rc.WithTimeout(context.Background())
	_, ok = ctx.Deadline()
	assert.False(t, ok)
	cancel()
	assert.Error(t, ctx.Err())
}

func TestDefaultRetryConfig(t *testing.T) {
	rc := DefaultRetryConfig()
	assert.Equal(t, uint(defaultAttempts), rc.Attempts)
	assert.Equal(t, defaultDelay, rc.Delay)
	assert.Equal(t, defaultMaxDelay, rc.MaxDelay)
}
