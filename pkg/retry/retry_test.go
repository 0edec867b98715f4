package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(p Policy) Policy {
	p.InitialDelay = time.Millisecond
	p.MaxDelay = time.Millisecond
	return p
}

func TestDo_RetriesOnlyMarkedErrors(t *testing.T) {
	calls := 0
	err := fast(SavePolicy()).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("connection reset"))
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	boom := errors.New("duplicate key")
	err = fast(SavePolicy()).Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "unmarked errors are not retried by the save policy")
}

func TestDo_PermanentStopsRetryAll(t *testing.T) {
	boom := errors.New("bad connection string")
	calls := 0
	err := fast(ConnectPolicy(nil)).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(boom)
	})

	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ReturnsUnmarkedErrorAfterMaxAttempts(t *testing.T) {
	boom := errors.New("timeout")
	var retries []int
	p := fast(SavePolicy())
	p.OnRetry = func(attempt int, err error, _ time.Duration) {
		assert.Same(t, boom, err)
		retries = append(retries, attempt)
	}

	err := p.Do(context.Background(), func(context.Context) error {
		return Retryable(boom)
	})

	assert.Same(t, boom, err)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDo_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := ConnectPolicy(func(int, error, time.Duration) { cancel() })
	p.InitialDelay = time.Hour
	p.MaxDelay = time.Hour

	boom := errors.New("connection refused")
	err := p.Do(ctx, func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDoWithData(t *testing.T) {
	calls := 0
	got, err := DoWithData(context.Background(), fast(ConnectPolicy(nil)), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("connection refused")
		}
		return "connected", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "connected", got)
	assert.Equal(t, 2, calls)
}

func TestPolicy_Delay(t *testing.T) {
	p := Policy{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, p.Delay(1))
	assert.Equal(t, 200*time.Millisecond, p.Delay(2))
	assert.Equal(t, 300*time.Millisecond, p.Delay(3), "capped")

	p.Jitter = 0.5
	for i := 0; i < 20; i++ {
		d := p.Delay(1)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}
