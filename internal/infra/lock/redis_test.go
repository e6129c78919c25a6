package lock

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
)

func newTestLocker(t *testing.T, wait time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger := zerolog.New(io.Discard)
	return NewRedisLocker(client, 5*time.Second, wait, &logger), s
}

func TestLockIsExclusive(t *testing.T) {
	l, s := newTestLocker(t, 50*time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "1:0:2024-03-10")
	require.NoError(t, err)
	assert.True(t, s.Exists("lock:booking:1:0:2024-03-10"))

	_, err = l.Acquire(ctx, "1:0:2024-03-10")
	assert.ErrorIs(t, err, domain.ErrLockBusy)

	// outra data não disputa a mesma trava
	other, err := l.Acquire(ctx, "1:0:2024-03-11")
	require.NoError(t, err)
	other()

	release()
	assert.False(t, s.Exists("lock:booking:1:0:2024-03-10"))

	again, err := l.Acquire(ctx, "1:0:2024-03-10")
	require.NoError(t, err)
	again()
}

func TestLockWaitsForRelease(t *testing.T) {
	l, _ := newTestLocker(t, time.Second)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k")
	require.NoError(t, err)

	go func() {
		time.Sleep(60 * time.Millisecond)
		release()
	}()

	second, err := l.Acquire(ctx, "k")
	require.NoError(t, err)
	second()
}

func TestReleaseKeepsForeignLock(t *testing.T) {
	l, s := newTestLocker(t, 10*time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k")
	require.NoError(t, err)

	// a trava expirou e outra instância pegou
	s.FastForward(10 * time.Second)
	require.NoError(t, s.Set("lock:booking:k", "other-token"))

	release()
	got, err := s.Get("lock:booking:k")
	require.NoError(t, err)
	assert.Equal(t, "other-token", got)
}
