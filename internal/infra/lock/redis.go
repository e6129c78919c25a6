package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
)

// Só apaga a trava se ela ainda for nossa.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const retryEvery = 25 * time.Millisecond

// RedisLocker é a trava consultiva por agenda/dia usada na criação de reservas.
type RedisLocker struct {
	client redis.Cmdable
	ttl    time.Duration
	wait   time.Duration
	logger *zerolog.Logger
}

func NewRedisLocker(
	client redis.Cmdable,
	ttl time.Duration,
	wait time.Duration,
	logger *zerolog.Logger,
) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		wait:   wait,
		logger: logger,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := "lock:booking:" + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(lockKey, token) }, nil
		}

		if time.Now().After(deadline) {
			return nil, domain.ErrLockBusy
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryEvery):
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	// contexto próprio: a requisição pode já ter sido cancelada
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("booking lock release failed")
	}
}

var _ domain.Locker = (*RedisLocker)(nil)
