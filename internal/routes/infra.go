package routes

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/media"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/payments"
)

// tempo máximo esperando a trava antes de devolver slot_busy
const lockWait = 2 * time.Second

// BuildOptions liga os serviços externos habilitados na configuração.
// O redis fora do ar no boot não impede a subida: a API segue sem cache/trava.
func BuildOptions(cfg *config.Config, logger *zerolog.Logger) (Options, func()) {
	opts := Options{Logger: logger}
	cleanup := func() {}

	if cfg.RedisEnabled() {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(ctx).Err()
		cancel()

		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, running without cache and lock")
			_ = client.Close()
		} else {
			opts.Cache = cache.NewAvailabilityCache(client, cfg.AvailabilityCacheTTL, logger)
			opts.Locker = lock.NewRedisLocker(client, cfg.BookingLockTTL, lockWait, logger)
			cleanup = closeRedis(client, logger)
			logger.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
		}
	}

	if cfg.PaymentsEnabled() {
		client, err := payments.NewMercadoPagoClient(cfg.MercadoPagoAccessToken)
		if err != nil {
			logger.Error().Err(err).Msg("mercadopago disabled")
		} else {
			opts.Payments = client
		}
	}

	if cfg.MediaEnabled() {
		s3Client := media.NewS3Client(media.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		opts.Images = media.NewImageStore(s3Client, cfg.S3Bucket, cfg.S3PublicBaseURL)
	}

	return opts, cleanup
}

func closeRedis(client *redis.Client, logger *zerolog.Logger) func() {
	return func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close")
		}
	}
}
