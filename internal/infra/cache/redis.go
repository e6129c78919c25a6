package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
)

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// AvailabilityCache guarda a grade bruta de horários por dia.
// Cada estabelecimento tem um contador de versão que entra na chave:
// invalidar é só incrementar o contador, as chaves antigas expiram pelo TTL.
type AvailabilityCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewAvailabilityCache(
	client redis.Cmdable,
	ttl time.Duration,
	logger *zerolog.Logger,
) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func versionKey(tenantID uint) string {
	return fmt.Sprintf("availability:v:%d", tenantID)
}

func (c *AvailabilityCache) version(ctx context.Context, tenantID uint) (string, error) {
	ver, err := c.client.Get(ctx, versionKey(tenantID)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return ver, err
}

func slotsKey(k domain.SlotKey, version string) string {
	return fmt.Sprintf("availability:%d:%s:%s", k.TenantID, version, k.String())
}

// GetSlots lê a versão uma única vez; a mesma versão volta para o SetSlots.
func (c *AvailabilityCache) GetSlots(ctx context.Context, k domain.SlotKey) ([]domain.Slot, string, bool) {
	ver, err := c.version(ctx, k.TenantID)
	if err != nil {
		c.logger.Warn().Err(err).Msg("availability cache unavailable")
		return nil, "", false
	}

	key := slotsKey(k, ver)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("availability cache read failed")
		}
		return nil, ver, false
	}

	var slots []domain.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("availability cache entry corrupted")
		return nil, ver, false
	}
	return slots, ver, true
}

// SetSlots grava sob a versão lida no GetSlots. Sem versão (redis fora), não grava.
func (c *AvailabilityCache) SetSlots(ctx context.Context, k domain.SlotKey, version string, slots []domain.Slot) {
	if version == "" {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	key := slotsKey(k, version)
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("availability cache write failed")
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, tenantID uint) {
	if err := c.client.Incr(ctx, versionKey(tenantID)).Err(); err != nil {
		c.logger.Error().Err(err).Uint("tenant_id", tenantID).Msg("availability cache invalidation failed")
	}
}

var _ domain.SlotCache = (*AvailabilityCache)(nil)
