// Package cache implementa la caché de lectura de inventario sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/pkg/config"
	"github.com/tu-usuario/almacen-pro/pkg/logger"
)

var _ inventory.ReadCache = (*RedisCache)(nil)

const (
	keyInventoryValue = "inventory:value"
	keyRecentPrefix   = "inventory:recent:"
	keyRecentPattern  = "inventory:recent:*"
)

// RedisCache cachea el valor de inventario y el feed de movimientos recientes.
// Todos los errores de Redis degradan a cache miss: se loguean y no interrumpen
// la operación del caller.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisCache crea el cliente y verifica conectividad con un ping.
func NewRedisCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping Redis %s: %w", cfg.Addr, err)
	}
	return &RedisCache{client: client, ttl: cfg.TTL, log: log.Component("cache")}, nil
}

// GetInventoryValue devuelve el valor cacheado, o (zero, false) si no hay hit.
func (c *RedisCache) GetInventoryValue(ctx context.Context) (decimal.Decimal, bool) {
	raw, err := c.client.Get(ctx, keyInventoryValue).Result()
	if err == redis.Nil {
		return decimal.Zero, false
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("error leyendo valor de inventario de Redis")
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		c.log.Warn().Err(err).Str("raw", raw).Msg("valor de inventario cacheado inválido")
		return decimal.Zero, false
	}
	return value, true
}

// SetInventoryValue cachea el valor total con el TTL configurado.
func (c *RedisCache) SetInventoryValue(ctx context.Context, value decimal.Decimal) {
	if err := c.client.Set(ctx, keyInventoryValue, value.String(), c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("error cacheando valor de inventario")
	}
}

// GetRecentMovements devuelve el feed cacheado para un límite dado.
func (c *RedisCache) GetRecentMovements(ctx context.Context, limit int) ([]*entity.Movement, bool) {
	raw, err := c.client.Get(ctx, recentKey(limit)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("error leyendo movimientos recientes de Redis")
		return nil, false
	}
	var movements []*entity.Movement
	if err := json.Unmarshal(raw, &movements); err != nil {
		c.log.Warn().Err(err).Msg("feed de movimientos cacheado inválido")
		return nil, false
	}
	return movements, true
}

// SetRecentMovements cachea el feed para un límite dado.
func (c *RedisCache) SetRecentMovements(ctx context.Context, limit int, movements []*entity.Movement) {
	raw, err := json.Marshal(movements)
	if err != nil {
		c.log.Warn().Err(err).Msg("error serializando movimientos para caché")
		return
	}
	if err := c.client.Set(ctx, recentKey(limit), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("error cacheando movimientos recientes")
	}
}

// InvalidateMovements borra el valor de inventario y todos los feeds recientes.
// Se llama tras confirmar cada movimiento.
func (c *RedisCache) InvalidateMovements(ctx context.Context) {
	if err := c.client.Del(ctx, keyInventoryValue).Err(); err != nil {
		c.log.Warn().Err(err).Msg("error invalidando valor de inventario")
	}
	iter := c.client.Scan(ctx, 0, keyRecentPattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn().Err(err).Msg("error escaneando claves de feed")
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.log.Warn().Err(err).Msg("error invalidando feeds recientes")
		}
	}
}

// Close cierra el cliente Redis.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func recentKey(limit int) string {
	return fmt.Sprintf("%s%d", keyRecentPrefix, limit)
}
