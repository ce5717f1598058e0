// Package cache caché de reportes en Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

var _ ports.ReportCache = (*RedisReportCache)(nil)

const (
	keyPrefix     = "retail:reports:"
	generationKey = keyPrefix + "generation"
	opTimeout     = 500 * time.Millisecond
)

// RedisReportCache guarda reportes como JSON. Cada clave lleva el número de generación
// vigente; Invalidate lo incrementa y así ninguna lectura posterior ve datos viejos.
// Las claves de generaciones anteriores expiran por TTL.
//
// Si el INCR de Invalidate falla, la caché queda marcada como pendiente y Get responde
// miss hasta que un INCR posterior tenga éxito: nunca se sirve un reporte anterior a
// una mutación ya confirmada.
type RedisReportCache struct {
	client  *redis.Client
	log     *logger.Logger
	pending atomic.Bool
}

// NewRedisReportCache construye la caché.
func NewRedisReportCache(addr, password string, db int, log *logger.Logger) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  time.Second,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
	return NewRedisReportCacheFromClient(client, log)
}

// NewRedisReportCacheFromClient usa un cliente ya construido.
func NewRedisReportCacheFromClient(client *redis.Client, log *logger.Logger) *RedisReportCache {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisReportCache{client: client, log: log}
}

func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

// Get lee la clave en la generación vigente y devuelve esa generación.
// Ausente devuelve hit=false sin error.
func (c *RedisReportCache) Get(ctx context.Context, key string, dst any) (bool, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.retryInvalidate(ctx); err != nil {
		return false, 0, err
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return false, 0, err
	}
	val, err := c.client.Get(ctx, versioned(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, gen, nil
	}
	if err != nil {
		return false, gen, err
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, gen, err
	}
	return true, gen, nil
}

// Set guarda value bajo la generación leída por Get.
func (c *RedisReportCache) Set(ctx context.Context, gen int64, key string, value any, ttl time.Duration) error {
	if value == nil || c.pending.Load() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return c.client.Set(ctx, versioned(gen, key), payload, ttl).Err()
}

// Invalidate incrementa la generación. La mutación ya se confirmó, así que un fallo no
// se propaga: deja la caché pendiente y Get la saltea hasta que el INCR funcione.
func (c *RedisReportCache) Invalidate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opTimeout)
	defer cancel()
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.pending.Store(true)
		c.log.Warn().Err(err).Msg("caché de reportes: no se pudo invalidar; se omite hasta reintentar")
	}
}

// retryInvalidate repite el INCR pendiente. Mientras falle, la caché no responde.
func (c *RedisReportCache) retryInvalidate(ctx context.Context) error {
	if !c.pending.Load() {
		return nil
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("invalidación pendiente: %w", err)
	}
	c.pending.Store(false)
	c.log.Info().Msg("caché de reportes: invalidación pendiente aplicada")
	return nil
}

func (c *RedisReportCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func versioned(gen int64, key string) string {
	return keyPrefix + strconv.FormatInt(gen, 10) + ":" + key
}
