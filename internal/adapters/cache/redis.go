package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/habitvault/habitvault/internal/core/domain"
)

func NewRedisClient(host, port, password string, dbIndex int) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           dbIndex,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}

var _ domain.MetricsCache = (*RedisMetricsCache)(nil)

const DefaultMetricsTTL = 24 * time.Hour

// unknownGeneration is handed out when Redis cannot be read. It never
// matches a stored counter, so the matching Set is refused.
const unknownGeneration = ^uint64(0)

// setIfGeneration writes one metrics field only while the habit's
// generation counter (absent means 0) still equals ARGV[1].
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2])
if not gen then gen = '0' end
if gen ~= ARGV[1] then return 0 end
redis.call('HSET', KEYS[1], ARGV[2], ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// RedisMetricsCache stores one hash per habit, keyed "metrics:{habitID}",
// with one field per MetricsKey.Field. Invalidating a habit drops the whole
// hash and increments "metrics:{habitID}:gen".
type RedisMetricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMetricsCache(client *redis.Client, ttl time.Duration) *RedisMetricsCache {
	if ttl <= 0 {
		ttl = DefaultMetricsTTL
	}
	return &RedisMetricsCache{client: client, ttl: ttl}
}

func (c *RedisMetricsCache) key(habitID string) string {
	return fmt.Sprintf("metrics:%s", habitID)
}

func (c *RedisMetricsCache) genKey(habitID string) string {
	return fmt.Sprintf("metrics:%s:gen", habitID)
}

func (c *RedisMetricsCache) Generation(ctx context.Context, habitID string) uint64 {
	gen, err := c.client.Get(ctx, c.genKey(habitID)).Uint64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0
	case err != nil:
		log.Printf("[CACHE] Redis generation read error for habit %s: %v", habitID, err)
		return unknownGeneration
	}
	return gen
}

func (c *RedisMetricsCache) Get(ctx context.Context, key domain.MetricsKey) (domain.DerivedMetrics, bool) {
	raw, err := c.client.HGet(ctx, c.key(key.HabitID), key.Field()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] Redis read error for habit %s: %v", key.HabitID, err)
		}
		return domain.DerivedMetrics{}, false
	}

	var m domain.DerivedMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		log.Printf("[CACHE] Corrupted metrics for habit %s, cleaning up key", key.HabitID)
		c.Invalidate(ctx, key.HabitID)
		return domain.DerivedMetrics{}, false
	}
	return m, true
}

func (c *RedisMetricsCache) Set(ctx context.Context, key domain.MetricsKey, gen uint64, m domain.DerivedMetrics) bool {
	if gen == unknownGeneration {
		return false
	}

	data, err := json.Marshal(m)
	if err != nil {
		return false
	}

	keys := []string{c.key(key.HabitID), c.genKey(key.HabitID)}
	stored, err := setIfGeneration.Run(ctx, c.client, keys, gen, key.Field(), data, c.ttl.Milliseconds()).Int()
	if err != nil {
		log.Printf("[CACHE] Redis set error for habit %s: %v", key.HabitID, err)
		return false
	}
	return stored == 1
}

// Invalidate keeps the generation counter for twice the entry TTL, far
// longer than any reader holds a generation.
func (c *RedisMetricsCache) Invalidate(ctx context.Context, habitID string) {
	genKey := c.genKey(habitID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key(habitID))
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, 2*c.ttl)
		return nil
	})
	if err != nil {
		log.Printf("[CACHE] Failed to invalidate metrics of habit %s: %v", habitID, err)
	}
}
