package darwin

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/patrickmn/go-cache"
)

// ServiceCache keeps associated service details between requests. A miss
// and a cache failure look the same to the caller.
type ServiceCache interface {
	Get(rid string) (*ServiceDetail, bool)
	Set(rid string, svc *ServiceDetail)
}

type memoryCache struct {
	c *cache.Cache
}

// NewMemoryCache caches services in process for ttl.
func NewMemoryCache(ttl time.Duration) ServiceCache {
	return &memoryCache{c: cache.New(ttl, 2*ttl)}
}

func (m *memoryCache) Get(rid string) (*ServiceDetail, bool) {
	v, ok := m.c.Get(rid)
	if !ok {
		return nil, false
	}
	return v.(*ServiceDetail), true
}

func (m *memoryCache) Set(rid string, svc *ServiceDetail) {
	m.c.SetDefault(rid, svc)
}

const redisKeyPrefix = "darwin:service:"

type redisCache struct {
	pool   *redis.Pool
	ttl    time.Duration
	logger *log.Logger
}

// NewRedisCache shares cached services between instances through Redis.
func NewRedisCache(pool *redis.Pool, ttl time.Duration, logger *log.Logger) ServiceCache {
	return &redisCache{pool: pool, ttl: ttl, logger: logger}
}

// NewRedisPool dials addr lazily.
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     4,
		IdleTimeout: 4 * time.Minute,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialConnectTimeout(2*time.Second),
				redis.DialReadTimeout(2*time.Second),
				redis.DialWriteTimeout(2*time.Second),
			)
		},
	}
}

func (r *redisCache) Get(rid string) (*ServiceDetail, bool) {
	conn := r.pool.Get()
	defer conn.Close()

	b, err := redis.Bytes(conn.Do("GET", redisKeyPrefix+rid))
	if err != nil {
		if !errors.Is(err, redis.ErrNil) {
			r.logger.Printf("darwin: redis cache get failed | rid: %s | error: %v", rid, err)
		}
		return nil, false
	}

	var svc ServiceDetail
	if err := json.Unmarshal(b, &svc); err != nil {
		r.logger.Printf("darwin: redis cache entry unreadable | rid: %s | error: %v", rid, err)
		return nil, false
	}
	return &svc, true
}

func (r *redisCache) Set(rid string, svc *ServiceDetail) {
	b, err := json.Marshal(svc)
	if err != nil {
		r.logger.Printf("darwin: redis cache encode failed | rid: %s | error: %v", rid, err)
		return
	}

	conn := r.pool.Get()
	defer conn.Close()

	seconds := max(1, int(r.ttl/time.Second))
	if _, err := conn.Do("SET", redisKeyPrefix+rid, b, "EX", seconds); err != nil {
		r.logger.Printf("darwin: redis cache set failed | rid: %s | error: %v", rid, err)
	}
}
