package darwin

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	_, ok := c.Get("R1")
	assert.False(t, ok)

	c.Set("R1", &ServiceDetail{Rid: "R1", TrainID: "1S13"})
	svc, ok := c.Get("R1")
	require.True(t, ok)
	assert.Equal(t, "1S13", svc.TrainID)
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	pool := NewRedisPool(mr.Addr())
	defer pool.Close()
	c := NewRedisCache(pool, 90*time.Second, testLogger())

	_, ok := c.Get("R1")
	assert.False(t, ok)

	c.Set("R1", &ServiceDetail{Rid: "R1", TrainID: "1S13", Locations: []*ServiceLocation{{TimingLocation: TimingLocation{Tiploc: "YORK"}}}})
	assert.True(t, mr.Exists(redisKeyPrefix+"R1"))
	assert.Equal(t, 90*time.Second, mr.TTL(redisKeyPrefix+"R1"))

	svc, ok := c.Get("R1")
	require.True(t, ok)
	assert.Equal(t, "1S13", svc.TrainID)
	require.Len(t, svc.Locations, 1)
	assert.Equal(t, "YORK", svc.Locations[0].Tiploc)

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get("R1")
	assert.False(t, ok)
}

func TestRedisCacheUnreadableEntryIsAMiss(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	require.NoError(t, mr.Set(redisKeyPrefix+"R1", "not json"))
	pool := NewRedisPool(mr.Addr())
	defer pool.Close()

	_, ok := NewRedisCache(pool, time.Minute, testLogger()).Get("R1")
	assert.False(t, ok)
}

func TestRedisCacheDownIsAMiss(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	pool := NewRedisPool(addr)
	defer pool.Close()
	c := NewRedisCache(pool, time.Minute, testLogger())

	c.Set("R1", &ServiceDetail{Rid: "R1"})
	_, ok := c.Get("R1")
	assert.False(t, ok)
}

func TestEnrichUsesRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	pool := NewRedisPool(mr.Addr())
	defer pool.Close()

	// two instances sharing one redis only fetch each associated service once
	up := &fakeUpstream{}
	first := NewEnricher(up, testTable(t), EnricherConfig{Concurrency: 2}, NewRedisCache(pool, time.Minute, testLogger()), testLogger())
	second := NewEnricher(up, testTable(t), EnricherConfig{Concurrency: 2}, NewRedisCache(pool, time.Minute, testLogger()), testLogger())

	_, err = first.Departures(t.Context(), "KGX", DefaultBoardQuery())
	require.NoError(t, err)
	board, err := second.Departures(t.Context(), "KGX", DefaultBoardQuery())
	require.NoError(t, err)

	assert.Len(t, up.calls, 2)
	assert.Equal(t, "detail-DIVIDE1", board.TrainServices[0].SubsequentLocations[0].Associations[0].Service.TrainID)
}
