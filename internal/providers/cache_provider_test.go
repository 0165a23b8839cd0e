package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrvd/internal/structures"
)

// local mock logger to avoid import cycle with testutil
type cacheTestLogger struct{}

func (m *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool, size int, interval time.Duration) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{
			Enabled: enabled,
			Size:    size,
		},
		Poll: structures.PollConfig{
			Interval: interval,
		},
	}
}

func TestCacheProvider_DisabledReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(false, 10, time.Hour), &cacheTestLogger{})
	_, ok := c.Get("any")
	assert.False(t, ok)
	assert.IsType(t, &noopCache{}, c)
}

func TestCacheProvider_ZeroSizeReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 0, time.Hour), &cacheTestLogger{})
	assert.IsType(t, &noopCache{}, c)
}

func TestCacheProvider_SetGet(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, time.Hour), &cacheTestLogger{})

	c.Set("hrv:user1", []byte(`{"hrv":[]}`))
	val, ok := c.Get("hrv:user1")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"hrv":[]}`), val)
}

func TestCacheProvider_GetMissing(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, time.Hour), &cacheTestLogger{})
	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestCacheProvider_Del(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, time.Hour), &cacheTestLogger{})

	c.Set("hrv:user1", []byte("payload"))
	c.Del("hrv:user1")

	_, ok := c.Get("hrv:user1")
	assert.False(t, ok)
}

func TestNoopCache_DelIsNoop(t *testing.T) {
	c := &noopCache{}
	c.Set("k", []byte("v"))
	c.Del("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}
