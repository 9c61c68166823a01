package cache

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"photovault/pkg/storage"
	"photovault/pkg/types"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger { return zerolog.Nop() }

// -----------------------------------------------------------------------------
// SpyBackend (间谍后端)
// 统计底层方法被调用的次数，验证请求有没有穿透缓存
// -----------------------------------------------------------------------------
type SpyBackend struct {
	existsCount int32
	saveCount   int32
	objects     map[string][]byte
}

func NewSpyBackend() *SpyBackend {
	return &SpyBackend{objects: make(map[string][]byte)}
}

func (s *SpyBackend) id(key types.Key, scope types.Scope) string {
	return scope.String() + "/" + key.String()
}

func (s *SpyBackend) Save(ctx context.Context, up storage.Upload, key types.Key, scope types.Scope) (types.Locator, error) {
	atomic.AddInt32(&s.saveCount, 1)
	s.objects[s.id(key, scope)] = []byte("data")
	return types.Locator("fake://spy/" + s.id(key, scope)), nil
}

func (s *SpyBackend) Delete(ctx context.Context, key types.Key, scope types.Scope) error {
	delete(s.objects, s.id(key, scope))
	return nil
}

func (s *SpyBackend) Exists(ctx context.Context, key types.Key, scope types.Scope) (bool, error) {
	atomic.AddInt32(&s.existsCount, 1)
	_, ok := s.objects[s.id(key, scope)]
	return ok, nil
}

// -----------------------------------------------------------------------------
// 集成测试 (需要本地 Redis，没有就跳过)
// -----------------------------------------------------------------------------

func TestCachedBackend_Integration(t *testing.T) {
	redisAddr := "localhost:6379"
	conn, err := net.DialTimeout("tcp", redisAddr, 1*time.Second)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	conn.Close()

	ctx := context.Background()
	spy := NewSpyBackend()
	cached, err := NewCachedBackend(spy, Config{
		RedisURL: fmt.Sprintf("redis://%s/0", redisAddr),
		TTL:      1 * time.Hour,
	}, testLogger())
	require.NoError(t, err)

	// 清理 Redis (防止上次测试残留)
	cached.client.FlushDB(ctx)

	key := types.Key("cat.jpg")
	scope := types.Scope("42")

	// --- Step 1: Cache Miss ---
	exists, err := cached.Exists(ctx, key, scope)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.existsCount), "backend Exists() should be called on miss")

	// --- Step 2: Save (写穿 + 写缓存) ---
	_, err = cached.Save(ctx, storage.Upload{Body: bytes.NewReader([]byte("x"))}, key, scope)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.saveCount))

	redisVal, err := cached.client.Exists(ctx, cached.cacheKey(key, scope)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), redisVal, "redis key should be set after Save")

	// --- Step 3: Cache Hit ---
	// 核心断言：existsCount 不再增长，证明请求被 Redis 拦截了
	exists, err = cached.Exists(ctx, key, scope)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.existsCount), "backend Exists() should NOT be called on hit")

	// --- Step 4: Delete 先失效缓存 ---
	require.NoError(t, cached.Delete(ctx, key, scope))
	redisVal, err = cached.client.Exists(ctx, cached.cacheKey(key, scope)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), redisVal, "redis key should be invalidated after Delete")

	exists, err = cached.Exists(ctx, key, scope)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheKey(t *testing.T) {
	c := &CachedBackend{}
	assert.Equal(t, "pv:obj:42/cat.jpg", c.cacheKey("cat.jpg", "42"))
	assert.Equal(t, "pv:obj:cat.jpg", c.cacheKey("cat.jpg", ""))
}
