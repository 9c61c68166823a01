package cache

import (
	"context"
	"fmt"
	"time"

	"photovault/pkg/storage"
	"photovault/pkg/types"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedBackend 是一个装饰器，为底层的 storage.Backend 添加 Redis 存在性缓存。
// 只缓存 Existence，不缓存文件内容——照片原图动辄几 MB，Redis 内存太贵，
// 拦截 exists 的网络往返才是性价比最高的部分。
type CachedBackend struct {
	backend storage.Backend
	client  *redis.Client
	ttl     time.Duration
	log     zerolog.Logger
}

var _ storage.Backend = (*CachedBackend)(nil)

type Config struct {
	RedisURL string        // 标准连接字符串: redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // 缓存过期时间 (例如 24h)
}

func NewCachedBackend(backend storage.Backend, cfg Config, log zerolog.Logger) (*CachedBackend, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CachedBackend{
		backend: backend,
		client:  client,
		ttl:     cfg.TTL,
		log:     log.With().Str("component", "cache").Logger(),
	}, nil
}

// cacheKey 生成 Redis Key，加前缀防止和别的业务冲突
func (c *CachedBackend) cacheKey(key types.Key, scope types.Scope) string {
	if scope.IsZero() {
		return "pv:obj:" + key.String()
	}
	return "pv:obj:" + scope.String() + "/" + key.String()
}

// Exists 优先查 Redis，命中时省掉一次对象存储的网络往返
func (c *CachedBackend) Exists(ctx context.Context, key types.Key, scope types.Scope) (bool, error) {
	ck := c.cacheKey(key, scope)

	val, err := c.client.Exists(ctx, ck).Result()
	if err != nil {
		// 缓存故障降级：Redis 挂了不应该拖垮整个存储层，
		// 退化为无缓存模式直接查底层。
		c.log.Warn().Err(err).Msg("redis unavailable, falling through to backend")
	} else if val > 0 {
		return true, nil
	}

	found, err := c.backend.Exists(ctx, key, scope)
	if err != nil {
		return false, err
	}

	// 缓存回填：异步写，不阻塞主流程。
	// 用 context.Background() 保证上层 ctx 取消后回填也能完成。
	if found {
		go func() {
			fillCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			c.client.Set(fillCtx, ck, "1", c.ttl)
		}()
	}

	return found, nil
}

// Save 透传到底层，成功后写缓存。
// 照片不是内容寻址的，同一个 key 重传就是覆盖，所以不做存在性预检。
func (c *CachedBackend) Save(ctx context.Context, up storage.Upload, key types.Key, scope types.Scope) (types.Locator, error) {
	loc, err := c.backend.Save(ctx, up, key, scope)
	if err != nil {
		return "", err
	}

	// 只有底层写成功了才写 Redis；Set 出错可以忽略，不影响主流程
	c.client.Set(ctx, c.cacheKey(key, scope), "1", c.ttl)
	return loc, nil
}

// Delete 先失效缓存再删底层。
// 顺序很重要：反过来的话，删除成功但失效失败会留下一个"存在"的幽灵条目。
func (c *CachedBackend) Delete(ctx context.Context, key types.Key, scope types.Scope) error {
	if err := c.client.Del(ctx, c.cacheKey(key, scope)).Err(); err != nil {
		c.log.Warn().Err(err).Msg("failed to invalidate cache entry")
	}
	return c.backend.Delete(ctx, key, scope)
}
