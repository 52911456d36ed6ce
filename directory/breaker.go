package directory

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/ceyewan/shardkit/cache"
	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/xerrors"
)

// guardedCache 在缓存后端前加一层熔断器
//
// 分布式缓存后端不可用时，目录降级为直查持久化存储；熔断器避免
// 每次查询都等待一次失败的缓存调用。缓存未命中（ErrMiss）是正常
// 结果，不计入失败。
type guardedCache struct {
	inner   cache.Cache
	breaker *gobreaker.CircuitBreaker[any]
	logger  clog.Logger
}

func newGuardedCache(inner cache.Cache, logger clog.Logger) *guardedCache {
	settings := gobreaker.Settings{
		Name:        "directory-cache",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || xerrors.Is(err, cache.ErrMiss)
		},
	}

	return &guardedCache{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

func (g *guardedCache) get(ctx context.Context, key string, dest any) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.inner.Get(ctx, key, dest)
	})
	return err
}

func (g *guardedCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.inner.Set(ctx, key, value, ttl)
	})
	return err
}

func (g *guardedCache) delete(ctx context.Context, key string) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.inner.Delete(ctx, key)
	})
	return err
}

func (g *guardedCache) clear(ctx context.Context) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.inner.Clear(ctx)
	})
	return err
}
