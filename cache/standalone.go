package cache

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"

	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/xerrors"
)

// defaultTTL 当未指定 TTL 时使用的默认时间（100年，模拟永久）
const defaultTTL = 24 * 365 * 100 * time.Hour

type standaloneCache struct {
	cache  *otter.Cache[string, any]
	logger clog.Logger
}

// newStandalone 创建进程内缓存实例
func newStandalone(cfg *Config, logger clog.Logger) (Cache, error) {
	opts := &otter.Options[string, any]{
		MaximumSize:   cfg.MaxEntries,
		StatsRecorder: stats.NewCounter(),
		// 写入过期策略（与 Redis TTL 语义一致）：
		// 过期时间从写入开始计算，读取不会重置 TTL。
		// 实际 TTL 在 Set 时通过 SetExpiresAfter 覆盖。
		ExpiryCalculator: otter.ExpiryWriting[string, any](defaultTTL),
	}

	c, err := otter.New(opts)
	if err != nil {
		return nil, xerrors.Wrap(err, "cache: failed to build otter cache")
	}

	return &standaloneCache{cache: c, logger: logger}, nil
}

func (c *standaloneCache) Get(ctx context.Context, key string, dest any) error {
	val, ok := c.cache.GetIfPresent(key)
	if !ok {
		return ErrMiss
	}
	return c.assignValue(val, dest)
}

func (c *standaloneCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.cache.Set(key, value)
	if ttl > 0 {
		c.cache.SetExpiresAfter(key, ttl)
	}
	return nil
}

func (c *standaloneCache) Delete(ctx context.Context, key string) error {
	c.cache.Invalidate(key)
	return nil
}

func (c *standaloneCache) Clear(ctx context.Context) error {
	c.cache.InvalidateAll()
	return nil
}

func (c *standaloneCache) Close() error {
	c.cache.StopAllGoroutines()
	return nil
}

// assignValue 将缓存中的原始对象赋值到 dest
//
// 基于反射的浅拷贝：如果缓存对象包含指针（map、slice 等），
// dest 将与缓存共享底层数据，调用方应将取出的对象视为只读。
func (c *standaloneCache) assignValue(val any, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("dest must be a non-nil pointer")
	}
	dv = dv.Elem()

	sv := reflect.ValueOf(val)
	if sv.IsValid() && sv.Type().AssignableTo(dv.Type()) {
		dv.Set(sv)
		return nil
	}

	// dest 是 interface{} 时可以接收任意值
	if dv.Kind() == reflect.Interface {
		dv.Set(sv)
		return nil
	}

	return fmt.Errorf("cannot assign cached value of type %T to dest of type %T", val, dest)
}
