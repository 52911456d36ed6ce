// Package cache 提供目录缓存的统一抽象，支持进程内与分布式两种后端。
//
// 调用方（directory 组件）只依赖 Cache 接口：
//   - "standalone"  模式：基于 otter 的进程内 TTL 缓存
//   - "distributed" 模式：基于 Redis 的共享缓存，多实例部署时保证
//     映射变更（如租户迁移后的缓存失效）对所有实例可见
//
// 基本使用：
//
//	cacheClient, _ := cache.New(&cache.Config{
//	    Mode:   "standalone",
//	    Prefix: "shardkit:mapping:",
//	}, cache.WithLogger(logger))
//
//	err := cacheClient.Set(ctx, "tenant:5001", mapping, 5*time.Minute)
//
//	var cached Mapping
//	err = cacheClient.Get(ctx, "tenant:5001", &cached)
package cache

import (
	"context"
	"time"

	"github.com/ceyewan/shardkit/xerrors"
)

// Cache 定义缓存组件的核心能力
//
// 语义约定：
//   - 超过 TTL 的条目视为不存在，Get 返回 ErrMiss
//   - Get 返回 ErrMiss 表示未命中；其他错误表示后端故障，
//     调用方应据此降级而不是当作未命中处理
type Cache interface {
	// Get 读取缓存值并反序列化到 dest，未命中返回 ErrMiss
	Get(ctx context.Context, key string, dest any) error

	// Set 写入缓存值，ttl <= 0 表示不过期
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete 删除指定键，键不存在时不报错
	Delete(ctx context.Context, key string) error

	// Clear 清空本缓存实例管理的全部条目（分布式模式下按前缀清理）
	Clear(ctx context.Context) error

	// Close 关闭组件，释放后台资源
	Close() error
}

// New 根据配置创建缓存实例
//
// Mode 为 "standalone" 时创建进程内缓存；
// 为 "distributed" 或空时创建 Redis 缓存，需通过 WithRedisConnector 注入连接器。
func New(cfg *Config, opts ...Option) (Cache, error) {
	if cfg == nil {
		return nil, xerrors.New("cache: config is nil")
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}
	opt.applyDefaults()

	switch cfg.Mode {
	case ModeStandalone:
		return newStandalone(cfg, opt.Logger)
	case ModeDistributed:
		if opt.RedisConn == nil {
			return nil, xerrors.New("cache: redis connector is required for distributed mode, use WithRedisConnector")
		}
		return newRedis(opt.RedisConn, cfg, opt.Logger)
	default:
		return nil, xerrors.Wrapf(ErrConfig, "unsupported mode: %s", cfg.Mode)
	}
}
