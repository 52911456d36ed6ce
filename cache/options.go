package cache

import (
	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/connector"
)

// Option 缓存组件选项函数
type Option func(*options)

// options 选项结构（内部使用）
type options struct {
	Logger    clog.Logger
	RedisConn connector.RedisConnector
}

// WithLogger 注入日志记录器
// 组件内部会自动追加 Namespace: logger.WithNamespace("cache")
func WithLogger(l clog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.Logger = l.WithNamespace("cache")
		}
	}
}

// WithRedisConnector 注入 Redis 连接器（仅用于分布式模式）
func WithRedisConnector(conn connector.RedisConnector) Option {
	return func(o *options) {
		o.RedisConn = conn
	}
}

// applyDefaults 填充缺省依赖
func (o *options) applyDefaults() {
	if o.Logger == nil {
		o.Logger = clog.Default("cache")
	}
}
