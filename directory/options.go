package directory

import (
	"github.com/ceyewan/shardkit/cache"
	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/metrics"
)

type options struct {
	logger clog.Logger
	meter  metrics.Meter
	cache  cache.Cache
}

// Option 目录组件选项函数
type Option func(*options)

// WithLogger 注入日志记录器
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("directory")
		}
	}
}

// WithMeter 注入指标 Meter
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}

// WithCache 注入映射缓存
//
// 未注入时目录不做缓存，所有查询直达持久化存储。
func WithCache(c cache.Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

func (o *options) applyDefaults() {
	if o.logger == nil {
		o.logger = clog.Default("directory")
	}
}
