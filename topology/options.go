package topology

import "github.com/ceyewan/shardkit/clog"

type options struct {
	logger clog.Logger
}

// Option 拓扑构建选项
type Option func(*options)

// WithLogger 注入日志记录器
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("topology")
		}
	}
}

func (o *options) applyDefaults() {
	if o.logger == nil {
		o.logger = clog.Default("topology")
	}
}
