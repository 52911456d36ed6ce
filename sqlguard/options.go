package sqlguard

import "github.com/ceyewan/shardkit/clog"

type options struct {
	logger clog.Logger
}

// Option 校验器选项函数
type Option func(*options)

// WithLogger 注入日志记录器
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("sqlguard")
		}
	}
}

func (o *options) applyDefaults() {
	if o.logger == nil {
		o.logger = clog.Default("sqlguard")
	}
}
