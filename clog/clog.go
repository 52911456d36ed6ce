package clog

import "fmt"

// New 创建一个新的 Logger 实例
//
// config - 日志配置，如果为 nil 会使用默认配置（info 级别、console 格式）
// opts   - 函数式选项列表，用于命名空间、输出目标等配置
func New(config *Config, opts ...Option) (Logger, error) {
	if config == nil {
		config = &Config{Level: "info", Format: "console", Output: "stdout"}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	options := applyOptions(opts...)

	return newLogger(config, options)
}

// Default 返回一个使用默认配置的 Logger，创建失败时返回 noop 实现
//
// 各组件在未显式注入 Logger 时使用此函数兜底。
func Default(namespace ...string) Logger {
	logger, err := New(nil, WithNamespace(namespace...))
	if err != nil {
		return NewNoop()
	}
	return logger
}
