package batch

// Config 批量迭代器配置
type Config struct {
	// Workers 异步迭代的工作协程上限（默认 4）
	//
	// 仅 ForEachTenantAsync 使用；批次在有界工作池上并行执行，
	// 单个批次内的租户仍然串行处理。
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// StopOnError 为 true 时首个租户回调失败即中止整轮迭代
	//
	// 默认 false：单租户失败记录日志并继续，错误在迭代结束后
	// 聚合返回。
	StopOnError bool `json:"stop_on_error" yaml:"stop_on_error" mapstructure:"stop_on_error"`
}

// setDefaults 设置配置的默认值（内部使用）
func (c *Config) setDefaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
}
