package metrics

// Config 指标组件配置
type Config struct {
	// Enabled 是否启用指标收集，禁用时 New 返回 noop 实现
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// ServiceName 服务名称，作为指标的 service 资源属性
	ServiceName string `json:"service_name" yaml:"service_name" mapstructure:"service_name"`

	// Version 服务版本
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// Port Prometheus HTTP 服务器端口，0 表示不启动内置服务器
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// Path 指标暴露路径（默认 "/metrics"）
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// setDefaults 设置配置的默认值（内部使用）
func (c *Config) setDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "shardkit"
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}
