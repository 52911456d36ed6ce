package directory

import "time"

// Config 目录组件配置
type Config struct {
	// CacheTTL 映射缓存的过期时间（默认 5 分钟）
	//
	// 超过 TTL 的缓存条目视为不存在，下次查询回源持久化存储。
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// setDefaults 设置配置的默认值（内部使用）
func (c *Config) setDefaults() {
	if c.CacheTTL <= 0 {
		c.CacheTTL = 5 * time.Minute
	}
}
