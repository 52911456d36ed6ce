package cache

// 缓存模式
const (
	ModeStandalone  = "standalone"
	ModeDistributed = "distributed"
)

// Config 缓存组件统一配置
type Config struct {
	// Mode 缓存模式: "standalone" | "distributed"（默认 "distributed"）
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// Prefix 全局 Key 前缀（如 "shardkit:mapping:"），分布式模式下
	// Clear 按此前缀扫描删除
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// Serializer 序列化器: "json" | "msgpack"（仅分布式模式，默认 "json"）
	Serializer string `json:"serializer" yaml:"serializer" mapstructure:"serializer"`

	// MaxEntries 最大条目数（仅单机模式，默认 10000）
	MaxEntries int `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`
}

// setDefaults 设置配置的默认值（内部使用）
func (c *Config) setDefaults() {
	if c.Mode == "" {
		c.Mode = ModeDistributed
	}
	if c.Serializer == "" {
		c.Serializer = "json"
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = 10000
	}
}

// validate 验证配置的有效性（内部使用）
func (c *Config) validate() error {
	if c.Mode != ModeStandalone && c.Mode != ModeDistributed {
		return ErrConfig
	}
	return nil
}
