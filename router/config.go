package router

// Config 路由器配置
type Config struct {
	// ReplicaStrategy 副本选择策略:
	// "round_robin" | "random" | "first_available"（默认 "round_robin"）
	ReplicaStrategy string `json:"replica_strategy" yaml:"replica_strategy" mapstructure:"replica_strategy"`
}

// setDefaults 设置配置的默认值（内部使用）
func (c *Config) setDefaults() {
	if c.ReplicaStrategy == "" {
		c.ReplicaStrategy = StrategyRoundRobin
	}
}
