package config

import (
	"github.com/ceyewan/shardkit/batch"
	"github.com/ceyewan/shardkit/cache"
	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/connector"
	"github.com/ceyewan/shardkit/directory"
	"github.com/ceyewan/shardkit/metrics"
	"github.com/ceyewan/shardkit/router"
	"github.com/ceyewan/shardkit/sqlguard"
	"github.com/ceyewan/shardkit/topology"
)

// ShardingConfig 分片中间件的完整配置
//
// 对应配置文件的顶层结构：
//
//	topology:
//	  driver: mysql
//	  global: { host: ..., database: shardkit_global }
//	  shards:
//	    - id: s1
//	      region: cn-east
//	      latest: false
//	      master: { host: ... }
//	      replicas: [ { host: ... } ]
//	directory:
//	  cache_ttl: 5m
//	cache:
//	  mode: distributed
//	  prefix: "shardkit:mapping:"
//	redis:
//	  addr: localhost:6379
//	validation:
//	  tenant_columns: [tenant_id, company_id]
//	  strictness: FAIL
type ShardingConfig struct {
	// Topology 静态分片拓扑
	Topology topology.Config `mapstructure:"topology" json:"topology" yaml:"topology"`

	// Directory 租户目录配置
	Directory directory.Config `mapstructure:"directory" json:"directory" yaml:"directory"`

	// Router 副本选择策略
	Router router.Config `mapstructure:"router" json:"router" yaml:"router"`

	// Cache 映射缓存配置
	Cache cache.Config `mapstructure:"cache" json:"cache" yaml:"cache"`

	// Redis 分布式缓存模式下的 Redis 连接配置
	Redis connector.RedisConfig `mapstructure:"redis" json:"redis" yaml:"redis"`

	// Validation SQL 租户过滤校验配置
	Validation sqlguard.Config `mapstructure:"validation" json:"validation" yaml:"validation"`

	// Batch 批量迭代配置
	Batch batch.Config `mapstructure:"batch" json:"batch" yaml:"batch"`

	// Log 日志配置
	Log clog.Config `mapstructure:"log" json:"log" yaml:"log"`

	// Metrics 指标配置
	Metrics metrics.Config `mapstructure:"metrics" json:"metrics" yaml:"metrics"`
}

// LoadSharding 加载并反序列化完整的分片配置
func LoadSharding(l Loader) (*ShardingConfig, error) {
	var cfg ShardingConfig
	if err := l.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
