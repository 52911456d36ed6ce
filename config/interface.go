// Package config 加载并监听分片中间件的配置。
//
// 基于 Viper 实现多源加载：YAML/JSON 文件、环境变量、.env 文件，
// 优先级为 环境变量 > .env > 环境特定配置 > 基础配置。配置文件变化
// 时通过 fsnotify 感知并通知订阅者。
//
// 分片拓扑在启动后不可变（分片增减需要重建拓扑），热更新只用于
// 可安全变更的项（如日志级别、校验策略）。
//
// 基本使用：
//
//	loader := config.MustLoad(ctx,
//	    config.WithConfigName("shardkit"),
//	    config.WithConfigPaths("./config"),
//	)
//
//	var cfg config.ShardingConfig
//	if err := loader.Unmarshal(&cfg); err != nil {
//	    panic(err)
//	}
package config

import (
	"context"
	"time"
)

// Loader 配置加载器接口
type Loader interface {
	// Load 从所有来源加载配置并启动文件监听
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 订阅指定 key 的变更，通过 context 取消订阅
	Watch(ctx context.Context, key string) (<-chan Event, error)

	// Validate 验证当前配置的有效性
	Validate() error
}

// Event 配置变更事件
type Event struct {
	Key       string
	Value     any
	OldValue  any
	Source    string // "file" | "env"
	Timestamp time.Time
}
