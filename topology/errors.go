package topology

import "github.com/ceyewan/shardkit/xerrors"

var (
	// ErrInvalidLatestCount ACTIVE 分片中 latest 数量不为一，启动期致命错误
	ErrInvalidLatestCount = xerrors.New("topology: invalid latest shard count")

	// ErrShardNotFound 分片 ID 未在静态配置中出现
	//
	// 目录映射引用了未配置的分片说明目录与配置已经漂移，
	// 属于运维事故，调用方不应重试。
	ErrShardNotFound = xerrors.New("topology: DataSource configuration not found")

	// ErrShardInactive 分片状态不允许路由
	ErrShardInactive = xerrors.New("topology: shard is not active")
)
