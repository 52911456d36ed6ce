package cache

import "github.com/ceyewan/shardkit/xerrors"

var (
	// ErrMiss 缓存未命中（键不存在或已过期）
	ErrMiss = xerrors.New("cache: miss")

	// ErrConfig 配置无效
	ErrConfig = xerrors.New("cache: invalid config")
)
