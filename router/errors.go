package router

import "github.com/ceyewan/shardkit/xerrors"

var (
	// ErrConfig 配置无效
	ErrConfig = xerrors.New("router: invalid config")
)
