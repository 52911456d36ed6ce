package config

import "github.com/ceyewan/shardkit/xerrors"

var (
	// ErrValidationFailed 配置验证失败
	ErrValidationFailed = xerrors.New("config: validation failed")

	// ErrLoadFailed 配置加载失败
	ErrLoadFailed = xerrors.New("config: load failed")
)
