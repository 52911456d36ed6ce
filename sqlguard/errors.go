package sqlguard

import "github.com/ceyewan/shardkit/xerrors"

var (
	// ErrValidation 分片范围语句缺少租户过滤条件
	ErrValidation = xerrors.New("sqlguard: statement lacks tenant filtering")

	// ErrConfig 配置无效
	ErrConfig = xerrors.New("sqlguard: invalid config")
)
