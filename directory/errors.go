package directory

import "github.com/ceyewan/shardkit/xerrors"

var (
	// ErrMappingNotFound 租户没有目录映射
	//
	// 调用方必须让操作失败，绝不默认路由到任何分片。
	ErrMappingNotFound = xerrors.New("directory: tenant mapping not found")

	// ErrTableMissing 目录表不存在，全局库未初始化
	ErrTableMissing = xerrors.New("directory: table tenant_shard_mapping does not exist, create it with:\n" + mappingSchema)

	// ErrInvalidInput 参数无效
	ErrInvalidInput = xerrors.New("directory: invalid input")
)
