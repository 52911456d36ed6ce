package routing

import "github.com/ceyewan/shardkit/xerrors"

var (
	// ErrCrossShardTransaction 事务试图跨越两个不同的连接池
	//
	// 事务边界与路由边界必须一致；中途换池是调用方错误，
	// 绝不静默重路由。
	ErrCrossShardTransaction = xerrors.New("routing: transaction may not span multiple pools")

	// ErrNoShardResolved 租户上下文存在但未携带分片 ID，无法动态路由
	ErrNoShardResolved = xerrors.New("routing: tenant context carries no shard id")
)
