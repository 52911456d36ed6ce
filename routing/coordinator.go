package routing

import (
	"context"
	"sync"
	"sync/atomic"

	"gorm.io/gorm"

	"github.com/ceyewan/shardkit/tenant"
	"github.com/ceyewan/shardkit/xerrors"
)

// Coordinator 路由事务协调器接口
//
// 事务开启时按 Provider 的规则解析目标池，并把事务边界绑定在该池上。
// 事务打开期间所有操作必须解析到同一个池；解析到其他池的嵌套事务
// 返回 ErrCrossShardTransaction。非分片范围的事务落在全局池上。
type Coordinator interface {
	// Transaction 在解析出的池上执行一个事务
	//
	// fn 收到的 context 绑定了当前事务，嵌套调用 Transaction 时若
	// 解析到同一个池则加入当前事务，否则失败。fn 返回错误时回滚。
	Transaction(ctx context.Context, shardScoped bool, fn func(ctx context.Context, tx *gorm.DB) error) error
}

type coordinator struct {
	provider Provider

	// 每个池一个事务协调器，懒创建后复用
	pools sync.Map // *gorm.DB -> *poolCoordinator
}

// NewCoordinator 创建事务协调器
func NewCoordinator(p Provider) (Coordinator, error) {
	if p == nil {
		return nil, xerrors.New("routing: provider is nil")
	}
	return &coordinator{provider: p}, nil
}

// txState 绑定在 context 上的打开事务
type txState struct {
	pool *gorm.DB
	tx   *gorm.DB
}

type txKey struct{}

func withTxState(ctx context.Context, st *txState) context.Context {
	return context.WithValue(ctx, txKey{}, st)
}

func txStateFromContext(ctx context.Context) (*txState, bool) {
	st, ok := ctx.Value(txKey{}).(*txState)
	return st, ok
}

func (c *coordinator) Transaction(ctx context.Context, shardScoped bool, fn func(ctx context.Context, tx *gorm.DB) error) error {
	pool, err := c.provider.Acquire(ctx, shardScoped)
	if err != nil {
		return err
	}

	if st, ok := txStateFromContext(ctx); ok {
		if st.pool != pool {
			info, _ := tenant.FromContext(ctx)
			return xerrors.Wrapf(ErrCrossShardTransaction,
				"tenant %d shard %s", info.TenantID, info.ShardID)
		}
		// 同一个池的嵌套调用加入当前事务
		return fn(ctx, st.tx)
	}

	return c.coordinatorFor(pool).run(ctx, fn)
}

// coordinatorFor 返回池对应的事务协调器，不存在时懒创建（内部使用）
func (c *coordinator) coordinatorFor(pool *gorm.DB) *poolCoordinator {
	if pc, ok := c.pools.Load(pool); ok {
		return pc.(*poolCoordinator)
	}
	pc, _ := c.pools.LoadOrStore(pool, &poolCoordinator{pool: pool})
	return pc.(*poolCoordinator)
}

// poolCoordinator 单个池的事务协调器
//
// 可以被目标同一个池的多个操作共享，每个操作的事务相互独立。
type poolCoordinator struct {
	pool    *gorm.DB
	started atomic.Uint64
}

func (pc *poolCoordinator) run(ctx context.Context, fn func(ctx context.Context, tx *gorm.DB) error) error {
	pc.started.Add(1)
	return pc.pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTxState(ctx, &txState{pool: pc.pool, tx: tx}), tx)
	})
}

var _ Coordinator = (*coordinator)(nil)
