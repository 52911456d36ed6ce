package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ceyewan/shardkit/router"
	"github.com/ceyewan/shardkit/tenant"
	"github.com/ceyewan/shardkit/testkit"
	"github.com/ceyewan/shardkit/topology"
	"github.com/ceyewan/shardkit/xerrors"
)

type fixture struct {
	global   *gorm.DB
	master1  *gorm.DB
	replica1 *gorm.DB
	master2  *gorm.DB
	provider Provider
	coord    Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	topo, pools := testkit.NewShardTopology(t)
	f := &fixture{
		global:   pools.Global,
		master1:  pools.Master1,
		replica1: pools.Replica1,
		master2:  pools.Master2,
	}

	r, err := router.New(topo, nil, router.WithLogger(testkit.NewLogger()))
	require.NoError(t, err)

	f.provider, err = NewProvider(r)
	require.NoError(t, err)

	f.coord, err = NewCoordinator(f.provider)
	require.NoError(t, err)
	return f
}

func TestAcquire_FastPath(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.NewContext(context.Background(), tenant.Info{
		TenantID: 5001, ShardID: "s1", Pool: f.master1,
	})

	pool, err := f.provider.Acquire(ctx, true)
	require.NoError(t, err)
	assert.Same(t, f.master1, pool)

	// 预解析了池句柄的上下文里，非分片范围的调用仍走全局池
	pool, err = f.provider.Acquire(ctx, false)
	require.NoError(t, err)
	assert.Same(t, f.global, pool)

	stats := f.provider.Stats()
	assert.Equal(t, uint64(1), stats.FastPath)
	assert.Equal(t, uint64(1), stats.Global)
}

func TestAcquire_NoContext(t *testing.T) {
	f := newFixture(t)

	pool, err := f.provider.Acquire(context.Background(), true)
	require.NoError(t, err)
	assert.Same(t, f.global, pool)
}

func TestAcquire_DynamicFallback(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.NewContext(context.Background(), tenant.Info{
		TenantID: 5001, ShardID: "s1",
	})

	// 写意图回退到动态路由，命中主库
	pool, err := f.provider.Acquire(ctx, true)
	require.NoError(t, err)
	assert.Same(t, f.master1, pool)

	// 只读意图命中副本
	pool, err = f.provider.Acquire(tenant.WithReadOnly(ctx, true), true)
	require.NoError(t, err)
	assert.Same(t, f.replica1, pool)

	assert.Equal(t, uint64(2), f.provider.Stats().Dynamic)
}

func TestAcquire_RoutingFailures(t *testing.T) {
	f := newFixture(t)

	// 未配置的分片
	ctx := tenant.NewContext(context.Background(), tenant.Info{TenantID: 1, ShardID: "s99"})
	_, err := f.provider.Acquire(ctx, true)
	assert.ErrorIs(t, err, topology.ErrShardNotFound)

	// 上下文缺少分片 ID
	ctx = tenant.NewContext(context.Background(), tenant.Info{TenantID: 1})
	_, err = f.provider.Acquire(ctx, true)
	assert.ErrorIs(t, err, ErrNoShardResolved)
}

func TestTransaction_BoundToOneShard(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.master1.Exec("CREATE TABLE items (id INTEGER, val TEXT)").Error)

	ctx := tenant.NewContext(context.Background(), tenant.Info{
		TenantID: 5001, ShardID: "s1", Pool: f.master1,
	})

	err := f.coord.Transaction(ctx, true, func(ctx context.Context, tx *gorm.DB) error {
		return tx.Exec("INSERT INTO items (id, val) VALUES (1, 'a')").Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.master1.Raw("SELECT count(*) FROM items").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTransaction_RollbackOnError(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.master1.Exec("CREATE TABLE items (id INTEGER)").Error)

	ctx := tenant.NewContext(context.Background(), tenant.Info{
		TenantID: 5001, ShardID: "s1", Pool: f.master1,
	})

	sentinel := xerrors.New("boom")
	err := f.coord.Transaction(ctx, true, func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO items (id) VALUES (1)").Error; err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, f.master1.Raw("SELECT count(*) FROM items").Scan(&count).Error)
	assert.Zero(t, count)
}

func TestTransaction_NestedSamePoolJoins(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.master1.Exec("CREATE TABLE items (id INTEGER)").Error)

	ctx := tenant.NewContext(context.Background(), tenant.Info{
		TenantID: 5001, ShardID: "s1", Pool: f.master1,
	})

	err := f.coord.Transaction(ctx, true, func(ctx context.Context, tx *gorm.DB) error {
		// 同池的嵌套事务加入当前事务
		return f.coord.Transaction(ctx, true, func(ctx context.Context, inner *gorm.DB) error {
			return inner.Exec("INSERT INTO items (id) VALUES (1)").Error
		})
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.master1.Raw("SELECT count(*) FROM items").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTransaction_CrossShardRejected(t *testing.T) {
	f := newFixture(t)

	ctx := tenant.NewContext(context.Background(), tenant.Info{
		TenantID: 5001, ShardID: "s1", Pool: f.master1,
	})

	err := f.coord.Transaction(ctx, true, func(ctx context.Context, tx *gorm.DB) error {
		// 事务打开期间切换到另一个分片的租户：必须失败，绝不重路由
		other := tenant.NewContext(ctx, tenant.Info{
			TenantID: 9001, ShardID: "s2", Pool: f.master2,
		})
		return f.coord.Transaction(other, true, func(ctx context.Context, tx *gorm.DB) error {
			return nil
		})
	})
	assert.ErrorIs(t, err, ErrCrossShardTransaction)
}

func TestTransaction_GlobalPool(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.global.Exec("CREATE TABLE settings (k TEXT)").Error)

	ctx := tenant.NewContext(context.Background(), tenant.Info{
		TenantID: 5001, ShardID: "s1", Pool: f.master1,
	})

	// 非分片范围的事务落在全局池上，与租户上下文无关
	err := f.coord.Transaction(ctx, false, func(ctx context.Context, tx *gorm.DB) error {
		return tx.Exec("INSERT INTO settings (k) VALUES ('x')").Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.global.Raw("SELECT count(*) FROM settings").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTransaction_GlobalInsideShardRejected(t *testing.T) {
	f := newFixture(t)

	ctx := tenant.NewContext(context.Background(), tenant.Info{
		TenantID: 5001, ShardID: "s1", Pool: f.master1,
	})

	// 分片事务内解析到全局池同样算跨池
	err := f.coord.Transaction(ctx, true, func(ctx context.Context, tx *gorm.DB) error {
		return f.coord.Transaction(ctx, false, func(ctx context.Context, tx *gorm.DB) error {
			return nil
		})
	})
	assert.ErrorIs(t, err, ErrCrossShardTransaction)
}
