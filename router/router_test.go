package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ceyewan/shardkit/topology"
)

func newPool(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

type fixture struct {
	global, m1, r1a, r1b, m2 *gorm.DB
	topo                     *topology.Topology
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		global: newPool(t),
		m1:     newPool(t),
		r1a:    newPool(t),
		r1b:    newPool(t),
		m2:     newPool(t),
	}
	topo, err := topology.New(f.global, []*topology.Shard{
		{ID: "s1", Status: topology.StatusActive, Master: f.m1, Replicas: []*gorm.DB{f.r1a, f.r1b}},
		{ID: "s2", Status: topology.StatusActive, Latest: true, Master: f.m2},
		{ID: "s3", Status: topology.StatusMaintenance, Master: newPool(t)},
	})
	require.NoError(t, err)
	f.topo = topo
	return f
}

func TestRouteForWrite_AlwaysMaster(t *testing.T) {
	f := newFixture(t)
	r, err := New(f.topo, nil)
	require.NoError(t, err)

	for range 5 {
		pool, err := r.RouteForWrite("s1")
		require.NoError(t, err)
		assert.Same(t, f.m1, pool)
	}
}

func TestRouteForRead_RoundRobin(t *testing.T) {
	f := newFixture(t)
	r, err := New(f.topo, &Config{ReplicaStrategy: StrategyRoundRobin})
	require.NoError(t, err)

	p1, err := r.RouteForRead("s1")
	require.NoError(t, err)
	p2, err := r.RouteForRead("s1")
	require.NoError(t, err)
	p3, err := r.RouteForRead("s1")
	require.NoError(t, err)

	assert.Same(t, f.r1a, p1)
	assert.Same(t, f.r1b, p2)
	assert.Same(t, f.r1a, p3)
}

func TestRouteForRead_FirstAvailable(t *testing.T) {
	f := newFixture(t)
	r, err := New(f.topo, &Config{ReplicaStrategy: StrategyFirstAvailable})
	require.NoError(t, err)

	for range 3 {
		pool, err := r.RouteForRead("s1")
		require.NoError(t, err)
		assert.Same(t, f.r1a, pool)
	}
}

func TestRouteForRead_Random(t *testing.T) {
	f := newFixture(t)
	r, err := New(f.topo, &Config{ReplicaStrategy: StrategyRandom})
	require.NoError(t, err)

	for range 20 {
		pool, err := r.RouteForRead("s1")
		require.NoError(t, err)
		assert.True(t, pool == f.r1a || pool == f.r1b)
	}
}

func TestRouteForRead_NoReplicaFallsBackToMaster(t *testing.T) {
	f := newFixture(t)
	r, err := New(f.topo, nil)
	require.NoError(t, err)

	pool, err := r.RouteForRead("s2")
	require.NoError(t, err)
	assert.Same(t, f.m2, pool)
}

func TestRoute_UnknownShard(t *testing.T) {
	f := newFixture(t)
	r, err := New(f.topo, nil)
	require.NoError(t, err)

	_, err = r.RouteForWrite("s99")
	assert.ErrorIs(t, err, topology.ErrShardNotFound)

	_, err = r.RouteForRead("s99")
	assert.ErrorIs(t, err, topology.ErrShardNotFound)
}

func TestRoute_InactiveShard(t *testing.T) {
	f := newFixture(t)
	r, err := New(f.topo, nil)
	require.NoError(t, err)

	_, err = r.RouteForWrite("s3")
	assert.ErrorIs(t, err, topology.ErrShardInactive)
}

func TestRouteGlobal(t *testing.T) {
	f := newFixture(t)
	r, err := New(f.topo, nil)
	require.NoError(t, err)

	assert.Same(t, f.global, r.RouteGlobal())
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	r, err := New(f.topo, nil)
	require.NoError(t, err)

	_, _ = r.RouteForWrite("s1")
	_, _ = r.RouteForRead("s1")
	_, _ = r.RouteForWrite("s2")
	_ = r.RouteGlobal()

	stats := r.Stats()
	assert.Equal(t, uint64(4), stats.Total)
	assert.Equal(t, uint64(1), stats.Global)
	assert.Equal(t, uint64(3), stats.Sharded)
	assert.Equal(t, uint64(2), stats.PerShard["s1"])
	assert.Equal(t, uint64(1), stats.PerShard["s2"])
}

func TestNew_UnknownStrategy(t *testing.T) {
	f := newFixture(t)
	_, err := New(f.topo, &Config{ReplicaStrategy: "sticky"})
	assert.ErrorIs(t, err, ErrConfig)
}

// 移除副本后（新拓扑），只读路由回退主库
func TestReplicaRemovalScenario(t *testing.T) {
	global, m1, r1 := newPool(t), newPool(t), newPool(t)

	topoWithReplica, err := topology.New(global, []*topology.Shard{
		{ID: "s1", Status: topology.StatusActive, Latest: true, Master: m1, Replicas: []*gorm.DB{r1}},
	})
	require.NoError(t, err)
	rt, err := New(topoWithReplica, nil)
	require.NoError(t, err)

	pool, err := rt.RouteForRead("s1")
	require.NoError(t, err)
	assert.Same(t, r1, pool)

	// 重新配置：副本被移除
	topoNoReplica, err := topology.New(global, []*topology.Shard{
		{ID: "s1", Status: topology.StatusActive, Latest: true, Master: m1},
	})
	require.NoError(t, err)
	rt, err = New(topoNoReplica, nil)
	require.NoError(t, err)

	pool, err = rt.RouteForRead("s1")
	require.NoError(t, err)
	assert.Same(t, m1, pool)
}
