package testkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ceyewan/shardkit/connector"
	"github.com/ceyewan/shardkit/topology"
)

// NewSQLitePool 返回一个独立的内存 SQLite 池
//
// 每次调用得到互不相通的数据库，适合模拟不同的分片/副本池；
// 连接器生命周期由 t.Cleanup 管理。
func NewSQLitePool(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := connector.NewSQLite(&connector.SQLiteConfig{Path: ":memory:"},
		connector.WithLogger(NewLogger()))
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))
	t.Cleanup(func() { _ = conn.Close() })

	return conn.GetClient()
}

// ShardPools 预置拓扑中各池的句柄，便于断言路由结果
type ShardPools struct {
	Global   *gorm.DB
	Master1  *gorm.DB
	Replica1 *gorm.DB
	Master2  *gorm.DB
}

// NewShardTopology 构建标准的两分片测试拓扑
//
// s1 有一主一副本，s2 只有主库且为 latest。
func NewShardTopology(t *testing.T) (*topology.Topology, *ShardPools) {
	t.Helper()

	pools := &ShardPools{
		Global:   NewSQLitePool(t),
		Master1:  NewSQLitePool(t),
		Replica1: NewSQLitePool(t),
		Master2:  NewSQLitePool(t),
	}

	topo, err := topology.New(pools.Global, []*topology.Shard{
		{ID: "s1", Region: "cn-east", Status: topology.StatusActive, Master: pools.Master1, Replicas: []*gorm.DB{pools.Replica1}},
		{ID: "s2", Region: "cn-east", Status: topology.StatusActive, Latest: true, Master: pools.Master2},
	})
	require.NoError(t, err)
	return topo, pools
}

// CreateMappingTable 在给定池上建目录表
func CreateMappingTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Exec(`CREATE TABLE tenant_shard_mapping (
    tenant_id  BIGINT PRIMARY KEY,
    shard_id   VARCHAR(64) NOT NULL,
    region     VARCHAR(64),
    status     VARCHAR(32) NOT NULL DEFAULT 'ACTIVE',
    created_at DATETIME
)`).Error)
}
