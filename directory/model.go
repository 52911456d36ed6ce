package directory

import (
	"time"

	"github.com/ceyewan/shardkit/topology"
)

// Mapping 租户到分片的持久化映射
//
// 每个租户至多一条映射（tenant_id 为主键）。映射在租户开通时创建，
// 迁移时更新，从不物理删除（通过状态变更下线）。
type Mapping struct {
	TenantID  int64           `gorm:"column:tenant_id;primaryKey" json:"tenant_id" msgpack:"tenant_id"`
	ShardID   string          `gorm:"column:shard_id;not null" json:"shard_id" msgpack:"shard_id"`
	Region    string          `gorm:"column:region" json:"region" msgpack:"region"`
	Status    topology.Status `gorm:"column:status;default:ACTIVE" json:"status" msgpack:"status"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at" msgpack:"created_at"`
}

// TableName 指定目录表名
func (Mapping) TableName() string {
	return "tenant_shard_mapping"
}

// mappingSchema 目录表的建表语句
//
// 全局库缺少此表说明尚未完成初始化，启动时报错并附上此语句，
// 绝不静默继续。
const mappingSchema = `CREATE TABLE tenant_shard_mapping (
    tenant_id  BIGINT       NOT NULL,
    shard_id   VARCHAR(64)  NOT NULL,
    region     VARCHAR(64),
    status     VARCHAR(32)  NOT NULL DEFAULT 'ACTIVE',
    created_at DATETIME,
    PRIMARY KEY (tenant_id)
)`
