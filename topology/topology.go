// Package topology 维护静态分片拓扑：每个分片的主库池、副本池、
// 区域与状态，以及接收新租户的 latest 分片。
//
// 拓扑在启动时构建并验证，之后不可变；分片的增减需要重启或重新构建。
// 验证失败（如 latest 分片数量不为一）是致命的配置错误，必须在对外
// 服务之前暴露。
//
// 基本使用：
//
//	topo, err := topology.New(globalPool, []*topology.Shard{
//	    {ID: "s1", Region: "cn-east", Status: topology.StatusActive, Latest: false, Master: m1, Replicas: []*gorm.DB{r1}},
//	    {ID: "s2", Region: "cn-east", Status: topology.StatusActive, Latest: true, Master: m2},
//	})
package topology

import (
	"github.com/ceyewan/shardkit/xerrors"
	"gorm.io/gorm"
)

// Status 分片/映射状态
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusInactive    Status = "INACTIVE"
	StatusMaintenance Status = "MAINTENANCE"
)

// Routable 返回该状态是否允许路由
//
// 只有 ACTIVE 可路由；INACTIVE 与 MAINTENANCE 均拒绝流量。
func (s Status) Routable() bool {
	return s == StatusActive
}

// Shard 一个物理分片的描述：主库池、若干副本池、区域与状态
//
// 启动后不可变。
type Shard struct {
	ID       string
	Region   string
	Status   Status
	Latest   bool
	Master   *gorm.DB
	Replicas []*gorm.DB
}

// Topology 全部分片的静态视图，附带全局（非分片）库的池
type Topology struct {
	global   *gorm.DB
	shards   map[string]*Shard
	order    []string
	latestID string
}

// New 构建并验证拓扑
//
// 验证规则：
//   - 全局池必须存在
//   - 分片 ID 唯一，且每个分片必须有主库池
//   - ACTIVE 分片中恰好有一个 Latest，否则返回 ErrInvalidLatestCount
func New(global *gorm.DB, shards []*Shard) (*Topology, error) {
	if global == nil {
		return nil, xerrors.New("topology: global pool is required")
	}

	t := &Topology{
		global: global,
		shards: make(map[string]*Shard, len(shards)),
	}

	latestCount := 0
	for _, s := range shards {
		if s.ID == "" {
			return nil, xerrors.New("topology: shard id cannot be empty")
		}
		if _, dup := t.shards[s.ID]; dup {
			return nil, xerrors.Wrapf(xerrors.New("duplicate shard id"), "topology: shard[%s]", s.ID)
		}
		if s.Master == nil {
			return nil, xerrors.Wrapf(xerrors.New("master pool is required"), "topology: shard[%s]", s.ID)
		}
		if s.Status == "" {
			s.Status = StatusActive
		}
		if s.Latest && s.Status == StatusActive {
			latestCount++
			t.latestID = s.ID
		}
		t.shards[s.ID] = s
		t.order = append(t.order, s.ID)
	}

	if len(shards) > 0 && latestCount != 1 {
		return nil, xerrors.Wrapf(ErrInvalidLatestCount, "found %d latest shards among active shards, expected exactly 1", latestCount)
	}

	return t, nil
}

// Global 返回全局（非分片）库的池
func (t *Topology) Global() *gorm.DB {
	return t.global
}

// Shard 按 ID 查找分片，未配置的 ID 返回 ErrShardNotFound
func (t *Topology) Shard(id string) (*Shard, error) {
	s, ok := t.shards[id]
	if !ok {
		return nil, xerrors.Wrapf(ErrShardNotFound, "shard[%s]", id)
	}
	return s, nil
}

// Shards 按配置顺序返回全部分片
func (t *Topology) Shards() []*Shard {
	out := make([]*Shard, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.shards[id])
	}
	return out
}

// LatestShardID 返回接收新租户的分片 ID
//
// New 已保证恰好一个 latest 分片，空拓扑时返回 ErrInvalidLatestCount。
func (t *Topology) LatestShardID() (string, error) {
	if t.latestID == "" {
		return "", xerrors.Wrap(ErrInvalidLatestCount, "no latest shard configured")
	}
	return t.latestID, nil
}
