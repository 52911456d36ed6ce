// Package router 根据分片 ID 与读写意图选择具体的物理连接池。
//
// 路由是 (静态拓扑, 请求意图) 的纯函数，不持有任何跨请求的可变状态
// （副本选择计数器除外），可以被任意多的操作并发调用。
//
// 路由规则：
//   - 写请求：返回分片主库池
//   - 读请求：分片有副本时按策略选择一个副本；无副本时回退主库（不报错）
//   - 全局请求：返回全局库池，与租户上下文无关
//
// 任何路由失败都以错误形式暴露，绝不返回错误分片的连接池。
package router

import (
	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/topology"
	"github.com/ceyewan/shardkit/xerrors"
	"gorm.io/gorm"
)

// Router 连接路由器接口
type Router interface {
	// RouteForWrite 返回分片的主库池
	RouteForWrite(shardID string) (*gorm.DB, error)

	// RouteForRead 按配置的策略返回分片的一个副本池，
	// 分片没有副本时回退到主库
	RouteForRead(shardID string) (*gorm.DB, error)

	// RouteGlobal 返回全局（非分片）库的池
	RouteGlobal() *gorm.DB

	// Stats 返回路由统计快照，仅用于监控
	Stats() Stats
}

type router struct {
	topo     *topology.Topology
	strategy replicaStrategy
	stats    *statsRecorder
	logger   clog.Logger
}

// New 创建路由器
func New(topo *topology.Topology, cfg *Config, opts ...Option) (Router, error) {
	if topo == nil {
		return nil, xerrors.New("router: topology is nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.setDefaults()

	strategy, err := newStrategy(cfg.ReplicaStrategy)
	if err != nil {
		return nil, err
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	shardIDs := make([]string, 0)
	for _, s := range topo.Shards() {
		shardIDs = append(shardIDs, s.ID)
	}

	return &router{
		topo:     topo,
		strategy: strategy,
		stats:    newStatsRecorder(shardIDs, opt.meter),
		logger:   opt.logger,
	}, nil
}

func (r *router) RouteForWrite(shardID string) (*gorm.DB, error) {
	shard, err := r.resolveShard(shardID)
	if err != nil {
		return nil, err
	}
	r.stats.recordShard(shardID)
	return shard.Master, nil
}

func (r *router) RouteForRead(shardID string) (*gorm.DB, error) {
	shard, err := r.resolveShard(shardID)
	if err != nil {
		return nil, err
	}
	r.stats.recordShard(shardID)

	if len(shard.Replicas) == 0 {
		// 无副本时回退主库
		return shard.Master, nil
	}
	return shard.Replicas[r.strategy.pick(len(shard.Replicas))], nil
}

func (r *router) RouteGlobal() *gorm.DB {
	r.stats.recordGlobal()
	return r.topo.Global()
}

func (r *router) Stats() Stats {
	return r.stats.snapshot()
}

// resolveShard 查找分片并检查可路由性（内部使用）
func (r *router) resolveShard(shardID string) (*topology.Shard, error) {
	shard, err := r.topo.Shard(shardID)
	if err != nil {
		r.logger.Error("routing to unconfigured shard",
			clog.String("shard_id", shardID))
		return nil, err
	}
	if !shard.Status.Routable() {
		return nil, xerrors.Wrapf(topology.ErrShardInactive, "shard[%s] status=%s", shardID, shard.Status)
	}
	return shard, nil
}

// 编译期断言，防止接口实现漂移
var _ Router = (*router)(nil)
