package router

import (
	"context"
	"sync/atomic"

	"github.com/ceyewan/shardkit/metrics"
)

// Stats 路由统计快照
//
// 只读监控数据，不参与路由正确性。
type Stats struct {
	// Total 路由请求总数
	Total uint64

	// Global 全局库请求数
	Global uint64

	// Sharded 分片库请求数
	Sharded uint64

	// PerShard 各分片的请求数
	PerShard map[string]uint64
}

// statsRecorder 基于原子计数器的统计记录器（内部使用）
//
// 分片集合在启动后不变，计数器在构造时全部建好，记录路径无锁。
type statsRecorder struct {
	total    atomic.Uint64
	global   atomic.Uint64
	sharded  atomic.Uint64
	perShard map[string]*atomic.Uint64

	counter metrics.Counter
}

func newStatsRecorder(shardIDs []string, meter metrics.Meter) *statsRecorder {
	r := &statsRecorder{
		perShard: make(map[string]*atomic.Uint64, len(shardIDs)),
	}
	for _, id := range shardIDs {
		r.perShard[id] = &atomic.Uint64{}
	}

	if meter != nil {
		counter, err := meter.Counter("shardkit_routing_requests_total", "路由请求总数")
		if err == nil {
			r.counter = counter
		}
	}
	return r
}

func (r *statsRecorder) recordShard(shardID string) {
	r.total.Add(1)
	r.sharded.Add(1)
	if c, ok := r.perShard[shardID]; ok {
		c.Add(1)
	}
	if r.counter != nil {
		r.counter.Inc(context.Background(), metrics.L("target", "shard"), metrics.L("shard_id", shardID))
	}
}

func (r *statsRecorder) recordGlobal() {
	r.total.Add(1)
	r.global.Add(1)
	if r.counter != nil {
		r.counter.Inc(context.Background(), metrics.L("target", "global"))
	}
}

func (r *statsRecorder) snapshot() Stats {
	perShard := make(map[string]uint64, len(r.perShard))
	for id, c := range r.perShard {
		perShard[id] = c.Load()
	}
	return Stats{
		Total:    r.total.Load(),
		Global:   r.global.Load(),
		Sharded:  r.sharded.Load(),
		PerShard: perShard,
	}
}
