package router

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/ceyewan/shardkit/xerrors"
)

// 副本选择策略
const (
	StrategyRoundRobin     = "round_robin"
	StrategyRandom         = "random"
	StrategyFirstAvailable = "first_available"
)

// replicaStrategy 从 n 个副本中选择一个下标（内部使用）
//
// pick 仅在 n >= 1 时调用。
type replicaStrategy interface {
	pick(n int) int
}

// newStrategy 按名称创建策略
func newStrategy(name string) (replicaStrategy, error) {
	switch name {
	case StrategyRoundRobin:
		return &roundRobinStrategy{}, nil
	case StrategyRandom:
		return &randomStrategy{}, nil
	case StrategyFirstAvailable:
		return &firstAvailableStrategy{}, nil
	default:
		return nil, xerrors.Wrapf(ErrConfig, "unknown replica strategy: %s", name)
	}
}

// roundRobinStrategy 单调递增计数器对副本数取模
type roundRobinStrategy struct {
	counter atomic.Uint64
}

func (s *roundRobinStrategy) pick(n int) int {
	return int((s.counter.Add(1) - 1) % uint64(n))
}

// randomStrategy 均匀随机选择
type randomStrategy struct{}

func (s *randomStrategy) pick(n int) int {
	return rand.IntN(n)
}

// firstAvailableStrategy 始终选择第一个副本
type firstAvailableStrategy struct{}

func (s *firstAvailableStrategy) pick(n int) int {
	return 0
}
