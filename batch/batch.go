// Package batch 为后台作业提供跨租户的批量迭代。
//
// 迭代器从目录加载全部 ACTIVE 映射，按批切分，并为每个租户在独立的
// 租户上下文中调用回调（分片 ID 与连接池按映射预解析好）。两个并发
// 迭代互不可见彼此的上下文，隔离由 context 派生链保证。
//
// 单租户失败默认不中止整轮迭代：记录日志后继续，所有失败在结束时
// 聚合返回；配置 StopOnError 可改为快速失败。
//
// 基本使用：
//
//	it, _ := batch.New(dir, r, nil, batch.WithLogger(logger))
//
//	err := it.ForEachTenant(ctx, 100, func(ctx context.Context, tenantID int64) error {
//	    // ctx 已绑定该租户的上下文，下游路由直接可用
//	    return refreshQuota(ctx, tenantID)
//	})
package batch

import (
	"context"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/directory"
	"github.com/ceyewan/shardkit/router"
	"github.com/ceyewan/shardkit/tenant"
	"github.com/ceyewan/shardkit/topology"
	"github.com/ceyewan/shardkit/xerrors"
)

// TenantFunc 单个租户的回调
//
// ctx 已绑定该租户的上下文（租户 ID、分片 ID、预解析的主库池）。
type TenantFunc func(ctx context.Context, tenantID int64) error

// Iterator 租户批量迭代器接口
type Iterator interface {
	// ForEachTenant 串行迭代所有 ACTIVE 租户
	ForEachTenant(ctx context.Context, batchSize int, fn TenantFunc) error

	// ForEachTenantInShard 串行迭代指定分片上的 ACTIVE 租户
	ForEachTenantInShard(ctx context.Context, shardID string, batchSize int, fn TenantFunc) error

	// ForEachTenantAsync 在有界工作池上按批并行迭代
	//
	// 所有批次完成后才返回；单个批次内的租户串行处理。
	ForEachTenantAsync(ctx context.Context, batchSize int, fn TenantFunc) error
}

type iterator struct {
	dir    directory.Directory
	router router.Router
	cfg    Config
	logger clog.Logger
}

// New 创建批量迭代器
func New(dir directory.Directory, r router.Router, cfg *Config, opts ...Option) (Iterator, error) {
	if dir == nil {
		return nil, xerrors.New("batch: directory is nil")
	}
	if r == nil {
		return nil, xerrors.New("batch: router is nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.setDefaults()

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &iterator{dir: dir, router: r, cfg: *cfg, logger: opt.logger}, nil
}

func (it *iterator) ForEachTenant(ctx context.Context, batchSize int, fn TenantFunc) error {
	mappings, err := it.loadActive(ctx, "")
	if err != nil {
		return err
	}
	return it.runSequential(ctx, partition(mappings, batchSize), fn)
}

func (it *iterator) ForEachTenantInShard(ctx context.Context, shardID string, batchSize int, fn TenantFunc) error {
	mappings, err := it.loadActive(ctx, shardID)
	if err != nil {
		return err
	}
	return it.runSequential(ctx, partition(mappings, batchSize), fn)
}

func (it *iterator) ForEachTenantAsync(ctx context.Context, batchSize int, fn TenantFunc) error {
	mappings, err := it.loadActive(ctx, "")
	if err != nil {
		return err
	}
	batches := partition(mappings, batchSize)

	pool := pond.NewPool(it.cfg.Workers)
	defer pool.StopAndWait()

	var (
		mu   sync.Mutex
		errs []error
	)
	group := pool.NewGroup()
	for _, b := range batches {
		group.Submit(func() {
			for _, m := range b {
				if ctx.Err() != nil {
					return
				}
				if err := it.runTenant(ctx, m, fn); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					if it.cfg.StopOnError {
						return
					}
				}
			}
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return xerrors.Combine(errs...)
}

// runSequential 顺序执行所有批次（内部使用）
func (it *iterator) runSequential(ctx context.Context, batches [][]directory.Mapping, fn TenantFunc) error {
	var errs []error
	for _, b := range batches {
		for _, m := range b {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := it.runTenant(ctx, m, fn); err != nil {
				if it.cfg.StopOnError {
					return err
				}
				errs = append(errs, err)
			}
		}
	}
	return xerrors.Combine(errs...)
}

// runTenant 在独立的租户上下文中执行一次回调（内部使用）
func (it *iterator) runTenant(ctx context.Context, m directory.Mapping, fn TenantFunc) error {
	pool, err := it.router.RouteForWrite(m.ShardID)
	if err != nil {
		it.logger.ErrorContext(ctx, "failed to resolve pool for tenant",
			clog.Int64("tenant_id", m.TenantID),
			clog.String("shard_id", m.ShardID),
			clog.Error(err))
		return xerrors.Wrapf(err, "batch: tenant %d", m.TenantID)
	}

	err = tenant.RunScoped(ctx, tenant.Info{
		TenantID: m.TenantID,
		ShardID:  m.ShardID,
		Pool:     pool,
	}, func(ctx context.Context) error {
		return fn(ctx, m.TenantID)
	})
	if err != nil {
		it.logger.ErrorContext(ctx, "tenant callback failed",
			clog.Int64("tenant_id", m.TenantID),
			clog.String("shard_id", m.ShardID),
			clog.Error(err))
		return xerrors.Wrapf(err, "batch: tenant %d", m.TenantID)
	}
	return nil
}

// loadActive 加载 ACTIVE 映射，shardID 非空时限定到一个分片（内部使用）
func (it *iterator) loadActive(ctx context.Context, shardID string) ([]directory.Mapping, error) {
	all, err := it.dir.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]directory.Mapping, 0, len(all))
	for _, m := range all {
		if m.Status != topology.StatusActive {
			continue
		}
		if shardID != "" && m.ShardID != shardID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// partition 按批大小切分映射（内部使用）
func partition(mappings []directory.Mapping, batchSize int) [][]directory.Mapping {
	if batchSize <= 0 {
		batchSize = len(mappings)
		if batchSize == 0 {
			return nil
		}
	}
	var out [][]directory.Mapping
	for start := 0; start < len(mappings); start += batchSize {
		end := min(start+batchSize, len(mappings))
		out = append(out, mappings[start:end])
	}
	return out
}

var _ Iterator = (*iterator)(nil)
