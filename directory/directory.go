// Package directory 维护租户到分片的持久化映射，并在其前面加一层
// 可插拔缓存。
//
// 映射存储在全局库的 tenant_shard_mapping 表中；缓存命中时查询
// 短路，未命中或缓存后端故障时回源存储。缓存后端故障只降级、
// 不影响请求成败。
//
// 一致性约定：
//   - 创建映射：先写存储，再写透缓存（新映射立即可读，无需回源）
//   - 更新映射：写存储成功后删除缓存条目，下次查询回源重建，
//     迁移后的读取绝不命中旧分片
//
// 基本使用：
//
//	dir, err := directory.New(topo.Global(), topo, nil,
//	    directory.WithCache(cacheClient),
//	    directory.WithLogger(logger))
//
//	mapping, err := dir.FindShard(ctx, 5001)
package directory

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/ceyewan/shardkit/cache"
	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/metrics"
	"github.com/ceyewan/shardkit/topology"
	"github.com/ceyewan/shardkit/xerrors"
)

// Directory 租户目录接口
type Directory interface {
	// FindShard 查找租户的分片映射，未找到返回 ErrMappingNotFound
	//
	// 非 ACTIVE 状态的映射照常返回，是否可路由由调用方决定。
	FindShard(ctx context.Context, tenantID int64) (*Mapping, error)

	// CreateMapping 为租户创建映射，状态为 ACTIVE
	//
	// shardID 必须存在于静态拓扑中；写入存储后同步写透缓存。
	CreateMapping(ctx context.Context, tenantID int64, shardID, region string) (*Mapping, error)

	// UpdateMapping 更新租户映射（迁移、状态变更）
	//
	// 返回是否有行被更新；成功时删除缓存条目，下次查询回源。
	UpdateMapping(ctx context.Context, tenantID int64, newShardID, newRegion string, newStatus topology.Status) (bool, error)

	// ListAll 全量扫描目录表，不经过缓存
	ListAll(ctx context.Context) ([]Mapping, error)

	// LatestShardID 返回接收新租户的分片 ID，由静态拓扑派生
	LatestShardID() (string, error)

	// WarmCache 预热指定租户的缓存条目，无持久化副作用
	WarmCache(ctx context.Context, tenantIDs []int64) error

	// Evict 删除指定租户的缓存条目，无持久化副作用
	Evict(ctx context.Context, tenantID int64) error

	// ClearCache 清空映射缓存，无持久化副作用
	ClearCache(ctx context.Context) error

	// Stats 返回缓存命中统计
	Stats() Stats
}

// Stats 目录查询统计
type Stats struct {
	CacheHits    uint64
	CacheMisses  uint64
	StoreLookups uint64
}

type directory struct {
	store  *gorm.DB
	topo   *topology.Topology
	cache  *guardedCache
	ttl    time.Duration
	logger clog.Logger

	hits    atomic.Uint64
	misses  atomic.Uint64
	lookups atomic.Uint64

	hitCounter  metrics.Counter
	missCounter metrics.Counter
}

// New 创建目录组件
//
// store 是全局库的池（目录表所在库）。首次使用前检查目录表存在性，
// 缺表时返回包含建表语句的 ErrTableMissing。
func New(store *gorm.DB, topo *topology.Topology, cfg *Config, opts ...Option) (Directory, error) {
	if store == nil {
		return nil, xerrors.New("directory: store is nil")
	}
	if topo == nil {
		return nil, xerrors.New("directory: topology is nil")
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

	if !store.Migrator().HasTable(&Mapping{}) {
		return nil, ErrTableMissing
	}

	d := &directory{
		store:  store,
		topo:   topo,
		ttl:    cfg.CacheTTL,
		logger: opt.logger,
	}
	if opt.cache != nil {
		d.cache = newGuardedCache(opt.cache, opt.logger)
	}
	if opt.meter != nil {
		d.hitCounter, _ = opt.meter.Counter("shardkit_directory_cache_hits_total", "目录缓存命中数")
		d.missCounter, _ = opt.meter.Counter("shardkit_directory_cache_misses_total", "目录缓存未命中数")
	}

	return d, nil
}

func cacheKey(tenantID int64) string {
	return fmt.Sprintf("tenant:%d", tenantID)
}

func (d *directory) FindShard(ctx context.Context, tenantID int64) (*Mapping, error) {
	if d.cache != nil {
		var cached Mapping
		err := d.cache.get(ctx, cacheKey(tenantID), &cached)
		switch {
		case err == nil:
			d.hits.Add(1)
			if d.hitCounter != nil {
				d.hitCounter.Inc(ctx)
			}
			return &cached, nil
		case isMiss(err):
			d.misses.Add(1)
			if d.missCounter != nil {
				d.missCounter.Inc(ctx)
			}
		default:
			// 缓存后端故障：降级直查存储，不影响请求
			d.logger.WarnContext(ctx, "mapping cache unavailable, falling back to store",
				clog.Int64("tenant_id", tenantID), clog.Error(err))
		}
	}

	mapping, err := d.lookupStore(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if err := d.cache.set(ctx, cacheKey(tenantID), *mapping, d.ttl); err != nil {
			d.logger.WarnContext(ctx, "failed to populate mapping cache",
				clog.Int64("tenant_id", tenantID), clog.Error(err))
		}
	}
	return mapping, nil
}

func (d *directory) CreateMapping(ctx context.Context, tenantID int64, shardID, region string) (*Mapping, error) {
	if tenantID <= 0 {
		return nil, xerrors.Wrapf(ErrInvalidInput, "tenant id %d", tenantID)
	}
	if shardID == "" {
		return nil, xerrors.Wrap(ErrInvalidInput, "shard id is empty")
	}
	// 目录与静态配置漂移的第一道防线：不允许映射到未配置的分片
	if _, err := d.topo.Shard(shardID); err != nil {
		return nil, err
	}

	mapping := &Mapping{
		TenantID:  tenantID,
		ShardID:   shardID,
		Region:    region,
		Status:    topology.StatusActive,
		CreatedAt: time.Now(),
	}
	if err := d.store.WithContext(ctx).Create(mapping).Error; err != nil {
		return nil, xerrors.Wrapf(err, "directory: failed to create mapping for tenant %d", tenantID)
	}

	// 写透：新建的映射立即可从缓存读到，无需一次回源
	if d.cache != nil {
		if err := d.cache.set(ctx, cacheKey(tenantID), *mapping, d.ttl); err != nil {
			d.logger.WarnContext(ctx, "failed to write-through mapping cache",
				clog.Int64("tenant_id", tenantID), clog.Error(err))
		}
	}

	d.logger.InfoContext(ctx, "tenant mapping created",
		clog.Int64("tenant_id", tenantID), clog.String("shard_id", shardID))
	return mapping, nil
}

func (d *directory) UpdateMapping(ctx context.Context, tenantID int64, newShardID, newRegion string, newStatus topology.Status) (bool, error) {
	if newShardID == "" {
		return false, xerrors.Wrap(ErrInvalidInput, "shard id is empty")
	}
	if _, err := d.topo.Shard(newShardID); err != nil {
		return false, err
	}

	result := d.store.WithContext(ctx).Model(&Mapping{}).
		Where("tenant_id = ?", tenantID).
		Updates(map[string]any{
			"shard_id": newShardID,
			"region":   newRegion,
			"status":   newStatus,
		})
	if result.Error != nil {
		return false, xerrors.Wrapf(result.Error, "directory: failed to update mapping for tenant %d", tenantID)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	// 失效而非写透：下次查询回源读取新状态，迁移后绝不提供旧映射
	if d.cache != nil {
		if err := d.cache.delete(ctx, cacheKey(tenantID)); err != nil {
			d.logger.WarnContext(ctx, "failed to evict mapping cache after update",
				clog.Int64("tenant_id", tenantID), clog.Error(err))
		}
	}

	d.logger.InfoContext(ctx, "tenant mapping updated",
		clog.Int64("tenant_id", tenantID),
		clog.String("shard_id", newShardID),
		clog.String("status", string(newStatus)))
	return true, nil
}

func (d *directory) ListAll(ctx context.Context) ([]Mapping, error) {
	var mappings []Mapping
	if err := d.store.WithContext(ctx).Find(&mappings).Error; err != nil {
		return nil, xerrors.Wrap(err, "directory: failed to list mappings")
	}
	return mappings, nil
}

func (d *directory) LatestShardID() (string, error) {
	return d.topo.LatestShardID()
}

func (d *directory) WarmCache(ctx context.Context, tenantIDs []int64) error {
	if d.cache == nil || len(tenantIDs) == 0 {
		return nil
	}

	var mappings []Mapping
	if err := d.store.WithContext(ctx).Where("tenant_id IN ?", tenantIDs).Find(&mappings).Error; err != nil {
		return xerrors.Wrap(err, "directory: failed to load mappings for warm-up")
	}

	var errs []error
	for _, m := range mappings {
		errs = append(errs, d.cache.set(ctx, cacheKey(m.TenantID), m, d.ttl))
	}
	return xerrors.Combine(errs...)
}

func (d *directory) Evict(ctx context.Context, tenantID int64) error {
	if d.cache == nil {
		return nil
	}
	return d.cache.delete(ctx, cacheKey(tenantID))
}

func (d *directory) ClearCache(ctx context.Context) error {
	if d.cache == nil {
		return nil
	}
	return d.cache.clear(ctx)
}

func (d *directory) Stats() Stats {
	return Stats{
		CacheHits:    d.hits.Load(),
		CacheMisses:  d.misses.Load(),
		StoreLookups: d.lookups.Load(),
	}
}

// lookupStore 从持久化存储读取映射（内部使用）
func (d *directory) lookupStore(ctx context.Context, tenantID int64) (*Mapping, error) {
	d.lookups.Add(1)

	var mapping Mapping
	err := d.store.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&mapping).Error
	if err != nil {
		if xerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerrors.Wrapf(ErrMappingNotFound, "tenant %d", tenantID)
		}
		return nil, xerrors.Wrapf(err, "directory: failed to look up tenant %d", tenantID)
	}
	return &mapping, nil
}

func isMiss(err error) bool {
	return xerrors.Is(err, cache.ErrMiss)
}
