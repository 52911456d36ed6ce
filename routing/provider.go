// Package routing 是所有数据库调用的连接获取入口。
//
// Provider 结合租户上下文与"本次操作是否分片范围"的信号决定连接池：
//
//  1. 上下文携带预解析的池句柄：分片范围的调用直接使用该句柄
//     （请求中间件铺好的快速路径），非分片范围的调用一律走全局池
//  2. 没有租户上下文：走全局池
//  3. 其余情况：按上下文的分片 ID 与只读标志动态路由
//
// 动态路由在稳态下应当少见，但必须始终正确。任何路由失败都以连接
// 获取错误暴露，绝不返回错误分片的连接。
//
// Coordinator 在同样的决策之上绑定事务边界：一个事务固定在一个池上，
// 事务内任何解析到其他池的操作都会失败。
package routing

import (
	"context"
	"sync/atomic"

	"gorm.io/gorm"

	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/router"
	"github.com/ceyewan/shardkit/tenant"
	"github.com/ceyewan/shardkit/xerrors"
)

// Provider 连接提供者接口
type Provider interface {
	// Acquire 为一次数据库调用解析连接池
	//
	// shardScoped 表示本次操作的目标实体是否分片范围
	// （通常来自 classify.Classifier）。
	Acquire(ctx context.Context, shardScoped bool) (*gorm.DB, error)

	// Stats 返回获取路径统计，仅用于监控
	Stats() Stats
}

// Stats 连接获取路径统计
type Stats struct {
	// FastPath 使用预解析池句柄的次数
	FastPath uint64
	// Dynamic 走动态路由回退的次数
	Dynamic uint64
	// Global 路由到全局池的次数
	Global uint64
}

type provider struct {
	router router.Router
	logger clog.Logger

	fastPath atomic.Uint64
	dynamic  atomic.Uint64
	global   atomic.Uint64
}

// NewProvider 创建连接提供者
func NewProvider(r router.Router, opts ...Option) (Provider, error) {
	if r == nil {
		return nil, xerrors.New("routing: router is nil")
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &provider{router: r, logger: opt.logger}, nil
}

func (p *provider) Acquire(ctx context.Context, shardScoped bool) (*gorm.DB, error) {
	info, ok := tenant.FromContext(ctx)

	// 非分片范围的操作与无租户上下文的操作一律走全局池
	if !shardScoped || !ok {
		p.global.Add(1)
		return p.router.RouteGlobal(), nil
	}

	if info.Pool != nil {
		p.fastPath.Add(1)
		return info.Pool, nil
	}

	// 动态回退：稳态下少见，但必须正确
	if info.ShardID == "" {
		return nil, xerrors.Wrapf(ErrNoShardResolved, "tenant %d", info.TenantID)
	}
	p.dynamic.Add(1)

	var (
		pool *gorm.DB
		err  error
	)
	if info.ReadOnly {
		pool, err = p.router.RouteForRead(info.ShardID)
	} else {
		pool, err = p.router.RouteForWrite(info.ShardID)
	}
	if err != nil {
		return nil, xerrors.Wrapf(err, "routing: failed to acquire connection for tenant %d", info.TenantID)
	}

	p.logger.DebugContext(ctx, "resolved pool dynamically",
		clog.Int64("tenant_id", info.TenantID),
		clog.String("shard_id", info.ShardID),
		clog.Bool("read_only", info.ReadOnly))
	return pool, nil
}

func (p *provider) Stats() Stats {
	return Stats{
		FastPath: p.fastPath.Load(),
		Dynamic:  p.dynamic.Load(),
		Global:   p.global.Load(),
	}
}

var _ Provider = (*provider)(nil)
