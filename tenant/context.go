// Package tenant 提供以 context.Context 为载体的租户上下文。
//
// 每个逻辑操作（一次请求、批处理中的一次租户迭代）持有自己的上下文值，
// 下游的所有路由决策（连接获取、事务绑定、SQL 校验）都以调用时刻的
// 上下文为准；没有隐式的默认租户。
//
// 上下文随 context 派生链传播，天然满足嵌套作用域与恢复语义：
// 子操作派生新 context 使用，退出后父 context 不受影响；
// 并发操作各自持有独立的 context，隔离是结构性的，无需加锁。
//
// 基本使用：
//
//	ctx = tenant.NewContext(ctx, tenant.Info{
//	    TenantID: 5001,
//	    ShardID:  "s1",
//	    Pool:     pool, // 可选：请求中间件预解析的连接池句柄
//	})
//
//	info, ok := tenant.FromContext(ctx)
package tenant

import (
	"context"

	"gorm.io/gorm"
)

// Info 当前逻辑操作的租户状态
type Info struct {
	// TenantID 租户标识
	TenantID int64

	// ShardID 该租户数据所在分片
	ShardID string

	// ReadOnly 只读标志，允许路由到副本池
	ReadOnly bool

	// Pool 预解析的连接池句柄（可选）
	//
	// 请求中间件在解析租户映射时顺带解析出目标池，后续分片范围内的
	// 连接获取直接使用此句柄，跳过动态路由。
	Pool *gorm.DB
}

type ctxKey struct{}

// NewContext 返回携带租户上下文的新 context
//
// info 按值存储，后续修改调用方手中的 Info 不会影响已创建的 context。
func NewContext(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext 返回当前租户上下文
//
// 返回的 Info 是副本，修改它不会影响 context 中的值。
// ctx 未携带租户上下文（或已被 Clear 遮蔽）时 ok 为 false。
func FromContext(ctx context.Context) (Info, bool) {
	v := ctx.Value(ctxKey{})
	if v == nil {
		return Info{}, false
	}
	info, ok := v.(Info)
	return info, ok
}

// Clear 返回移除了租户上下文的新 context
//
// context 的值无法真正删除，这里以哨兵值遮蔽父链上的租户上下文；
// 父 context 本身不受影响，退出当前作用域后自然恢复。
func Clear(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, nil)
}

// WithReadOnly 返回切换了只读标志的新 context
//
// 只读标志独立于租户/分片变化。ctx 未携带租户上下文时原样返回。
func WithReadOnly(ctx context.Context, readOnly bool) context.Context {
	info, ok := FromContext(ctx)
	if !ok {
		return ctx
	}
	info.ReadOnly = readOnly
	return NewContext(ctx, info)
}

// RunScoped 在给定租户上下文中执行 fn
//
// fn 收到的 context 携带 info；无论 fn 成功或失败，调用方原有的
// context 均不受影响（恢复语义由 context 派生链保证）。
func RunScoped(ctx context.Context, info Info, fn func(ctx context.Context) error) error {
	return fn(NewContext(ctx, info))
}
