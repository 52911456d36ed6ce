package sqlguard

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/xerrors"
)

// ScopeFunc 表范围信号：给定表名，返回其是否为分片范围
//
// 通常由 classify.Classifier 的 IsShardedTable 提供。
type ScopeFunc func(table string) bool

// guardedPool 连接池装饰器，在语句到达驱动前做租户过滤校验
//
// 校验统一发生在 ConnPool 层而不是仓储层，保证手写 SQL 与 ORM
// 生成的 SQL 走同一条检查路径。
type guardedPool struct {
	inner  gorm.ConnPool
	v      Validator
	scope  ScopeFunc
	logger clog.Logger
}

// WrapConnPool 包装连接池，拦截其上执行的所有语句
//
// 目标表无法识别或不在分片范围时跳过校验（与分类器的全局默认一致）。
func WrapConnPool(inner gorm.ConnPool, v Validator, scope ScopeFunc, opts ...Option) gorm.ConnPool {
	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &guardedPool{inner: inner, v: v, scope: scope, logger: opt.logger}
}

// Attach 将校验装饰器安装到已打开的 gorm 连接上
//
// 安装后该连接（及其派生会话）执行的所有语句都会先经过校验。
func Attach(db *gorm.DB, v Validator, scope ScopeFunc, opts ...Option) {
	wrapped := WrapConnPool(db.ConnPool, v, scope, opts...)
	db.ConnPool = wrapped
	db.Statement.ConnPool = wrapped
}

// check 对单条语句执行校验（内部使用）
func (g *guardedPool) check(ctx context.Context, query string) error {
	normalized := normalize(query)
	table := tableOf(normalized, kindOf(normalized))
	return g.v.Validate(ctx, query, g.scope(table))
}

func (g *guardedPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	if err := g.check(ctx, query); err != nil {
		return nil, err
	}
	return g.inner.PrepareContext(ctx, query)
}

func (g *guardedPool) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := g.check(ctx, query); err != nil {
		return nil, err
	}
	return g.inner.ExecContext(ctx, query, args...)
}

func (g *guardedPool) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := g.check(ctx, query); err != nil {
		return nil, err
	}
	return g.inner.QueryContext(ctx, query, args...)
}

func (g *guardedPool) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	if err := g.check(ctx, query); err != nil {
		// *sql.Row 无法直接携带校验错误：记录错误并用已取消的
		// context 委托，让后续 Scan 失败而不是放行语句
		g.logger.ErrorContext(ctx, "rejected statement on row query", clog.Error(err))
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		return g.inner.QueryRowContext(cctx, query, args...)
	}
	return g.inner.QueryRowContext(ctx, query, args...)
}

// BeginTx 开启事务并继续包装事务内的连接，保证事务中的语句同样被校验
func (g *guardedPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	var (
		txPool gorm.ConnPool
		err    error
	)
	switch beginner := g.inner.(type) {
	case gorm.TxBeginner:
		txPool, err = beginner.BeginTx(ctx, opts)
	case gorm.ConnPoolBeginner:
		txPool, err = beginner.BeginTx(ctx, opts)
	default:
		return nil, xerrors.New("sqlguard: underlying pool does not support transactions")
	}
	if err != nil {
		return nil, err
	}
	return &guardedTx{guardedPool{inner: txPool, v: g.v, scope: g.scope, logger: g.logger}}, nil
}

// GetDBConn 透传底层 *sql.DB，保持 gorm 的 DB() 可用
func (g *guardedPool) GetDBConn() (*sql.DB, error) {
	if db, ok := g.inner.(*sql.DB); ok {
		return db, nil
	}
	if connector, ok := g.inner.(gorm.GetDBConnector); ok {
		return connector.GetDBConn()
	}
	return nil, xerrors.New("sqlguard: underlying pool does not expose *sql.DB")
}

// guardedTx 事务内的装饰器，透传提交与回滚
type guardedTx struct {
	guardedPool
}

func (g *guardedTx) Commit() error {
	if committer, ok := g.inner.(gorm.TxCommitter); ok {
		return committer.Commit()
	}
	return xerrors.New("sqlguard: underlying pool is not a transaction")
}

func (g *guardedTx) Rollback() error {
	if committer, ok := g.inner.(gorm.TxCommitter); ok {
		return committer.Rollback()
	}
	return xerrors.New("sqlguard: underlying pool is not a transaction")
}

var (
	_ gorm.ConnPool         = (*guardedPool)(nil)
	_ gorm.ConnPoolBeginner = (*guardedPool)(nil)
	_ gorm.TxCommitter      = (*guardedTx)(nil)
)
