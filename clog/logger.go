// Package clog 为 shardkit 提供基于 slog 的结构化日志组件。
//
// 特性：
//   - 抽象接口，不暴露底层实现（slog）
//   - 支持层级命名空间，便于区分 router / directory / sqlguard 等组件日志
//   - 零外部依赖（仅依赖 Go 标准库）
//   - 采用函数式选项模式，与其他组件保持一致
//
// 基本使用：
//
//	logger, _ := clog.New(&clog.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	})
//	logger.Info("tenant routed", clog.Int64("tenant_id", 5001), clog.String("shard_id", "s1"))
//
// 创建子 Logger：
//
//	routerLogger := logger.WithNamespace("router")
//	scopedLogger := logger.With(clog.String("shard_id", "s1"))
package clog

import "context"

// Logger 日志接口，提供结构化日志记录功能
//
// 支持 Debug、Info、Warn、Error、Fatal 五个级别，
// 每个级别都有带 Context 的版本，便于在请求链路中记录。
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)

	// With 返回携带附加字段的子 Logger
	With(fields ...Field) Logger

	// WithNamespace 返回追加命名空间的子 Logger，多级命名空间以 "." 连接
	WithNamespace(parts ...string) Logger
}
