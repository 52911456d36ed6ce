// Package testkit 提供各组件测试共用的夹具：内存 SQLite 池、
// 预置的分片拓扑、安静的日志与指标实现。
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/metrics"
)

// NewLogger 返回测试用 logger，只输出 error 以上级别
func NewLogger() clog.Logger {
	logger, err := clog.New(&clog.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		return clog.NewNoop()
	}
	return logger
}

// NewMeter 返回不产生任何输出的 Meter
func NewMeter() metrics.Meter {
	return metrics.NewNoop()
}

// NewContext 返回带超时的测试上下文
func NewContext(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}
