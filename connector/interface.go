// Package connector 为 shardkit 提供物理连接池的创建与生命周期管理。
//
// 在分片架构中，每个分片的主库、每个副本以及全局库都对应一个独立的
// 连接器实例；路由层只借用连接器产出的 *gorm.DB 句柄，不负责其生命周期。
//
// 核心约定：
//   - 延迟连接：NewXXX() 创建连接器但不立即建立连接，Connect() 时才连接
//   - 幂等连接：Connect() 可安全重复调用
//   - 资源所有权：谁创建，谁负责 Close()；借用方（router、directory）不关闭
//   - 并发安全：所有公开方法均可从多个 goroutine 同时调用
//
// 基本使用：
//
//	conn, err := connector.NewMySQL(&connector.MySQLConfig{
//	    Name:     "s1-master",
//	    Host:     "127.0.0.1",
//	    Port:     3306,
//	    Username: "app",
//	    Password: "secret",
//	    Database: "tenant_shard_1",
//	}, connector.WithLogger(logger))
//	defer conn.Close()
//
//	if err := conn.Connect(ctx); err != nil {
//	    panic(err)
//	}
//	pool := conn.GetClient() // *gorm.DB
package connector

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Connector 定义所有连接器的通用行为
type Connector interface {
	// Connect 建立连接。幂等，可安全多次调用，阻塞直到成功或失败。
	Connect(ctx context.Context) error

	// Close 关闭连接并释放资源。幂等。
	Close() error

	// HealthCheck 发送测试请求验证连接可用性，并更新内部健康状态缓存。
	HealthCheck(ctx context.Context) error

	// IsHealthy 无阻塞返回最后一次 HealthCheck 的结果。
	IsHealthy() bool

	// Name 返回连接器实例名称，用于日志与指标标识。
	Name() string
}

// TypedConnector 提供类型安全的客户端访问
//
// 类型参数 T 是客户端类型，如 *gorm.DB、*redis.Client。
type TypedConnector[T any] interface {
	Connector

	// GetClient 返回底层客户端实例。
	// 在 Connect() 之前或 Close() 之后调用可能返回 nil。
	GetClient() T
}

// MySQLConnector MySQL 连接器接口，基于 GORM
//
// 分片主库与副本池的标准实现。
type MySQLConnector interface {
	TypedConnector[*gorm.DB]
}

// SQLiteConnector SQLite 连接器接口，基于 GORM
//
// 支持内存数据库和文件数据库，适合测试和嵌入式场景。
type SQLiteConnector interface {
	TypedConnector[*gorm.DB]
}

// RedisConnector Redis 连接器接口
//
// 目录分布式缓存后端使用。
type RedisConnector interface {
	TypedConnector[*redis.Client]
}
