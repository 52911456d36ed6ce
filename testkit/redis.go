package testkit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ceyewan/shardkit/connector"
)

// NewRedisConfig 返回 Redis 测试配置
//
// 默认连接 localhost:6379，可通过 SHARDKIT_TEST_REDIS_ADDR 覆盖。
func NewRedisConfig() *connector.RedisConfig {
	addr := os.Getenv("SHARDKIT_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &connector.RedisConfig{
		Name:        "test-redis",
		Addr:        addr,
		DB:          1,
		PoolSize:    10,
		DialTimeout: 2 * time.Second,
	}
}

// NewRedisConnector 获取 Redis 连接器，环境中没有可用实例时跳过测试
func NewRedisConnector(t *testing.T) connector.RedisConnector {
	t.Helper()

	conn, err := connector.NewRedis(NewRedisConfig(), connector.WithLogger(NewLogger()))
	if err != nil {
		t.Fatalf("failed to create redis connector: %v", err)
	}
	if err := conn.Connect(context.Background()); err != nil {
		t.Skipf("redis is not available: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// NewRedisClient 获取原生 Redis 客户端，环境中没有可用实例时跳过测试
func NewRedisClient(t *testing.T) *redis.Client {
	return NewRedisConnector(t).GetClient()
}
