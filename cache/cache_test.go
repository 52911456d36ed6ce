package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mappingFixture struct {
	TenantID int64  `json:"tenant_id"`
	ShardID  string `json:"shard_id"`
}

func newTestCache(t *testing.T) Cache {
	c, err := New(&Config{Mode: ModeStandalone, MaxEntries: 100})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{Mode: "memcached"})
	assert.ErrorIs(t, err, ErrConfig)

	// 分布式模式缺少连接器
	_, err = New(&Config{Mode: ModeDistributed})
	assert.Error(t, err)
}

func TestStandalone_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	want := mappingFixture{TenantID: 5001, ShardID: "s1"}
	require.NoError(t, c.Set(ctx, "tenant:5001", want, time.Minute))

	var got mappingFixture
	require.NoError(t, c.Get(ctx, "tenant:5001", &got))
	assert.Equal(t, want, got)
}

func TestStandalone_Miss(t *testing.T) {
	c := newTestCache(t)

	var got mappingFixture
	err := c.Get(context.Background(), "tenant:absent", &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStandalone_TTLExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "tenant:1", mappingFixture{TenantID: 1, ShardID: "s1"}, 30*time.Millisecond))

	var got mappingFixture
	require.NoError(t, c.Get(ctx, "tenant:1", &got))

	time.Sleep(60 * time.Millisecond)
	assert.ErrorIs(t, c.Get(ctx, "tenant:1", &got), ErrMiss)
}

func TestStandalone_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "tenant:1", mappingFixture{TenantID: 1}, time.Minute))
	require.NoError(t, c.Delete(ctx, "tenant:1"))

	var got mappingFixture
	assert.ErrorIs(t, c.Get(ctx, "tenant:1", &got), ErrMiss)

	// 删除不存在的键不报错
	assert.NoError(t, c.Delete(ctx, "tenant:absent"))
}

func TestStandalone_Clear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"tenant:1", "tenant:2", "tenant:3"} {
		require.NoError(t, c.Set(ctx, key, mappingFixture{TenantID: 1}, time.Minute))
	}
	require.NoError(t, c.Clear(ctx))

	var got mappingFixture
	for _, key := range []string{"tenant:1", "tenant:2", "tenant:3"} {
		assert.ErrorIs(t, c.Get(ctx, key, &got), ErrMiss)
	}
}

func TestStandalone_WrongDestType(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "a string", time.Minute))

	var wrong int
	assert.Error(t, c.Get(ctx, "k", &wrong))

	// 非指针 dest
	var s string
	assert.Error(t, c.Get(ctx, "k", s))
}
