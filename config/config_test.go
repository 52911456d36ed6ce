package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
topology:
  driver: sqlite
  global:
    name: global
    path: ":memory:"
  shards:
    - id: s1
      region: cn-east
      master:
        name: s1-master
        path: ":memory:"
    - id: s2
      region: cn-east
      latest: true
      master:
        name: s2-master
        path: ":memory:"
directory:
  cache_ttl: 2m
cache:
  mode: standalone
  prefix: "shardkit:mapping:"
validation:
  tenant_columns: [tenant_id, company_id]
  strictness: FAIL
router:
  replica_strategy: round_robin
batch:
  workers: 8
log:
  level: info
  format: json
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shardkit.yaml"), []byte(content), 0o644))
	return dir
}

func newTestLoader(t *testing.T, content string) Loader {
	t.Helper()
	l := New(WithConfigPaths(writeConfig(t, content)))
	require.NoError(t, l.Load(context.Background()))
	return l
}

func TestLoad_UnmarshalShardingConfig(t *testing.T) {
	l := newTestLoader(t, testYAML)

	cfg, err := LoadSharding(l)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Topology.Driver)
	require.Len(t, cfg.Topology.Shards, 2)
	assert.Equal(t, "s1", cfg.Topology.Shards[0].ID)
	assert.True(t, cfg.Topology.Shards[1].Latest)
	assert.Equal(t, 2*time.Minute, cfg.Directory.CacheTTL)
	assert.Equal(t, []string{"tenant_id", "company_id"}, cfg.Validation.TenantColumns)
	assert.Equal(t, "standalone", cfg.Cache.Mode)
	assert.Equal(t, 8, cfg.Batch.Workers)
}

func TestLoad_Get(t *testing.T) {
	l := newTestLoader(t, testYAML)

	assert.Equal(t, "round_robin", l.Get("router.replica_strategy"))
	assert.Nil(t, l.Get("nonexistent.key"))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SHARDKIT_LOG_LEVEL", "debug")
	l := newTestLoader(t, testYAML)

	// 环境变量优先于配置文件
	assert.Equal(t, "debug", l.Get("log.level"))
}

func TestLoad_UnmarshalKey(t *testing.T) {
	l := newTestLoader(t, testYAML)

	var cfg struct {
		TenantColumns []string `mapstructure:"tenant_columns"`
		Strictness    string   `mapstructure:"strictness"`
	}
	require.NoError(t, l.UnmarshalKey("validation", &cfg))
	assert.Equal(t, "FAIL", cfg.Strictness)
}

func TestLoad_MissingFile(t *testing.T) {
	l := New(WithConfigPaths(t.TempDir()))

	// 没有配置文件时加载失败于验证（空配置）
	err := l.Load(context.Background())
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestWatch_NotifiesOnChange(t *testing.T) {
	l := newTestLoader(t, testYAML)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := l.Watch(ctx, "log.level")
	require.NoError(t, err)

	lo := l.(*loader)
	lo.v.Set("log.level", "warn")
	lo.notifyWatches()

	select {
	case ev := <-ch:
		assert.Equal(t, "log.level", ev.Key)
		assert.Equal(t, "warn", ev.Value)
		assert.Equal(t, "info", ev.OldValue)
	case <-time.After(time.Second):
		t.Fatal("expected a config change event")
	}
}

func TestWatch_CancelClosesChannel(t *testing.T) {
	l := newTestLoader(t, testYAML)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := l.Watch(ctx, "log.level")
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected channel to be closed")
	}
}
