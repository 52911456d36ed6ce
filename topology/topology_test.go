package topology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newPool(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func TestNew_ExactlyOneLatest(t *testing.T) {
	global := newPool(t)
	m1, m2 := newPool(t), newPool(t)

	tests := []struct {
		name    string
		shards  []*Shard
		wantErr error
	}{
		{
			name: "one latest ok",
			shards: []*Shard{
				{ID: "s1", Status: StatusActive, Master: m1},
				{ID: "s2", Status: StatusActive, Latest: true, Master: m2},
			},
		},
		{
			name: "zero latest fails",
			shards: []*Shard{
				{ID: "s1", Status: StatusActive, Master: m1},
				{ID: "s2", Status: StatusActive, Master: m2},
			},
			wantErr: ErrInvalidLatestCount,
		},
		{
			name: "two latest fails",
			shards: []*Shard{
				{ID: "s1", Status: StatusActive, Latest: true, Master: m1},
				{ID: "s2", Status: StatusActive, Latest: true, Master: m2},
			},
			wantErr: ErrInvalidLatestCount,
		},
		{
			name: "latest on inactive shard does not count",
			shards: []*Shard{
				{ID: "s1", Status: StatusInactive, Latest: true, Master: m1},
				{ID: "s2", Status: StatusActive, Master: m2},
			},
			wantErr: ErrInvalidLatestCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo, err := New(global, tt.shards)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			latest, err := topo.LatestShardID()
			require.NoError(t, err)
			assert.Equal(t, "s2", latest)
		})
	}
}

func TestNew_StructuralValidation(t *testing.T) {
	global := newPool(t)
	m1 := newPool(t)

	_, err := New(nil, nil)
	assert.Error(t, err)

	_, err = New(global, []*Shard{{ID: "", Master: m1}})
	assert.Error(t, err)

	_, err = New(global, []*Shard{{ID: "s1", Latest: true, Master: nil}})
	assert.Error(t, err)

	_, err = New(global, []*Shard{
		{ID: "s1", Latest: true, Master: m1},
		{ID: "s1", Master: m1},
	})
	assert.Error(t, err)
}

func TestTopology_Lookup(t *testing.T) {
	global := newPool(t)
	m1 := newPool(t)
	r1 := newPool(t)

	topo, err := New(global, []*Shard{
		{ID: "s1", Region: "cn-east", Status: StatusActive, Latest: true, Master: m1, Replicas: []*gorm.DB{r1}},
	})
	require.NoError(t, err)

	assert.Same(t, global, topo.Global())

	s, err := topo.Shard("s1")
	require.NoError(t, err)
	assert.Same(t, m1, s.Master)
	assert.Len(t, s.Replicas, 1)

	_, err = topo.Shard("s99")
	assert.ErrorIs(t, err, ErrShardNotFound)

	assert.Len(t, topo.Shards(), 1)
}

func TestStatus_Routable(t *testing.T) {
	assert.True(t, StatusActive.Routable())
	assert.False(t, StatusInactive.Routable())
	assert.False(t, StatusMaintenance.Routable())
}

func TestBuild_SQLite(t *testing.T) {
	cfg := &Config{
		Driver: "sqlite",
		Global: PoolConfig{Name: "global", Path: ":memory:"},
		Shards: []ShardConfig{
			{
				ID:     "s1",
				Region: "local",
				Status: StatusActive,
				Latest: true,
				Master: PoolConfig{Name: "s1-master", Path: ":memory:"},
				Replicas: []PoolConfig{
					{Name: "s1-replica-0", Path: ":memory:"},
				},
			},
		},
	}

	topo, closeAll, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeAll() })

	s, err := topo.Shard("s1")
	require.NoError(t, err)
	assert.NotNil(t, s.Master)
	assert.Len(t, s.Replicas, 1)

	latest, err := topo.LatestShardID()
	require.NoError(t, err)
	assert.Equal(t, "s1", latest)
}

func TestBuild_InvalidDriver(t *testing.T) {
	_, _, err := Build(context.Background(), &Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestBuild_LatestViolationClosesPools(t *testing.T) {
	cfg := &Config{
		Driver: "sqlite",
		Global: PoolConfig{Path: ":memory:"},
		Shards: []ShardConfig{
			{ID: "s1", Status: StatusActive, Master: PoolConfig{Path: ":memory:"}},
		},
	}

	_, _, err := Build(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrInvalidLatestCount)
}
