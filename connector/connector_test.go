package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMySQL_ConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *MySQLConfig
		wantErr bool
	}{
		{
			name:    "missing host",
			cfg:     &MySQLConfig{Username: "u", Database: "d"},
			wantErr: true,
		},
		{
			name:    "missing username",
			cfg:     &MySQLConfig{Host: "127.0.0.1", Database: "d"},
			wantErr: true,
		},
		{
			name:    "missing database",
			cfg:     &MySQLConfig{Host: "127.0.0.1", Username: "u"},
			wantErr: true,
		},
		{
			name:    "dsn bypasses field validation",
			cfg:     &MySQLConfig{DSN: "u:p@tcp(127.0.0.1:3306)/d"},
			wantErr: false,
		},
		{
			name: "full config",
			cfg: &MySQLConfig{
				Host:     "127.0.0.1",
				Username: "u",
				Password: "p",
				Database: "d",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := NewMySQL(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, conn)
		})
	}
}

func TestMySQLConfig_Defaults(t *testing.T) {
	cfg := &MySQLConfig{Host: "h", Username: "u", Database: "d"}
	cfg.setDefaults()
	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "utf8mb4", cfg.Charset)
	assert.Equal(t, 100, cfg.MaxOpenConns)
}

func TestSQLite_InMemory(t *testing.T) {
	conn, err := NewSQLite(&SQLiteConfig{Name: "test", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// 延迟连接：Connect 之前客户端为 nil
	assert.Nil(t, conn.GetClient())
	assert.False(t, conn.IsHealthy())

	ctx := context.Background()
	require.NoError(t, conn.Connect(ctx))
	// 幂等
	require.NoError(t, conn.Connect(ctx))

	assert.NotNil(t, conn.GetClient())
	assert.True(t, conn.IsHealthy())
	require.NoError(t, conn.HealthCheck(ctx))

	require.NoError(t, conn.Close())
	assert.False(t, conn.IsHealthy())
	assert.ErrorIs(t, conn.HealthCheck(ctx), ErrClientNil)
}

func TestNewSQLite_MissingPath(t *testing.T) {
	_, err := NewSQLite(&SQLiteConfig{})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNewRedis_MissingAddr(t *testing.T) {
	_, err := NewRedis(&RedisConfig{})
	assert.ErrorIs(t, err, ErrConfig)
}
