package topology

import (
	"context"

	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/connector"
	"github.com/ceyewan/shardkit/xerrors"
	"gorm.io/gorm"
)

// PoolConfig 单个物理池的连接配置
//
// Driver 为 "mysql" 时使用 MySQL 字段，为 "sqlite" 时使用 Path。
type PoolConfig struct {
	Name     string `mapstructure:"name" json:"name" yaml:"name"`
	DSN      string `mapstructure:"dsn" json:"dsn" yaml:"dsn"`
	Host     string `mapstructure:"host" json:"host" yaml:"host"`
	Port     int    `mapstructure:"port" json:"port" yaml:"port"`
	Username string `mapstructure:"username" json:"username" yaml:"username"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
	Database string `mapstructure:"database" json:"database" yaml:"database"`
	Path     string `mapstructure:"path" json:"path" yaml:"path"`
}

// ShardConfig 单个分片的声明式配置
type ShardConfig struct {
	ID       string       `mapstructure:"id" json:"id" yaml:"id"`
	Region   string       `mapstructure:"region" json:"region" yaml:"region"`
	Status   Status       `mapstructure:"status" json:"status" yaml:"status"`
	Latest   bool         `mapstructure:"latest" json:"latest" yaml:"latest"`
	Master   PoolConfig   `mapstructure:"master" json:"master" yaml:"master"`
	Replicas []PoolConfig `mapstructure:"replicas" json:"replicas" yaml:"replicas"`
}

// Config 拓扑的声明式配置，可通过 config 组件从文件加载
type Config struct {
	// Driver 数据库驱动: "mysql" | "sqlite"（默认 "mysql"）
	Driver string `mapstructure:"driver" json:"driver" yaml:"driver"`

	// Global 全局（非分片）库连接配置
	Global PoolConfig `mapstructure:"global" json:"global" yaml:"global"`

	// Shards 分片列表
	Shards []ShardConfig `mapstructure:"shards" json:"shards" yaml:"shards"`
}

// setDefaults 设置配置的默认值（内部使用）
func (c *Config) setDefaults() {
	if c.Driver == "" {
		c.Driver = "mysql"
	}
}

// validate 验证配置的有效性（内部使用）
func (c *Config) validate() error {
	if c.Driver != "mysql" && c.Driver != "sqlite" {
		return xerrors.Wrapf(xerrors.New("unsupported driver"), "topology: %s (must be 'mysql' or 'sqlite')", c.Driver)
	}
	return nil
}

// Build 按声明式配置创建所有连接器并组装拓扑
//
// 返回的 close 函数按 LIFO 顺序关闭全部连接器；
// 任一池连接失败时，已建立的连接会被回收后再返回错误。
func Build(ctx context.Context, cfg *Config, opts ...Option) (*Topology, func() error, error) {
	if cfg == nil {
		return nil, nil, xerrors.New("topology: config is nil")
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	var conns []connector.Connector
	closeAll := func() error {
		var errs []error
		for i := len(conns) - 1; i >= 0; i-- {
			errs = append(errs, conns[i].Close())
		}
		return xerrors.Combine(errs...)
	}

	openPool := func(pc PoolConfig) (*gorm.DB, error) {
		conn, err := newPoolConnector(cfg.Driver, pc, opt.logger)
		if err != nil {
			return nil, err
		}
		if err := conn.Connect(ctx); err != nil {
			return nil, err
		}
		conns = append(conns, conn)
		return conn.GetClient(), nil
	}

	global, err := openPool(cfg.Global)
	if err != nil {
		_ = closeAll()
		return nil, nil, xerrors.Wrap(err, "topology: failed to open global pool")
	}

	shards := make([]*Shard, 0, len(cfg.Shards))
	for _, sc := range cfg.Shards {
		master, err := openPool(sc.Master)
		if err != nil {
			_ = closeAll()
			return nil, nil, xerrors.Wrapf(err, "topology: failed to open master pool for shard[%s]", sc.ID)
		}

		replicas := make([]*gorm.DB, 0, len(sc.Replicas))
		for i, rc := range sc.Replicas {
			replica, err := openPool(rc)
			if err != nil {
				_ = closeAll()
				return nil, nil, xerrors.Wrapf(err, "topology: failed to open replica[%d] pool for shard[%s]", i, sc.ID)
			}
			replicas = append(replicas, replica)
		}

		shards = append(shards, &Shard{
			ID:       sc.ID,
			Region:   sc.Region,
			Status:   sc.Status,
			Latest:   sc.Latest,
			Master:   master,
			Replicas: replicas,
		})
	}

	topo, err := New(global, shards)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}

	opt.logger.Info("shard topology built",
		clog.Int("shards", len(shards)),
		clog.String("latest", topo.latestID))

	return topo, closeAll, nil
}

// newPoolConnector 按驱动类型创建连接器（内部使用）
func newPoolConnector(driver string, pc PoolConfig, logger clog.Logger) (connector.TypedConnector[*gorm.DB], error) {
	switch driver {
	case "sqlite":
		return connector.NewSQLite(&connector.SQLiteConfig{
			Name: pc.Name,
			Path: pc.Path,
		}, connector.WithLogger(logger))
	default:
		return connector.NewMySQL(&connector.MySQLConfig{
			Name:     pc.Name,
			DSN:      pc.DSN,
			Host:     pc.Host,
			Port:     pc.Port,
			Username: pc.Username,
			Password: pc.Password,
			Database: pc.Database,
		}, connector.WithLogger(logger))
	}
}
