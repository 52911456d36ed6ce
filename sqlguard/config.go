package sqlguard

import (
	"strings"

	"github.com/ceyewan/shardkit/xerrors"
)

// Strictness 校验失败时的处理策略
type Strictness string

const (
	// StrictnessFail 拒绝执行，返回校验错误
	StrictnessFail Strictness = "FAIL"

	// StrictnessWarn 记录 Warn 级日志，允许执行
	StrictnessWarn Strictness = "WARN"

	// StrictnessLog 记录 Info 级日志，允许执行
	StrictnessLog Strictness = "LOG"

	// StrictnessDisabled 完全跳过校验
	StrictnessDisabled Strictness = "DISABLED"
)

// ParseStrictness 解析策略字符串，不区分大小写
func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(strings.ToUpper(s)) {
	case StrictnessFail:
		return StrictnessFail, nil
	case StrictnessWarn:
		return StrictnessWarn, nil
	case StrictnessLog:
		return StrictnessLog, nil
	case StrictnessDisabled:
		return StrictnessDisabled, nil
	default:
		return "", xerrors.Wrapf(ErrConfig, "unknown strictness: %s", s)
	}
}

// Config 校验器配置
type Config struct {
	// TenantColumns 识别为租户过滤列的列名集合（默认 ["tenant_id"]）
	//
	// 匹配不区分大小写，允许表别名限定（如 t.tenant_id）。
	TenantColumns []string `json:"tenant_columns" yaml:"tenant_columns" mapstructure:"tenant_columns"`

	// Strictness 校验失败时的处理策略（默认 FAIL）
	Strictness Strictness `json:"strictness" yaml:"strictness" mapstructure:"strictness"`
}

// setDefaults 设置配置的默认值（内部使用）
func (c *Config) setDefaults() {
	if len(c.TenantColumns) == 0 {
		c.TenantColumns = []string{"tenant_id"}
	}
	if c.Strictness == "" {
		c.Strictness = StrictnessFail
	}
}

// validate 验证配置的合法性（内部使用）
func (c *Config) validate() error {
	for _, col := range c.TenantColumns {
		if strings.TrimSpace(col) == "" {
			return xerrors.Wrap(ErrConfig, "tenant column name cannot be empty")
		}
	}
	if _, err := ParseStrictness(string(c.Strictness)); err != nil {
		return err
	}
	return nil
}
