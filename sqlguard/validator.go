// Package sqlguard 在语句执行前检查分片范围的 SQL 是否带有租户过滤条件。
//
// 误路由的查询导致跨租户数据泄露，而绝大多数泄露源自漏写租户条件的
// SQL。本包按语句类型做轻量的文本检查：
//   - SELECT：租户列出现在 WHERE 或 JOIN ON 条件中
//   - INSERT：租户列出现在插入列中
//   - UPDATE/DELETE：租户列出现在 WHERE 中
//   - 其他语句（DDL 等）：始终通过
//
// 校验失败的处理由 Strictness 决定：FAIL 拒绝执行，WARN/LOG 记录后
// 放行，DISABLED 完全跳过。错误消息中的 SQL 已脱敏（字面量替换为 ?），
// 可以安全进入日志。
//
// 基本使用：
//
//	guard, _ := sqlguard.New(&sqlguard.Config{
//	    TenantColumns: []string{"tenant_id", "company_id"},
//	    Strictness:    sqlguard.StrictnessFail,
//	})
//
//	err := guard.Validate(ctx, "UPDATE tickets SET x=1 WHERE id=5", true)
//	// err != nil：WHERE 中没有租户列
package sqlguard

import (
	"context"
	"regexp"
	"strings"

	"github.com/ceyewan/shardkit/clog"
	"github.com/ceyewan/shardkit/xerrors"
)

// Validator SQL 租户过滤校验器接口
type Validator interface {
	// Validate 校验一条即将执行的语句
	//
	// shardScoped 为 false 时直接跳过；校验失败时按配置的策略处理，
	// 只有 FAIL 策略会返回非 nil 错误。
	Validate(ctx context.Context, sql string, shardScoped bool) error

	// Strictness 返回生效的策略
	Strictness() Strictness
}

type validator struct {
	columns    []string
	colPattern *regexp.Regexp
	strictness Strictness
	logger     clog.Logger
}

// New 创建校验器
func New(cfg *Config, opts ...Option) (Validator, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	quoted := make([]string, 0, len(cfg.TenantColumns))
	for _, col := range cfg.TenantColumns {
		quoted = append(quoted, regexp.QuoteMeta(strings.TrimSpace(col)))
	}
	// 词边界匹配天然兼容别名限定（t.tenant_id）与反引号包裹
	colPattern, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, xerrors.Wrap(ErrConfig, "failed to compile tenant column pattern")
	}

	return &validator{
		columns:    cfg.TenantColumns,
		colPattern: colPattern,
		strictness: Strictness(strings.ToUpper(string(cfg.Strictness))),
		logger:     opt.logger,
	}, nil
}

func (v *validator) Strictness() Strictness {
	return v.strictness
}

func (v *validator) Validate(ctx context.Context, sql string, shardScoped bool) error {
	if v.strictness == StrictnessDisabled || !shardScoped {
		return nil
	}

	normalized := normalize(sql)
	kind := kindOf(normalized)
	if v.hasTenantFilter(normalized, kind) {
		return nil
	}

	table := tableOf(normalized, kind)
	redacted := sanitize(normalized)

	switch v.strictness {
	case StrictnessFail:
		return xerrors.Wrapf(ErrValidation,
			"table=%s expected one of columns [%s] in sql: %s",
			tableOrUnknown(table), strings.Join(v.columns, ", "), redacted)
	case StrictnessWarn:
		v.logger.WarnContext(ctx, "statement lacks tenant filtering",
			clog.String("table", tableOrUnknown(table)),
			clog.String("expected_columns", strings.Join(v.columns, ", ")),
			clog.String("sql", redacted))
	case StrictnessLog:
		v.logger.InfoContext(ctx, "statement lacks tenant filtering",
			clog.String("table", tableOrUnknown(table)),
			clog.String("expected_columns", strings.Join(v.columns, ", ")),
			clog.String("sql", redacted))
	}
	return nil
}

// hasTenantFilter 按语句类型检查租户列出现在恰当的位置（内部使用）
func (v *validator) hasTenantFilter(sql string, kind stmtKind) bool {
	switch kind {
	case kindSelect:
		if v.colPattern.MatchString(whereClause(sql)) {
			return true
		}
		for _, on := range onClauses(sql) {
			if v.colPattern.MatchString(on) {
				return true
			}
		}
		return false
	case kindInsert:
		cols := insertColumnList(sql)
		if cols != "" {
			return v.colPattern.MatchString(cols)
		}
		// 无显式列表（如 MySQL 的 INSERT ... SET）时检查表名之后的全文
		return v.colPattern.MatchString(sql)
	case kindUpdate, kindDelete:
		return v.colPattern.MatchString(whereClause(sql))
	default:
		// DDL 等非租户数据语句始终通过
		return true
	}
}

func tableOrUnknown(table string) string {
	if table == "" {
		return "<unknown>"
	}
	return table
}

var _ Validator = (*validator)(nil)
