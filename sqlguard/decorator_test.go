package sqlguard

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ceyewan/shardkit/classify"
	"github.com/ceyewan/shardkit/clog"
)

func newTestLogger(t *testing.T, w io.Writer) clog.Logger {
	t.Helper()
	logger, err := clog.New(&clog.Config{Level: "debug", Format: "json"}, clog.WithWriter(w))
	require.NoError(t, err)
	return logger
}

func newGuardedDB(t *testing.T, strictness Strictness) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	v, err := New(&Config{TenantColumns: []string{"tenant_id"}, Strictness: strictness})
	require.NoError(t, err)

	c := classify.New()
	c.RegisterTable("tickets", true)
	Attach(db, v, c.IsShardedTable)

	// DDL 不经过租户校验
	require.NoError(t, db.Exec("CREATE TABLE tickets (id INTEGER, tenant_id INTEGER, subject TEXT)").Error)
	return db
}

func TestGuardedPool_RejectsUnfilteredExec(t *testing.T) {
	db := newGuardedDB(t, StrictnessFail)

	err := db.Exec("UPDATE tickets SET subject='x' WHERE id=5").Error
	assert.ErrorIs(t, err, ErrValidation)

	err = db.Exec("UPDATE tickets SET subject='x' WHERE id=5 AND tenant_id=42").Error
	assert.NoError(t, err)
}

func TestGuardedPool_RejectsUnfilteredQuery(t *testing.T) {
	db := newGuardedDB(t, StrictnessFail)

	var count int64
	err := db.Raw("SELECT count(*) FROM tickets WHERE subject='x'").Scan(&count).Error
	assert.ErrorIs(t, err, ErrValidation)

	err = db.Raw("SELECT count(*) FROM tickets WHERE tenant_id=42").Scan(&count).Error
	assert.NoError(t, err)
}

func TestGuardedPool_GlobalTableSkipsValidation(t *testing.T) {
	db := newGuardedDB(t, StrictnessFail)
	require.NoError(t, db.Exec("CREATE TABLE regions (code TEXT)").Error)

	// 未注册为分片范围的表不做校验
	err := db.Exec("UPDATE regions SET code='cn-east'").Error
	assert.NoError(t, err)
}

func TestGuardedPool_InsertValidation(t *testing.T) {
	db := newGuardedDB(t, StrictnessFail)

	err := db.Exec("INSERT INTO tickets (tenant_id, subject) VALUES (42, 'x')").Error
	assert.NoError(t, err)

	err = db.Exec("INSERT INTO tickets (subject) VALUES ('x')").Error
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGuardedPool_ValidatesInsideTransaction(t *testing.T) {
	db := newGuardedDB(t, StrictnessFail)

	// 事务内的语句同样经过校验，违规导致整个事务回滚
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO tickets (tenant_id, subject) VALUES (42, 'a')").Error; err != nil {
			return err
		}
		return tx.Exec("UPDATE tickets SET subject='b' WHERE id=1").Error
	})
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, db.Raw("SELECT count(*) FROM tickets WHERE tenant_id=42").Scan(&count).Error)
	assert.Zero(t, count)
}

func TestGuardedPool_WarnModePassesThrough(t *testing.T) {
	db := newGuardedDB(t, StrictnessWarn)

	require.NoError(t, db.Exec("INSERT INTO tickets (tenant_id, subject) VALUES (42, 'a')").Error)

	// WARN 下违规语句照常执行
	err := db.Exec("UPDATE tickets SET subject='b' WHERE id IS NOT NULL").Error
	assert.NoError(t, err)

	var subject string
	require.NoError(t, db.Raw("SELECT subject FROM tickets WHERE tenant_id=42").Scan(&subject).Error)
	assert.Equal(t, "b", subject)
}
