// Package classify 判定实体/表属于分片范围还是全局范围。
//
// 判定来源有两个，优先级从高到低：
//  1. 显式注册（Register / RegisterTable），启动时构建
//  2. 实体类型实现 ShardScoped 标记接口
//
// 两者都无法判定时默认为全局范围：宁可走非分片路径，也不猜测分片，
// 这是面向安全侧的失败。每个类型只做一次判定，结果缓存直到显式清理。
//
// 基本使用：
//
//	type Ticket struct{ ... }
//	func (Ticket) ShardScoped() {}
//
//	c := classify.New()
//	c.IsSharded(&Ticket{})        // true
//	c.IsShardedTable("tickets")   // true（判定过 Ticket 之后）
package classify

import (
	"reflect"
	"strings"
	"sync"

	"gorm.io/gorm/schema"
)

// ShardScoped 分片范围实体的标记接口
//
// 实体类型实现此接口即声明其数据按租户分片存储。
type ShardScoped interface {
	ShardScoped()
}

// Stats 分类缓存的规模统计，仅用于诊断
type Stats struct {
	TypeEntries  int
	TableEntries int
}

// Classifier 实体范围分类器接口
type Classifier interface {
	// Register 显式注册实体的范围，并建立其表名的反向映射
	//
	// 显式注册优先于标记接口判定，可在启动时覆盖。
	Register(entity any, sharded bool)

	// RegisterTable 显式注册表名的范围（表名匹配不区分大小写）
	RegisterTable(table string, sharded bool)

	// IsSharded 返回实体是否为分片范围，无法判定时返回 false
	IsSharded(entity any) bool

	// IsShardedTable 返回表名是否为分片范围，未知表返回 false
	IsShardedTable(table string) bool

	// ClearCaches 清空全部分类缓存（主要用于测试）
	ClearCaches()

	// Stats 返回缓存规模统计
	Stats() Stats
}

type classifier struct {
	mu     sync.RWMutex
	types  map[reflect.Type]bool
	tables map[string]bool
	namer  schema.Namer
}

// New 创建分类器
func New() Classifier {
	return &classifier{
		types:  make(map[reflect.Type]bool),
		tables: make(map[string]bool),
		namer:  schema.NamingStrategy{},
	}
}

func (c *classifier) Register(entity any, sharded bool) {
	t := indirectType(entity)
	if t == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t] = sharded
	c.tables[strings.ToLower(tableNameOf(entity, t, c.namer))] = sharded
}

func (c *classifier) RegisterTable(table string, sharded bool) {
	if table == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[strings.ToLower(table)] = sharded
}

func (c *classifier) IsSharded(entity any) bool {
	t := indirectType(entity)
	if t == nil {
		return false
	}

	c.mu.RLock()
	sharded, ok := c.types[t]
	c.mu.RUnlock()
	if ok {
		return sharded
	}

	// 首次见到的类型：检查标记接口并缓存结论，同时建立表名反向映射
	sharded = implementsMarker(t)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.types[t]; ok {
		return cached
	}
	c.types[t] = sharded
	table := strings.ToLower(tableNameOf(entity, t, c.namer))
	if _, ok := c.tables[table]; !ok {
		c.tables[table] = sharded
	}
	return sharded
}

func (c *classifier) IsShardedTable(table string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables[strings.ToLower(table)]
}

func (c *classifier) ClearCaches() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = make(map[reflect.Type]bool)
	c.tables = make(map[string]bool)
}

func (c *classifier) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		TypeEntries:  len(c.types),
		TableEntries: len(c.tables),
	}
}

// indirectType 解引用到底层类型（内部使用）
func indirectType(entity any) reflect.Type {
	if entity == nil {
		return nil
	}
	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// implementsMarker 检查类型（值或指针接收者）是否实现标记接口（内部使用）
func implementsMarker(t reflect.Type) bool {
	marker := reflect.TypeOf((*ShardScoped)(nil)).Elem()
	return t.Implements(marker) || reflect.PointerTo(t).Implements(marker)
}

// tableNameOf 解析实体的表名（内部使用）
//
// 实体实现 gorm 的 Tabler 接口时以其为准，否则按 gorm 默认命名
// 策略从类型名推导（蛇形复数，如 Ticket -> tickets）。
func tableNameOf(entity any, t reflect.Type, namer schema.Namer) string {
	if tabler, ok := entity.(schema.Tabler); ok {
		return tabler.TableName()
	}
	// 值类型实体可能以指针接收者实现 Tabler
	if t.Kind() == reflect.Struct {
		v := reflect.New(t)
		if tabler, ok := v.Interface().(schema.Tabler); ok {
			return tabler.TableName()
		}
	}
	return namer.TableName(t.Name())
}
