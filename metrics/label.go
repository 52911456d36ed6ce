package metrics

import (
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Label 指标标签，为指标添加维度信息
//
// 标签命名建议：
//   - 使用小写字母和下划线：shard_id 而不是 shardId
//   - 避免高基数标签，如租户 ID、请求 ID
type Label struct {
	Key   string
	Value string
}

// L 便捷构造函数，创建一个 Label 实例
//
//	counter.Inc(ctx, metrics.L("shard_id", "s1"))
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// toAttributes 将 Label 列表转换为 OTel 属性列表（内部使用）
func toAttributes(labels []Label) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for _, l := range labels {
		attrs = append(attrs, attribute.String(l.Key, l.Value))
	}
	return attrs
}

// labelKey 生成标签组合的稳定键，用于 gauge 本地值跟踪（内部使用）
func labelKey(labels []Label) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, l.Key+"="+l.Value)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
