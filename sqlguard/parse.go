package sqlguard

import (
	"regexp"
	"strings"
)

// stmtKind SQL 语句类型
type stmtKind int

const (
	kindOther stmtKind = iota
	kindSelect
	kindInsert
	kindUpdate
	kindDelete
)

var (
	commentLinePattern  = regexp.MustCompile(`--[^\n]*`)
	commentBlockPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)

	wherePattern  = regexp.MustCompile(`(?i)\bwhere\b`)
	onPattern     = regexp.MustCompile(`(?i)\bon\b`)
	clauseEnd     = regexp.MustCompile(`(?i)\b(?:where|join|inner|left|right|outer|cross|group|order|limit|having|union|returning)\b`)
	whereEnd      = regexp.MustCompile(`(?i)\b(?:group|order|limit|having|union|returning)\b`)
	insertColumns = regexp.MustCompile(`(?is)^insert\s+(?:ignore\s+)?into\s+\S+\s*\(([^)]*)\)`)

	selectTable = regexp.MustCompile(`(?is)\bfrom\s+[\x60"\[]?([a-zA-Z_][a-zA-Z0-9_]*)`)
	insertTable = regexp.MustCompile(`(?is)^insert\s+(?:ignore\s+)?into\s+[\x60"\[]?([a-zA-Z_][a-zA-Z0-9_]*)`)
	updateTable = regexp.MustCompile(`(?is)^update\s+[\x60"\[]?([a-zA-Z_][a-zA-Z0-9_]*)`)
	deleteTable = regexp.MustCompile(`(?is)^delete\s+from\s+[\x60"\[]?([a-zA-Z_][a-zA-Z0-9_]*)`)

	stringLiteral = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)
	numberLiteral = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
)

// normalize 去掉注释与首尾空白（内部使用）
func normalize(sql string) string {
	sql = commentBlockPattern.ReplaceAllString(sql, " ")
	sql = commentLinePattern.ReplaceAllString(sql, " ")
	return strings.TrimSpace(sql)
}

// kindOf 判定语句类型（内部使用）
func kindOf(sql string) stmtKind {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return kindOther
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT":
		return kindSelect
	case "INSERT":
		return kindInsert
	case "UPDATE":
		return kindUpdate
	case "DELETE":
		return kindDelete
	default:
		return kindOther
	}
}

// whereClause 提取 WHERE 子句文本，不存在时返回空串（内部使用）
func whereClause(sql string) string {
	loc := wherePattern.FindStringIndex(sql)
	if loc == nil {
		return ""
	}
	rest := sql[loc[1]:]
	if end := whereEnd.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return rest
}

// onClauses 提取所有 JOIN ON 条件文本（内部使用）
//
// 每段 ON 条件截止到下一个子句关键字，避免后续 JOIN 的表名混入。
func onClauses(sql string) []string {
	var out []string
	for _, loc := range onPattern.FindAllStringIndex(sql, -1) {
		rest := sql[loc[1]:]
		if end := clauseEnd.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}
		out = append(out, rest)
	}
	return out
}

// insertColumnList 提取 INSERT 的列名列表，无显式列表时返回空串（内部使用）
func insertColumnList(sql string) string {
	m := insertColumns.FindStringSubmatch(sql)
	if m == nil {
		return ""
	}
	return m[1]
}

// tableOf 尽力提取语句的目标表名，失败时返回空串（内部使用）
func tableOf(sql string, kind stmtKind) string {
	var m []string
	switch kind {
	case kindSelect:
		m = selectTable.FindStringSubmatch(sql)
	case kindInsert:
		m = insertTable.FindStringSubmatch(sql)
	case kindUpdate:
		m = updateTable.FindStringSubmatch(sql)
	case kindDelete:
		m = deleteTable.FindStringSubmatch(sql)
	}
	if m == nil {
		return ""
	}
	return m[1]
}

// sanitize 脱敏 SQL 中的字面量，用于错误消息与日志（内部使用）
func sanitize(sql string) string {
	sql = stringLiteral.ReplaceAllString(sql, "?")
	sql = numberLiteral.ReplaceAllString(sql, "?")
	return sql
}
