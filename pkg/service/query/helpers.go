/*
 * @Description: 搜索参数归一化
 * @Author: 安知鱼
 * @Date: 2025-06-26 16:57:56
 * @LastEditTime: 2025-10-13 10:27:03
 * @LastEditors: 安知鱼
 */
package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Builder 把原始查询参数转换成归一化的 AnimeQuery，任何非法输入都静默回退到默认值
type Builder struct {
	DefaultLimit int
	MaxLimit     int
}

// NewBuilder 创建参数构造器，非正数的配置回退到内置默认值
func NewBuilder(defaultLimit, maxLimit int) *Builder {
	if maxLimit < 1 {
		maxLimit = MaxLimit
	}
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Builder{DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

// Build 从查询参数中解析搜索条件，永不返回错误
func (b *Builder) Build(query map[string][]string) model.AnimeQuery {
	q := model.AnimeQuery{
		Q:     firstValue(query, "q"),
		Genre: firstValue(query, "genre"),
		Sort:  model.ParseSortKey(firstValue(query, "sort")),
	}
	q.Page, q.Limit = GetPaginationParams(query, b.DefaultLimit, b.MaxLimit)
	return q
}

// GetPaginationParams 解析 page/limit：能解析的数值被夹到合法范围内，无法解析时使用默认值
func GetPaginationParams(query map[string][]string, defaultLimit, maxLimit int) (page, limit int) {
	page, limit = 1, defaultLimit
	if l, ok := parseInt(firstValue(query, "limit")); ok {
		limit = min(maxLimit, max(1, l))
	}
	if p, ok := parseInt(firstValue(query, "page")); ok {
		// (page-1)*limit 必须能放进 int64
		page = min(max(1, p), MaxPage(limit))
	}
	return
}

// MaxPage 给定每页条数时，偏移量与下一页页码都不溢出的最大页码
func MaxPage(limit int) int {
	if limit < 1 {
		limit = 1
	}
	return int(math.MaxInt64/int64(limit)) - 1
}

// ClampLimit 把业务方传入的条数限制在 [1, maxLimit]，非正数回退到 fallback
func ClampLimit(raw string, fallback, maxLimit int) int {
	n, ok := parseInt(raw)
	if !ok || n < 1 {
		return fallback
	}
	return min(n, maxLimit)
}

// ParsePositive 能解析的数值夹到至少为 1，空值或无法解析时回退到 fallback
func ParsePositive(raw string, fallback int) int {
	n, ok := parseInt(strings.TrimSpace(raw))
	if !ok {
		return fallback
	}
	return max(1, n)
}

func firstValue(query map[string][]string, key string) string {
	if values := query[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// parseInt 允许 "2.0" 这类整数值的浮点写法，小数部分直接截断
func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != f {
		return 0, false
	}
	if f > float64(1<<31) {
		return 1 << 31, true
	}
	if f < -float64(1<<31) {
		return -(1 << 31), true
	}
	return int(f), true
}
