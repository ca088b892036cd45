/*
 * @Description: 搜索相关的数据模型
 * @Author: 安知鱼
 * @Date: 2025-01-27 10:00:00
 * @LastEditTime: 2025-10-14 10:15:40
 * @LastEditors: 安知鱼
 */
package model

import "math"

// SortKey 搜索排序方式
type SortKey string

const (
	SortTitleAsc  SortKey = "title_asc"
	SortTitleDesc SortKey = "title_desc"
	SortYearAsc   SortKey = "year_asc"
	SortYearDesc  SortKey = "year_desc"
)

// ParseSortKey 解析排序方式，无法识别时回退到 title_asc
func ParseSortKey(raw string) SortKey {
	switch key := SortKey(raw); key {
	case SortTitleAsc, SortTitleDesc, SortYearAsc, SortYearDesc:
		return key
	default:
		return SortTitleAsc
	}
}

// AnimeQuery 归一化之后的搜索条件
type AnimeQuery struct {
	Q     string  `json:"q"`
	Genre string  `json:"genre"`
	Sort  SortKey `json:"sort"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// Skip 当前页之前需要跳过的记录数
func (q AnimeQuery) Skip() int64 {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	pages, limit := int64(q.Page-1), int64(q.Limit)
	if pages > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return pages * limit
}

// SearchResult 一页搜索结果
type SearchResult struct {
	Query      AnimeQuery `json:"-"`
	Results    []*Anime   `json:"results"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"totalPages"`
}

// TotalPages 计算总页数，total 为 0 时仍返回 1
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		limit = 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		return 1
	}
	return pages
}

// BrowseView 首页/搜索页渲染所需的分页视图
type BrowseView struct {
	Results    []*Anime
	Genres     []string
	Query      AnimeQuery
	Total      int64
	TotalPages int
	From       int64
	To         int64
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// NewBrowseView 根据一页搜索结果计算展示区间与翻页信息
func NewBrowseView(result *SearchResult, genres []string) *BrowseView {
	view := &BrowseView{
		Results:    result.Results,
		Genres:     genres,
		Query:      result.Query,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}
	if view.Results == nil {
		view.Results = []*Anime{}
	}
	if view.TotalPages < 1 {
		view.TotalPages = 1
	}
	page := view.Query.Page
	if page < 1 {
		page = 1
	}
	if skip := result.Query.Skip(); result.Total > 0 && skip < math.MaxInt64 {
		view.From = skip + 1
		view.To = skip + int64(len(view.Results))
	}
	view.HasPrev = page > 1
	view.HasNext = page < view.TotalPages
	view.PrevPage = page - 1
	view.NextPage = page + 1
	return view
}
