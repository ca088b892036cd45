/*
 * @Description: 番剧领域模型
 * @Author: 安知鱼
 * @Date: 2025-10-12 17:20:31
 * @LastEditTime: 2025-10-14 10:02:19
 * @LastEditors: 安知鱼
 */
package model

// 记录来源标记，用于按来源批量删除
const (
	SourceDemo   = "demo"
	SourceImport = "import"
	SourceCLI    = "csv"
)

// Anime 单条番剧元数据
type Anime struct {
	// ID 仅在按 ID 查询、高分榜等接口中输出，分页搜索结果不包含
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Year     *int     `json:"year,omitempty"`
	Genres   []string `json:"genres"`
	Type     string   `json:"type,omitempty"`
	Episodes *int     `json:"episodes,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Source   string   `json:"-"`
}

// ImportResult 一次批量导入的统计结果
type ImportResult struct {
	Scanned       int   `json:"scannedRows"`
	Inserted      int   `json:"inserted"`
	Written       int64 `json:"written"`
	FailedBatches int   `json:"failedBatches"`
}

// IntPtr 返回 v 的指针
func IntPtr(v int) *int { return &v }

// FloatPtr 返回 v 的指针
func FloatPtr(v float64) *float64 { return &v }
