/*
 * @Description: 番剧仓储接口
 * @Author: 安知鱼
 * @Date: 2025-10-12 17:41:08
 * @LastEditTime: 2025-10-14 10:20:55
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

// AnimeRepository 定义了番剧数据的持久化操作
type AnimeRepository interface {
	// Find 按查询条件返回一页结果（已应用过滤、排序、跳过、条数与字段投影）
	Find(ctx context.Context, q *model.AnimeQuery) ([]*model.Anime, error)
	// Count 返回满足与 Find 相同过滤条件的总数
	Count(ctx context.Context, q *model.AnimeQuery) (int64, error)
	// FindByTitle 标题模糊匹配，按标题升序
	FindByTitle(ctx context.Context, title string, limit int) ([]*model.Anime, error)
	// FindByID 不存在时返回 constant.ErrNotFound
	FindByID(ctx context.Context, id string) (*model.Anime, error)
	// TopRated 按评分降序
	TopRated(ctx context.Context, limit int) ([]*model.Anime, error)
	// DistinctGenres 返回 genres 字段的去重值（未清洗）
	DistinctGenres(ctx context.Context) ([]string, error)
	// BulkInsert 无序批量写入，返回实际写入条数
	BulkInsert(ctx context.Context, animes []*model.Anime) (int64, error)
	// DeleteBySource 按来源标记批量删除
	DeleteBySource(ctx context.Context, source string) (int64, error)
	Ping(ctx context.Context) error
}
