package repository

import (
	"context"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

// RatingRepository 定义了评分数据的读取操作
type RatingRepository interface {
	ListByAnime(ctx context.Context, animeID string) ([]*model.Rating, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Rating, error)
}
