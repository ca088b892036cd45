package rating

import (
	"context"
	"fmt"
	"strings"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/repository"
)

// Service 评分查询服务
type Service interface {
	ForAnime(ctx context.Context, animeID string) (*model.RatingSummary, error)
	ForUser(ctx context.Context, userID string) (*model.RatingSummary, error)
}

type ratingService struct {
	repo repository.RatingRepository
}

func NewRatingService(repo repository.RatingRepository) Service {
	return &ratingService{repo: repo}
}

func (s *ratingService) ForAnime(ctx context.Context, animeID string) (*model.RatingSummary, error) {
	animeID = strings.TrimSpace(animeID)
	if animeID == "" {
		return nil, fmt.Errorf("缺少番剧ID: %w", constant.ErrBadRequest)
	}
	ratings, err := s.repo.ListByAnime(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("读取番剧评分失败: %w: %w", constant.ErrServiceUnavailable, err)
	}
	summary := summarize(ratings)
	summary.AnimeID = animeID
	return summary, nil
}

func (s *ratingService) ForUser(ctx context.Context, userID string) (*model.RatingSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("缺少用户ID: %w", constant.ErrBadRequest)
	}
	ratings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("读取用户评分失败: %w: %w", constant.ErrServiceUnavailable, err)
	}
	summary := summarize(ratings)
	summary.UserID = userID
	return summary, nil
}

func summarize(ratings []*model.Rating) *model.RatingSummary {
	if ratings == nil {
		ratings = []*model.Rating{}
	}
	avg, total := model.Summarize(ratings)
	return &model.RatingSummary{AverageRating: avg, TotalRatings: total, Ratings: ratings}
}
