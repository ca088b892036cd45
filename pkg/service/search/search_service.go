/*
 * @Description: 番剧分页搜索服务
 * @Author: 安知鱼
 * @Date: 2025-01-27 10:00:00
 * @LastEditTime: 2025-10-15 14:06:51
 * @LastEditors: 安知鱼
 */
package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/repository"
)

const (
	// TitleSearchLimit 标题快速搜索返回的最大条数
	TitleSearchLimit = 20
	// DefaultTopRatedLimit 高分榜默认条数
	DefaultTopRatedLimit = 12
)

// Service 定义了番剧查询相关的业务操作
type Service interface {
	Search(ctx context.Context, q model.AnimeQuery) (*model.SearchResult, error)
	SearchByTitle(ctx context.Context, title string, limit int) ([]*model.Anime, error)
	Genres(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*model.Anime, error)
	TopRated(ctx context.Context, limit int) ([]*model.Anime, error)
	Count(ctx context.Context) (int64, error)
}

type searchService struct {
	repo repository.AnimeRepository
}

// NewSearchService 创建搜索服务实例
func NewSearchService(repo repository.AnimeRepository) Service {
	return &searchService{repo: repo}
}

// Search 并发执行计数与分页查询，两者使用同一组过滤条件
func (s *searchService) Search(ctx context.Context, q model.AnimeQuery) (*model.SearchResult, error) {
	var (
		total   int64
		results []*model.Anime
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.Count(gctx, &q)
		if err != nil {
			return err
		}
		total = n
		return nil
	})
	g.Go(func() error {
		page, err := s.repo.Find(gctx, &q)
		if err != nil {
			return err
		}
		results = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, unavailable("分页查询", err)
	}

	if results == nil {
		results = []*model.Anime{}
	}
	return &model.SearchResult{
		Query:      q,
		Results:    results,
		Total:      total,
		TotalPages: model.TotalPages(total, q.Limit),
	}, nil
}

func (s *searchService) SearchByTitle(ctx context.Context, title string, limit int) ([]*model.Anime, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("缺少搜索关键字: %w", constant.ErrBadRequest)
	}
	if limit < 1 || limit > TitleSearchLimit {
		limit = TitleSearchLimit
	}
	animes, err := s.repo.FindByTitle(ctx, title, limit)
	if err != nil {
		return nil, unavailable("标题搜索", err)
	}
	return animes, nil
}

// Genres 返回清洗后的类型列表：去除首尾空白、丢弃空值、去重并按字典序排序
func (s *searchService) Genres(ctx context.Context) ([]string, error) {
	raw, err := s.repo.DistinctGenres(ctx)
	if err != nil {
		return nil, unavailable("读取类型", err)
	}
	return CleanGenres(raw), nil
}

func (s *searchService) GetByID(ctx context.Context, id string) (*model.Anime, error) {
	anime, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			return nil, err
		}
		return nil, unavailable("查询番剧", err)
	}
	return anime, nil
}

func (s *searchService) TopRated(ctx context.Context, limit int) ([]*model.Anime, error) {
	if limit < 1 {
		limit = DefaultTopRatedLimit
	}
	animes, err := s.repo.TopRated(ctx, limit)
	if err != nil {
		return nil, unavailable("读取高分榜", err)
	}
	return animes, nil
}

func (s *searchService) Count(ctx context.Context) (int64, error) {
	total, err := s.repo.Count(ctx, &model.AnimeQuery{})
	if err != nil {
		return 0, unavailable("统计总数", err)
	}
	return total, nil
}

// CleanGenres 去除首尾空白、丢弃空值、去重并排序
func CleanGenres(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	genres := make([]string, 0, len(raw))
	for _, g := range raw {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}
	slices.Sort(genres)
	return genres
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s失败: %w: %w", op, constant.ErrServiceUnavailable, err)
}
