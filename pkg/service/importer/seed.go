package importer

import (
	"context"
	"fmt"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

func demoAnime(title string, year int, genres []string, typ string, episodes int, score float64) *model.Anime {
	return &model.Anime{
		Title:    title,
		Year:     model.IntPtr(year),
		Genres:   genres,
		Type:     typ,
		Episodes: model.IntPtr(episodes),
		Score:    model.FloatPtr(score),
		Source:   model.SourceDemo,
	}
}

// DemoAnimes 演示数据
func DemoAnimes() []*model.Anime {
	return []*model.Anime{
		demoAnime("-Socket-", 2010, []string{"Comedy"}, "Movie", 1, 6.2),
		demoAnime("......", 2023, []string{"Horror", "Supernatural"}, "Music", 1, 6.53),
		demoAnime(".hack//G.U. Returner", 2007, []string{"Adventure", "Drama", "Fantasy"}, "OVA", 1, 6.65),
		demoAnime(".hack//G.U. Trilogy", 2007, []string{"Adventure", "Drama", "Fantasy"}, "Movie", 1, 7.06),
		demoAnime("Naruto", 2002, []string{"Action", "Adventure"}, "TV", 220, 7.9),
		demoAnime("One Piece", 1999, []string{"Action", "Adventure"}, "TV", 1000, 8.7),
		demoAnime("Death Note", 2006, []string{"Mystery", "Thriller"}, "TV", 37, 8.6),
		demoAnime("Attack on Titan", 2013, []string{"Action", "Thriller"}, "TV", 87, 9.0),
		demoAnime("Fullmetal Alchemist: Brotherhood", 2009, []string{"Action", "Adventure"}, "TV", 64, 9.1),
		demoAnime("Your Name", 2016, []string{"Drama", "Romance"}, "Movie", 1, 8.8),
	}
}

// SeedDemo 删除旧的演示数据后重新写入，可重复执行
func (s *ImportService) SeedDemo(ctx context.Context) (int64, error) {
	if _, err := s.repo.DeleteBySource(ctx, model.SourceDemo); err != nil {
		return 0, fmt.Errorf("清理演示数据失败: %w", err)
	}
	inserted, err := s.repo.BulkInsert(ctx, DemoAnimes())
	if err != nil {
		return inserted, fmt.Errorf("写入演示数据失败: %w", err)
	}
	return inserted, nil
}
