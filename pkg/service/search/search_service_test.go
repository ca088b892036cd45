package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/query"
)

// memoryRepo 在内存中模拟仓储的过滤、排序与分页
type memoryRepo struct {
	mu      sync.Mutex
	animes  []*model.Anime
	genres  []string
	err     error
	findErr error
	calls   []string
}

func (m *memoryRepo) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *memoryRepo) match(q *model.AnimeQuery) []*model.Anime {
	var out []*model.Anime
	for _, a := range m.animes {
		if q.Q != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(q.Q)) {
			continue
		}
		if q.Genre != "" && !contains(a.Genres, q.Genre) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		switch q.Sort {
		case model.SortTitleDesc:
			return out[i].Title > out[j].Title
		case model.SortYearAsc, model.SortYearDesc:
			yi, yj := yearOf(out[i]), yearOf(out[j])
			if yi != yj {
				if q.Sort == model.SortYearAsc {
					return yi < yj
				}
				return yi > yj
			}
			return out[i].Title < out[j].Title
		default:
			return out[i].Title < out[j].Title
		}
	})
	return out
}

func (m *memoryRepo) Find(ctx context.Context, q *model.AnimeQuery) ([]*model.Anime, error) {
	m.record("find")
	if m.err != nil {
		return nil, m.err
	}
	if m.findErr != nil {
		return nil, m.findErr
	}
	if q.Skip() < 0 {
		return nil, fmt.Errorf("invalid skip %d", q.Skip())
	}
	all := m.match(q)
	if q.Skip() >= int64(len(all)) {
		return []*model.Anime{}, nil
	}
	start := int(q.Skip())
	if start >= len(all) {
		return []*model.Anime{}, nil
	}
	end := min(start+q.Limit, len(all))
	return all[start:end], nil
}

func (m *memoryRepo) Count(ctx context.Context, q *model.AnimeQuery) (int64, error) {
	m.record("count")
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.match(q))), nil
}

func (m *memoryRepo) FindByTitle(ctx context.Context, title string, limit int) ([]*model.Anime, error) {
	if m.err != nil {
		return nil, m.err
	}
	all := m.match(&model.AnimeQuery{Q: title})
	return all[:min(limit, len(all))], nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id string) (*model.Anime, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.animes {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, constant.ErrNotFound
}

func (m *memoryRepo) TopRated(ctx context.Context, limit int) ([]*model.Anime, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.animes[:min(limit, len(m.animes))], nil
}

func (m *memoryRepo) DistinctGenres(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.genres, nil
}

func (m *memoryRepo) BulkInsert(ctx context.Context, animes []*model.Anime) (int64, error) {
	m.animes = append(m.animes, animes...)
	return int64(len(animes)), nil
}

func (m *memoryRepo) DeleteBySource(ctx context.Context, source string) (int64, error) {
	return 0, nil
}

func (m *memoryRepo) Ping(ctx context.Context) error { return m.err }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func yearOf(a *model.Anime) int {
	if a.Year == nil {
		return 0
	}
	return *a.Year
}

func sampleAnimes() []*model.Anime {
	return []*model.Anime{
		{ID: "1", Title: "Naruto", Year: model.IntPtr(2002), Genres: []string{"Action", "Adventure"}},
		{ID: "2", Title: "Death Note", Year: model.IntPtr(2006), Genres: []string{"Mystery"}},
		{ID: "3", Title: "Attack on Titan", Year: model.IntPtr(2013), Genres: []string{"Action", "Drama"}},
		{ID: "4", Title: "Berserk", Year: model.IntPtr(2013), Genres: []string{"Action"}},
	}
}

func TestSearchReturnsPageAndTotals(t *testing.T) {
	repo := &memoryRepo{animes: sampleAnimes()}
	svc := NewSearchService(repo)

	res, err := svc.Search(context.Background(), model.AnimeQuery{Genre: "Action", Sort: model.SortYearDesc, Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), res.Total)
	require.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Results, 2)
	require.Equal(t, "Attack on Titan", res.Results[0].Title)
	require.Equal(t, "Berserk", res.Results[1].Title)
	require.ElementsMatch(t, []string{"count", "find"}, repo.calls)
}

func TestSearchEmptyStore(t *testing.T) {
	svc := NewSearchService(&memoryRepo{})

	res, err := svc.Search(context.Background(), model.AnimeQuery{Sort: model.SortTitleAsc, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Zero(t, res.Total)
	require.Equal(t, 1, res.TotalPages)
	require.NotNil(t, res.Results)
	require.Empty(t, res.Results)
}

func TestSearchPageBeyondTotal(t *testing.T) {
	svc := NewSearchService(&memoryRepo{animes: sampleAnimes()})

	res, err := svc.Search(context.Background(), model.AnimeQuery{Sort: model.SortTitleAsc, Page: 9, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(4), res.Total)
	require.Empty(t, res.Results)
}

func TestSearchHugePageIsEmpty(t *testing.T) {
	svc := NewSearchService(&memoryRepo{animes: sampleAnimes()})
	q := query.NewBuilder(10, 50).Build(map[string][]string{"page": {"1000000000000000000"}, "limit": {"10"}})

	res, err := svc.Search(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, int64(4), res.Total)
	require.Empty(t, res.Results)
	require.GreaterOrEqual(t, q.Skip(), int64(0))

	view := model.NewBrowseView(res, nil)
	require.Positive(t, view.From)
	require.False(t, view.HasNext)
}

func TestSearchStoreFailure(t *testing.T) {
	svc := NewSearchService(&memoryRepo{findErr: errors.New("connection reset")})

	_, err := svc.Search(context.Background(), model.AnimeQuery{Sort: model.SortTitleAsc, Page: 1, Limit: 10})
	require.ErrorIs(t, err, constant.ErrServiceUnavailable)
}

func TestGenresAreCleaned(t *testing.T) {
	svc := NewSearchService(&memoryRepo{genres: []string{" Drama", "Action", "", "Drama ", "  ", "Comedy"}})

	genres, err := svc.Genres(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Action", "Comedy", "Drama"}, genres)
}

func TestGenresStoreFailure(t *testing.T) {
	svc := NewSearchService(&memoryRepo{err: errors.New("timeout")})

	_, err := svc.Genres(context.Background())
	require.ErrorIs(t, err, constant.ErrServiceUnavailable)
}

func TestSearchByTitle(t *testing.T) {
	svc := NewSearchService(&memoryRepo{animes: sampleAnimes()})

	_, err := svc.SearchByTitle(context.Background(), "   ", 0)
	require.ErrorIs(t, err, constant.ErrBadRequest)

	animes, err := svc.SearchByTitle(context.Background(), "NOTE", 0)
	require.NoError(t, err)
	require.Len(t, animes, 1)
	require.Equal(t, "Death Note", animes[0].Title)
}

func TestGetByIDKeepsNotFound(t *testing.T) {
	svc := NewSearchService(&memoryRepo{animes: sampleAnimes()})

	_, err := svc.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, constant.ErrNotFound)
	require.NotErrorIs(t, err, constant.ErrServiceUnavailable)

	anime, err := svc.GetByID(context.Background(), " 2 ")
	require.NoError(t, err)
	require.Equal(t, "Death Note", anime.Title)
}

func TestSearchProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genres := []string{"Action", "Drama", "Comedy"}

	// masks 中每个元素代表一部番剧，二进制位决定它属于哪些类型
	properties.Property("结果条数不超过 limit 且总页数 = max(1, ceil(total/limit))", prop.ForAll(
		func(masks []int, page, limit, genreIdx int) bool {
			repo := &memoryRepo{}
			for i, mask := range masks {
				anime := &model.Anime{Title: fmt.Sprintf("T%04d", i), Year: model.IntPtr(2000 + i%5), Genres: []string{}}
				for bit, g := range genres {
					if mask&(1<<bit) != 0 {
						anime.Genres = append(anime.Genres, g)
					}
				}
				repo.animes = append(repo.animes, anime)
			}
			q := model.AnimeQuery{Genre: genres[genreIdx], Sort: model.SortYearAsc, Page: page, Limit: limit}
			res, err := NewSearchService(repo).Search(context.Background(), q)
			if err != nil {
				return false
			}
			want := int((res.Total + int64(limit) - 1) / int64(limit))
			if want < 1 {
				want = 1
			}
			if len(res.Results) > limit || res.TotalPages != want {
				return false
			}
			for i, a := range res.Results {
				if !contains(a.Genres, q.Genre) {
					return false
				}
				if i > 0 && yearOf(res.Results[i-1]) > yearOf(a) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 7)),
		gen.IntRange(1, 5),
		gen.IntRange(1, 50),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
