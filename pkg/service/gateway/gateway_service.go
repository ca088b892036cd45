/*
 * @Description: 主服务聚合层：并发调用数据服务与评分服务，合并结果并映射错误
 * @Author: 安知鱼
 * @Date: 2025-10-14 10:05:33
 * @LastEditTime: 2025-10-16 09:40:18
 * @LastEditors: 安知鱼
 */
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anzhiyu-c/anime-explorer/internal/pkg/upstream"
	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultHealthTimeout = 5 * time.Second
)

// 后端名称，出现在健康检查结果中
const (
	BackendData    = "dataServer"
	BackendRatings = "ratingsServer"
)

// Options 后端地址与超时配置
type Options struct {
	DataURL       string
	RatingsURL    string
	Timeout       time.Duration
	HealthTimeout time.Duration
}

// Backend 参与健康检查的后端
type Backend struct {
	Name      string
	HealthURL string
}

// Service 聚合层业务
type Service struct {
	client   upstream.Client
	opts     Options
	backends []Backend
}

func NewGatewayService(client upstream.Client, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = DefaultHealthTimeout
	}
	opts.DataURL = strings.TrimRight(opts.DataURL, "/")
	opts.RatingsURL = strings.TrimRight(opts.RatingsURL, "/")
	if opts.RatingsURL == "" {
		opts.RatingsURL = opts.DataURL
	}
	return &Service{
		client: client,
		opts:   opts,
		backends: []Backend{
			{Name: BackendData, HealthURL: opts.DataURL + "/health"},
			{Name: BackendRatings, HealthURL: opts.RatingsURL + "/health"},
		},
	}
}

// Backends 返回参与健康检查的后端列表
func (s *Service) Backends() []Backend {
	return s.backends
}

// AnimeDetail 并发获取番剧详情与评分，两者都成功才返回；
// 评分结果嵌套在详情的 ratings 字段下。任一失败时返回最先失败的那个错误。
func (s *Service) AnimeDetail(ctx context.Context, id string) (map[string]any, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("缺少番剧ID: %w", constant.ErrBadRequest)
	}
	escaped := url.PathEscape(id)

	var (
		details map[string]any
		ratings any
	)
	var g errgroup.Group
	g.Go(func() error {
		return s.getJSON(ctx, s.opts.DataURL+"/api/anime/"+escaped, nil, s.opts.Timeout, &details)
	})
	g.Go(func() error {
		return s.getJSON(ctx, s.opts.RatingsURL+"/api/ratings/anime/"+escaped, nil, s.opts.Timeout, &ratings)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if details == nil {
		details = map[string]any{}
	}
	details["ratings"] = ratings
	return details, nil
}

// Health 并发探测所有后端，各自的结果互不影响，永不返回错误
func (s *Service) Health(ctx context.Context) *model.GatewayHealth {
	health := &model.GatewayHealth{
		Status:     "ok",
		MainServer: model.BackendHealthy,
		Backends:   make(map[string]string, len(s.backends)),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, b := range s.backends {
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			status := model.BackendHealthy
			if _, err := s.client.Get(ctx, b.HealthURL, upstream.RequestOptions{Timeout: s.opts.HealthTimeout}); err != nil {
				status = model.BackendUnreachable
				log.Printf("⚠️ 后端 %s 健康检查失败: %v", b.Name, err)
			}
			mu.Lock()
			health.Backends[b.Name] = status
			mu.Unlock()
		}(b)
	}
	wg.Wait()

	if !health.AllHealthy() {
		health.Status = "degraded"
	}
	return health
}

// SearchByTitle 转发标题搜索，title 为空时返回 ErrBadRequest
func (s *Service) SearchByTitle(ctx context.Context, title string) (json.RawMessage, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("缺少 title 参数: %w", constant.ErrBadRequest)
	}
	return s.raw(ctx, s.opts.DataURL+"/api/anime/search", url.Values{"title": {title}})
}

// TopRated 转发高分榜
func (s *Service) TopRated(ctx context.Context, limit string) (json.RawMessage, error) {
	var params url.Values
	if limit = strings.TrimSpace(limit); limit != "" {
		params = url.Values{"limit": {limit}}
	}
	return s.raw(ctx, s.opts.DataURL+"/api/anime/top-rated", params)
}

// UserRatings 转发用户评分
func (s *Service) UserRatings(ctx context.Context, userID string) (json.RawMessage, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("缺少用户ID: %w", constant.ErrBadRequest)
	}
	return s.raw(ctx, s.opts.RatingsURL+"/api/ratings/user/"+url.PathEscape(userID), nil)
}

// Animes 转发分页搜索，参数原样传递，由数据服务负责归一化
func (s *Service) Animes(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return s.raw(ctx, s.opts.DataURL+"/animes", pick(params, "q", "genre", "sort", "page", "limit"))
}

// Genres 获取类型列表
func (s *Service) Genres(ctx context.Context) ([]string, error) {
	var payload struct {
		Genres []string `json:"genres"`
	}
	if err := s.getJSON(ctx, s.opts.DataURL+"/genres", nil, s.opts.Timeout, &payload); err != nil {
		return nil, err
	}
	if payload.Genres == nil {
		payload.Genres = []string{}
	}
	return payload.Genres, nil
}

// searchPayload 数据服务 /animes 的响应
type searchPayload struct {
	Q          string         `json:"q"`
	Genre      string         `json:"genre"`
	Sort       string         `json:"sort"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
	Results    []*model.Anime `json:"results"`
}

// SearchPage 为搜索页并发获取一页结果与类型列表。
// 失败时返回的视图仍然可用：结果为空，类型列表单独再取一次以保证下拉框可用。
func (s *Service) SearchPage(ctx context.Context, params url.Values) (*model.BrowseView, error) {
	var (
		page   searchPayload
		genres []string
	)
	var g errgroup.Group
	g.Go(func() error {
		return s.getJSON(ctx, s.opts.DataURL+"/animes", pick(params, "q", "genre", "sort", "page", "limit"), s.opts.Timeout, &page)
	})
	g.Go(func() error {
		var err error
		genres, err = s.Genres(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		fallback, genresErr := s.Genres(ctx)
		if genresErr != nil {
			fallback = []string{}
		}
		view := model.NewBrowseView(&model.SearchResult{Query: echoQuery(params)}, fallback)
		return view, err
	}

	result := &model.SearchResult{
		Query: model.AnimeQuery{
			Q:     page.Q,
			Genre: page.Genre,
			Sort:  model.ParseSortKey(page.Sort),
			Page:  page.Page,
			Limit: page.Limit,
		},
		Results:    page.Results,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
	return model.NewBrowseView(result, genres), nil
}

// HomePage 首页只需要类型列表
func (s *Service) HomePage(ctx context.Context) (*model.BrowseView, error) {
	genres, err := s.Genres(ctx)
	if err != nil {
		genres = []string{}
	}
	return model.NewBrowseView(&model.SearchResult{Query: model.AnimeQuery{Sort: model.SortTitleAsc, Page: 1}}, genres), err
}

func (s *Service) raw(ctx context.Context, rawURL string, params url.Values) (json.RawMessage, error) {
	resp, err := s.client.Get(ctx, rawURL, upstream.RequestOptions{Params: params, Timeout: s.opts.Timeout})
	if err != nil {
		return nil, err
	}
	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("后端 %s 返回了无效的 JSON", rawURL)
	}
	return resp.Body, nil
}

func (s *Service) getJSON(ctx context.Context, rawURL string, params url.Values, timeout time.Duration, v any) error {
	resp, err := s.client.Get(ctx, rawURL, upstream.RequestOptions{Params: params, Timeout: timeout})
	if err != nil {
		return err
	}
	return resp.Decode(v)
}

// pick 只保留白名单中的非空参数
func pick(params url.Values, keys ...string) url.Values {
	out := url.Values{}
	for _, key := range keys {
		if v := strings.TrimSpace(params.Get(key)); v != "" {
			out.Set(key, v)
		}
	}
	return out
}

// echoQuery 后端不可用时，用原始参数回显表单
func echoQuery(params url.Values) model.AnimeQuery {
	return model.AnimeQuery{
		Q:     strings.TrimSpace(params.Get("q")),
		Genre: strings.TrimSpace(params.Get("genre")),
		Sort:  model.ParseSortKey(strings.TrimSpace(params.Get("sort"))),
		Page:  1,
	}
}
