/*
 * @Description: 番剧查询处理器（数据服务）
 * @Author: 安知鱼
 * @Date: 2025-10-14 13:20:02
 * @LastEditTime: 2025-10-16 10:48:37
 * @LastEditors: 安知鱼
 */
package anime

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/response"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/query"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/search"
)

type Handler struct {
	searchService search.Service
	builder       *query.Builder
}

func NewHandler(searchService search.Service, builder *query.Builder) *Handler {
	return &Handler{
		searchService: searchService,
		builder:       builder,
	}
}

// List 分页搜索
// @Summary      番剧分页搜索
// @Description  按标题关键字与类型过滤，支持排序与分页；非法参数静默回退到默认值
// @Tags         番剧
// @Produce      json
// @Param        q      query  string  false  "标题关键字（不区分大小写）"
// @Param        genre  query  string  false  "类型"
// @Param        sort   query  string  false  "title_asc | title_desc | year_asc | year_desc"
// @Param        page   query  int     false  "页码"  default(1)
// @Param        limit  query  int     false  "每页数量，最大50"  default(10)
// @Success      200  {object}  object  "搜索结果"
// @Failure      503  {object}  response.ErrorBody  "数据存储不可用"
// @Router       /animes [get]
func (h *Handler) List(c *gin.Context) {
	q := h.builder.Build(c.Request.URL.Query())

	result, err := h.searchService.Search(c.Request.Context(), q)
	if err != nil {
		log.Printf("分页搜索失败: %v", err)
		response.FailWithError(c, err, "Failed to fetch animes")
		return
	}

	response.Success(c, gin.H{
		"q":          q.Q,
		"genre":      q.Genre,
		"sort":       q.Sort,
		"page":       q.Page,
		"limit":      q.Limit,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"results":    result.Results,
	})
}

// Search 标题快速搜索
// @Summary      标题快速搜索
// @Tags         番剧
// @Produce      json
// @Param        q  query  string  true  "标题关键字"
// @Success      200  {object}  object  "搜索结果"
// @Failure      400  {object}  response.ErrorBody  "缺少 q 参数"
// @Router       /animes/search [get]
func (h *Handler) Search(c *gin.Context) {
	q := c.Query("q")
	animes, err := h.searchService.SearchByTitle(c.Request.Context(), q, search.TitleSearchLimit)
	if err != nil {
		response.FailWithError(c, err, "Search failed")
		return
	}
	response.Success(c, gin.H{"q": q, "count": len(animes), "results": animes})
}

// SearchByTitle 与 Search 相同，参数名为 title
// @Summary      按标题搜索
// @Tags         番剧
// @Produce      json
// @Param        title  query  string  true  "标题关键字"
// @Success      200  {object}  object  "搜索结果"
// @Failure      400  {object}  response.ErrorBody  "缺少 title 参数"
// @Router       /api/anime/search [get]
func (h *Handler) SearchByTitle(c *gin.Context) {
	title := c.Query("title")
	animes, err := h.searchService.SearchByTitle(c.Request.Context(), title, search.TitleSearchLimit)
	if err != nil {
		response.FailWithError(c, err, "Search failed")
		return
	}
	response.Success(c, gin.H{"title": title, "count": len(animes), "results": animes})
}

// Genres 类型列表
// @Summary      类型列表
// @Description  去重、去空白并按字典序排序
// @Tags         番剧
// @Produce      json
// @Success      200  {object}  object{ok=bool,count=int,genres=[]string}  "类型列表"
// @Failure      503  {object}  response.ErrorBody  "数据存储不可用"
// @Router       /genres [get]
func (h *Handler) Genres(c *gin.Context) {
	genres, err := h.searchService.Genres(c.Request.Context())
	if err != nil {
		log.Printf("读取类型列表失败: %v", err)
		response.FailWithError(c, err, "Failed to fetch genres")
		return
	}
	response.Success(c, gin.H{"count": len(genres), "genres": genres})
}

// Detail 番剧详情
// @Summary      番剧详情
// @Tags         番剧
// @Produce      json
// @Param        id  path  string  true  "番剧ID"
// @Success      200  {object}  model.Anime  "番剧详情"
// @Failure      404  {object}  response.ErrorBody  "番剧不存在"
// @Router       /api/anime/{id} [get]
func (h *Handler) Detail(c *gin.Context) {
	anime, err := h.searchService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FailWithError(c, err, "Anime not found")
		return
	}
	c.JSON(http.StatusOK, anime)
}

// TopRated 高分榜
// @Summary      高分榜
// @Tags         番剧
// @Produce      json
// @Param        limit  query  int  false  "条数，最大50"  default(12)
// @Success      200  {object}  object  "高分榜"
// @Router       /api/anime/top-rated [get]
func (h *Handler) TopRated(c *gin.Context) {
	limit := query.ClampLimit(c.Query("limit"), search.DefaultTopRatedLimit, h.builder.MaxLimit)
	animes, err := h.searchService.TopRated(c.Request.Context(), limit)
	if err != nil {
		response.FailWithError(c, err, "Failed to fetch top rated animes")
		return
	}
	response.Success(c, gin.H{"count": len(animes), "results": animes})
}

// Count 番剧总数
// @Summary      番剧总数
// @Tags         番剧
// @Produce      json
// @Success      200  {object}  object{ok=bool,count=int}  "总数"
// @Router       /api/anime/count [get]
func (h *Handler) Count(c *gin.Context) {
	total, err := h.searchService.Count(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err, "Failed to count animes")
		return
	}
	response.Success(c, gin.H{"count": total})
}

// NotFound 未匹配的路由
func NotFound(c *gin.Context) {
	response.Fail(c, http.StatusNotFound, constant.CodeNotFound, "Not found", c.Request.URL.Path)
}
