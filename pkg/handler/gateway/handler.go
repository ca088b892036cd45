/*
 * @Description: 主服务 JSON 接口，转发到数据服务与评分服务
 * @Author: 安知鱼
 * @Date: 2025-10-14 15:11:09
 * @LastEditTime: 2025-10-16 12:20:47
 * @LastEditors: 安知鱼
 */
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anime-explorer/internal/pkg/upstream"
	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/response"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/gateway"
)

const upstreamFailureMessage = "后端服务暂时不可用，请稍后再试"

type Handler struct {
	gatewayService *gateway.Service
}

func NewHandler(gatewayService *gateway.Service) *Handler {
	return &Handler{gatewayService: gatewayService}
}

// detached 客户端断开后，已经发出的后端请求继续执行到各自的超时
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// failUpstream 将聚合层错误写回客户端：收到后端响应时沿用其状态码，否则返回 500
func failUpstream(c *gin.Context, err error, errMsg string) {
	if errors.Is(err, constant.ErrBadRequest) {
		response.Fail(c, http.StatusBadRequest, constant.CodeBadRequest, errMsg, err.Error())
		return
	}
	log.Printf("转发请求 %s 失败: %v", c.Request.URL.Path, err)
	status := upstream.StatusCode(err)
	if status > 0 && status < http.StatusInternalServerError {
		response.Fail(c, status, constant.CodeUpstreamError, errMsg, err.Error())
		return
	}
	// 5xx 不向客户端暴露后端地址等内部信息
	if status > 0 {
		response.Fail(c, status, constant.CodeUpstreamError, errMsg, upstreamFailureMessage)
		return
	}
	response.Fail(c, http.StatusInternalServerError, constant.CodeUpstreamUnavailable, errMsg, upstreamFailureMessage)
}

func writeRaw(c *gin.Context, body json.RawMessage) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Health 聚合健康检查
// @Summary      聚合健康检查
// @Description  并发探测所有后端，单个后端不可达不影响其他结果，始终返回 200
// @Tags         主服务
// @Produce      json
// @Success      200  {object}  model.GatewayHealth  "健康状态"
// @Router       /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.gatewayService.Health(detached(c)))
}

// AnimeDetail 番剧详情（含评分）
// @Summary      番剧详情（含评分）
// @Description  并发获取详情与评分，评分嵌套在 ratings 字段下；任一失败则整体失败
// @Tags         主服务
// @Produce      json
// @Param        id  path  string  true  "番剧ID"
// @Success      200  {object}  object  "番剧详情"
// @Failure      404  {object}  response.ErrorBody  "后端返回 404"
// @Failure      500  {object}  response.ErrorBody  "后端不可达"
// @Router       /api/anime/{id} [get]
func (h *Handler) AnimeDetail(c *gin.Context) {
	details, err := h.gatewayService.AnimeDetail(detached(c), c.Param("id"))
	if err != nil {
		failUpstream(c, err, "Failed to fetch anime details")
		return
	}
	c.JSON(http.StatusOK, details)
}

// SearchByTitle 按标题搜索
// @Summary      按标题搜索
// @Tags         主服务
// @Produce      json
// @Param        title  query  string  true  "标题关键字"
// @Success      200  {object}  object  "搜索结果"
// @Failure      400  {object}  response.ErrorBody  "缺少 title 参数"
// @Router       /api/anime/search [get]
func (h *Handler) SearchByTitle(c *gin.Context) {
	body, err := h.gatewayService.SearchByTitle(detached(c), c.Query("title"))
	if err != nil {
		failUpstream(c, err, "Failed to search animes")
		return
	}
	writeRaw(c, body)
}

// TopRated 高分榜
// @Summary      高分榜
// @Tags         主服务
// @Produce      json
// @Param        limit  query  int  false  "条数"
// @Success      200  {object}  object  "高分榜"
// @Router       /api/anime/top-rated [get]
func (h *Handler) TopRated(c *gin.Context) {
	body, err := h.gatewayService.TopRated(detached(c), c.Query("limit"))
	if err != nil {
		failUpstream(c, err, "Failed to fetch top rated animes")
		return
	}
	writeRaw(c, body)
}

// UserRatings 用户评分
// @Summary      用户评分
// @Tags         主服务
// @Produce      json
// @Param        userId  path  string  true  "用户ID"
// @Success      200  {object}  object  "评分汇总"
// @Router       /api/ratings/user/{userId} [get]
func (h *Handler) UserRatings(c *gin.Context) {
	body, err := h.gatewayService.UserRatings(detached(c), c.Param("userId"))
	if err != nil {
		failUpstream(c, err, "Failed to fetch user ratings")
		return
	}
	writeRaw(c, body)
}

// Animes 分页搜索
// @Summary      分页搜索
// @Tags         主服务
// @Produce      json
// @Param        q      query  string  false  "标题关键字"
// @Param        genre  query  string  false  "类型"
// @Param        sort   query  string  false  "排序"
// @Param        page   query  int     false  "页码"
// @Param        limit  query  int     false  "每页数量"
// @Success      200  {object}  object  "搜索结果"
// @Router       /api/animes [get]
func (h *Handler) Animes(c *gin.Context) {
	body, err := h.gatewayService.Animes(detached(c), c.Request.URL.Query())
	if err != nil {
		failUpstream(c, err, "Failed to fetch animes")
		return
	}
	writeRaw(c, body)
}

// Genres 类型列表
// @Summary      类型列表
// @Tags         主服务
// @Produce      json
// @Success      200  {object}  object{ok=bool,count=int,genres=[]string}  "类型列表"
// @Router       /api/genres [get]
func (h *Handler) Genres(c *gin.Context) {
	genres, err := h.gatewayService.Genres(detached(c))
	if err != nil {
		failUpstream(c, err, "Failed to fetch genres")
		return
	}
	response.Success(c, gin.H{"count": len(genres), "genres": genres})
}
