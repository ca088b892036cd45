/*
 * @Description: 主服务页面渲染
 * @Author: 安知鱼
 * @Date: 2025-10-15 09:32:40
 * @LastEditTime: 2025-10-16 14:02:11
 * @LastEditors: 安知鱼
 */
package page

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/gateway"
)

// TemplateName 首页与搜索页共用的模板
const TemplateName = "home.html"

// Handler 页面处理器
type Handler struct {
	gatewayService *gateway.Service
	title          string
}

// NewHandler 创建页面处理器
func NewHandler(gatewayService *gateway.Service, title string) *Handler {
	if title == "" {
		title = "Anime Explorer"
	}
	return &Handler{gatewayService: gatewayService, title: title}
}

// Home 首页，只需要类型列表
func (h *Handler) Home(c *gin.Context) {
	view, err := h.gatewayService.HomePage(context.WithoutCancel(c.Request.Context()))
	errMsg := ""
	if err != nil {
		log.Printf("首页获取类型列表失败: %v", err)
		errMsg = "Unable to load genres right now."
	}
	h.render(c, view, false, errMsg)
}

// Search 搜索页，后端失败时仍然渲染页面，只是结果为空并提示错误
func (h *Handler) Search(c *gin.Context) {
	view, err := h.gatewayService.SearchPage(context.WithoutCancel(c.Request.Context()), c.Request.URL.Query())
	errMsg := ""
	if err != nil {
		log.Printf("搜索页获取数据失败: %v", err)
		errMsg = "Search is temporarily unavailable. Please try again later."
	}
	h.render(c, view, true, errMsg)
}

func (h *Handler) render(c *gin.Context, view *model.BrowseView, searched bool, errMsg string) {
	c.HTML(http.StatusOK, TemplateName, gin.H{
		"title":    h.title,
		"view":     view,
		"searched": searched,
		"error":    errMsg,
		"sorts": []gin.H{
			{"value": model.SortTitleAsc, "label": "Title A-Z"},
			{"value": model.SortTitleDesc, "label": "Title Z-A"},
			{"value": model.SortYearAsc, "label": "Year (oldest)"},
			{"value": model.SortYearDesc, "label": "Year (newest)"},
		},
	})
}
