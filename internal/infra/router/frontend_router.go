/*
 * @Description: 主服务页面路由与模板渲染
 * @Author: 安知鱼
 * @Date: 2025-10-15 09:10:27
 * @LastEditTime: 2025-10-16 14:18:53
 * @LastEditors: 安知鱼
 */
package router

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/anzhiyu-c/anime-explorer/internal/app/middleware"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	page_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/page"
)

//go:embed templates/*.html
var templateFS embed.FS

type CustomHTMLRender struct{ Templates *template.Template }

func (r CustomHTMLRender) Instance(name string, data interface{}) render.Render {
	return render.HTML{Template: r.Templates, Name: name, Data: data}
}

// 全局 Debug 标志
var isDebugMode bool

// debugLog 根据 Debug 配置条件性地打印日志
func debugLog(format string, v ...interface{}) {
	if isDebugMode {
		log.Printf(format, v...)
	}
}

// templateFuncs 页面模板可用的辅助函数
var templateFuncs = template.FuncMap{
	"join":    strings.Join,
	"pageURL": pageURL,
}

// pageURL 保留当前搜索条件，只替换页码
func pageURL(q model.AnimeQuery, page int) string {
	params := url.Values{}
	if q.Q != "" {
		params.Set("q", q.Q)
	}
	if q.Genre != "" {
		params.Set("genre", q.Genre)
	}
	if q.Sort != "" {
		params.Set("sort", string(q.Sort))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	params.Set("page", strconv.Itoa(page))
	return "/search?" + params.Encode()
}

// LoadTemplates 解析内嵌的页面模板
func LoadTemplates() (*template.Template, error) {
	templates, err := template.New(page_handler.TemplateName).Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("解析页面模板失败: %w", err)
	}
	return templates, nil
}

// SetupFrontend 注册首页与搜索页
func SetupFrontend(engine *gin.Engine, pageHandler *page_handler.Handler, debug bool) error {
	isDebugMode = debug

	templates, err := LoadTemplates()
	if err != nil {
		return err
	}
	engine.HTMLRender = CustomHTMLRender{Templates: templates}
	debugLog("已加载页面模板: %s", templates.DefinedTemplates())

	pages := engine.Group("/")
	pages.Use(middleware.NoCache())
	{
		pages.GET("/", pageHandler.Home)
		pages.GET("/search", pageHandler.Search)
	}
	return nil
}
