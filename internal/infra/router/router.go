/*
 * @Description: 数据服务与主服务的路由注册
 * @Author: 安知鱼
 * @Date: 2025-06-15 11:30:55
 * @LastEditTime: 2025-10-16 14:26:09
 * @LastEditors: 安知鱼
 */
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anime-explorer/internal/app/middleware"
	anime_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/anime"
	gateway_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/gateway"
	health_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/health"
	importer_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/importer"
	page_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/page"
	rating_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/rating"
)

// DataRouter 数据服务的路由和其依赖的处理器
type DataRouter struct {
	animeHandler    *anime_handler.Handler
	importerHandler *importer_handler.Handler
	ratingHandler   *rating_handler.Handler
	healthHandler   *health_handler.Handler
	importPerMinute int
}

// NewDataRouter 通过依赖注入接收所有处理器
func NewDataRouter(
	animeHandler *anime_handler.Handler,
	importerHandler *importer_handler.Handler,
	ratingHandler *rating_handler.Handler,
	healthHandler *health_handler.Handler,
	importPerMinute int,
) *DataRouter {
	return &DataRouter{
		animeHandler:    animeHandler,
		importerHandler: importerHandler,
		ratingHandler:   ratingHandler,
		healthHandler:   healthHandler,
		importPerMinute: importPerMinute,
	}
}

func (r *DataRouter) Setup(engine *gin.Engine) {
	engine.Use(middleware.Cors())
	engine.NoRoute(anime_handler.NotFound)

	engine.GET("/health", r.healthHandler.Check)

	r.registerAnimeRoutes(engine)
	r.registerImportRoutes(engine)

	apiGroup := engine.Group("/api")
	apiGroup.Use(middleware.NoCache())
	r.registerAPIRoutes(apiGroup)
	r.registerRatingRoutes(apiGroup)
}

func (r *DataRouter) registerAnimeRoutes(engine *gin.Engine) {
	animes := engine.Group("/animes")
	{
		animes.GET("", r.animeHandler.List)
		animes.GET("/search", r.animeHandler.Search)
	}
	engine.GET("/genres", r.animeHandler.Genres)
}

func (r *DataRouter) registerImportRoutes(engine *gin.Engine) {
	perMinute := r.importPerMinute
	if perMinute < 1 {
		perMinute = 6
	}
	// 导入是重操作，单独限流
	engine.POST("/import-details", middleware.CustomRateLimit(perMinute, 1), r.importerHandler.Import)
	engine.POST("/seed-demo", r.importerHandler.Seed)
}

func (r *DataRouter) registerAPIRoutes(api *gin.RouterGroup) {
	anime := api.Group("/anime")
	{
		anime.GET("/search", r.animeHandler.SearchByTitle)
		anime.GET("/top-rated", r.animeHandler.TopRated)
		anime.GET("/count", r.animeHandler.Count)
		anime.GET("/:id", r.animeHandler.Detail)
	}
}

func (r *DataRouter) registerRatingRoutes(api *gin.RouterGroup) {
	ratings := api.Group("/ratings")
	{
		ratings.GET("/anime/:animeId", r.ratingHandler.ForAnime)
		ratings.GET("/user/:userId", r.ratingHandler.ForUser)
	}
}

// MainRouter 主服务：页面渲染与聚合接口
type MainRouter struct {
	gatewayHandler *gateway_handler.Handler
	pageHandler    *page_handler.Handler
	debug          bool
}

func NewMainRouter(gatewayHandler *gateway_handler.Handler, pageHandler *page_handler.Handler, debug bool) *MainRouter {
	return &MainRouter{gatewayHandler: gatewayHandler, pageHandler: pageHandler, debug: debug}
}

func (r *MainRouter) Setup(engine *gin.Engine) error {
	engine.Use(middleware.Cors())
	engine.NoRoute(anime_handler.NotFound)

	apiGroup := engine.Group("/api")
	apiGroup.Use(middleware.NoCache())
	{
		apiGroup.GET("/health", r.gatewayHandler.Health)
		apiGroup.GET("/anime/search", r.gatewayHandler.SearchByTitle)
		apiGroup.GET("/anime/top-rated", r.gatewayHandler.TopRated)
		apiGroup.GET("/anime/:id", r.gatewayHandler.AnimeDetail)
		apiGroup.GET("/ratings/user/:userId", r.gatewayHandler.UserRatings)
		apiGroup.GET("/animes", r.gatewayHandler.Animes)
		apiGroup.GET("/genres", r.gatewayHandler.Genres)
	}

	return SetupFrontend(engine, r.pageHandler, r.debug)
}
