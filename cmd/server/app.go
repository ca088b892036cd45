/*
 * @Description: 应用装配：数据服务、主服务与命令行导入
 * @Author: 安知鱼
 * @Date: 2025-10-17 10:35:28
 * @LastEditTime: 2025-10-18 16:15:28
 * @LastEditors: 安知鱼
 */
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/anzhiyu-c/anime-explorer/internal/app/task"
	"github.com/anzhiyu-c/anime-explorer/internal/infra/persistence/database"
	mongo_impl "github.com/anzhiyu-c/anime-explorer/internal/infra/persistence/mongo"
	"github.com/anzhiyu-c/anime-explorer/internal/infra/router"
	"github.com/anzhiyu-c/anime-explorer/internal/infra/storage"
	"github.com/anzhiyu-c/anime-explorer/internal/pkg/upstream"
	"github.com/anzhiyu-c/anime-explorer/internal/pkg/version"
	"github.com/anzhiyu-c/anime-explorer/pkg/config"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	anime_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/anime"
	gateway_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/gateway"
	health_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/health"
	importer_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/importer"
	page_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/page"
	rating_handler "github.com/anzhiyu-c/anime-explorer/pkg/handler/rating"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/gateway"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/importer"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/query"
	rating_service "github.com/anzhiyu-c/anime-explorer/pkg/service/rating"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/search"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/utility"
)

// 角色
const (
	RoleData = "data"
	RoleMain = "main"
)

const shutdownTimeout = 10 * time.Second

// App 结构体，用于封装一个 HTTP 服务的核心组件
type App struct {
	role      string
	cfg       *config.Config
	engine    *gin.Engine
	server    *http.Server
	scheduler *task.Scheduler
}

func (a *App) PrintBanner() {
	banner := `

       █████╗ ███╗   ██╗██╗███╗   ███╗███████╗
      ██╔══██╗████╗  ██║██║████╗ ████║██╔════╝
      ███████║██╔██╗ ██║██║██╔████╔██║█████╗
      ██╔══██║██║╚██╗██║██║██║╚██╔╝██║██╔══╝
      ██║  ██║██║ ╚████║██║██║ ╚═╝ ██║███████╗
      ╚═╝  ╚═╝╚═╝  ╚═══╝╚═╝╚═╝     ╚═╝╚══════╝

`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Printf(" Anime Explorer (%s server): %s", a.role, version.GetVersionString())
	log.Println("--------------------------------------------------------")
}

// newEngine 按 System.Debug 切换 gin 模式
func newEngine(cfg *config.Config) (*gin.Engine, error) {
	if cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.DebugMode)
		log.Println("运行模式: Debug (Gin 将打印详细路由日志)")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("运行模式: Release (Gin 启动日志已禁用)")
	}

	engine := gin.Default()
	if err := engine.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}); err != nil {
		return nil, fmt.Errorf("设置信任代理失败: %w", err)
	}
	engine.ForwardedByClientIP = true
	return engine, nil
}

// openStore 连接 Mongo 并创建番剧与评分仓库
func openStore(ctx context.Context, cfg *config.Config) (*mongodriver.Client, *mongo_impl.Store, error) {
	client, err := database.NewMongoClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store := mongo_impl.NewStore(
		client,
		cfg.GetString(config.KeyMongoDatabase),
		cfg.GetString(config.KeyMongoCollection),
		cfg.GetString(config.KeyMongoRatingsCollection),
		cfg.GetSeconds(config.KeyMongoTimeout, 5*time.Second),
	)
	return client, store, nil
}

// newImportSources 本地文件总是可用；S3 客户端创建失败时只禁用 s3:// 导入源
func newImportSources(ctx context.Context, cfg *config.Config) storage.SourceOpener {
	var s3Source storage.SourceOpener
	s3, err := storage.NewS3Source(ctx, storage.S3Options{
		Region:    cfg.GetString(config.KeyS3Region),
		Endpoint:  cfg.GetString(config.KeyS3Endpoint),
		AccessKey: cfg.GetString(config.KeyS3AccessKey),
		SecretKey: cfg.GetString(config.KeyS3SecretKey),
	})
	if err != nil {
		log.Printf("⚠️ S3 导入源不可用: %v", err)
	} else {
		s3Source = s3
	}
	return storage.NewMultiSource(storage.NewLocalSource(""), s3Source)
}

// NewDataApp 构建数据服务：Mongo 查询、导入与评分接口
func NewDataApp(cfg *config.Config) (*App, func(), error) {
	ctx := context.Background()

	mongoClient, store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 尝试连接 Redis（如果失败，导入锁降级到进程内实现）
	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, nil, fmt.Errorf("redis 初始化失败: %w", err)
	}

	// --- 服务层 ---
	builder := query.NewBuilder(cfg.GetInt(config.KeySearchDefaultPageSize), cfg.GetInt(config.KeySearchMaxPageSize))
	searchSvc := search.NewSearchService(store.Animes)
	ratingSvc := rating_service.NewRatingService(store.Ratings)
	importSvc := importer.NewImportService(
		store.Animes,
		newImportSources(ctx, cfg),
		utility.NewLockerWithFallback(redisClient),
		cfg.GetInt(config.KeyImportBatchSize),
	)

	// --- 处理器与路由 ---
	engine, err := newEngine(cfg)
	if err != nil {
		closeStores(mongoClient, redisClient)
		return nil, nil, err
	}
	dataRouter := router.NewDataRouter(
		anime_handler.NewHandler(searchSvc, builder),
		importer_handler.NewHandler(importSvc, cfg.GetInt(config.KeyImportDefaultLimit)),
		rating_handler.NewHandler(ratingSvc),
		health_handler.NewHandler(store.Animes, cfg.GetString(config.KeyMongoDatabase)),
		cfg.GetInt(config.KeyImportRateLimitPerMinute),
	)
	dataRouter.Setup(engine)

	app := &App{
		role:   RoleData,
		cfg:    cfg,
		engine: engine,
		server: &http.Server{Addr: ":" + cfg.GetString(config.KeyDataServerPort), Handler: engine},
	}

	cleanup := func() {
		log.Println("执行清理操作：关闭数据库连接...")
		closeStores(mongoClient, redisClient)
	}
	return app, cleanup, nil
}

// NewMainApp 构建主服务：页面渲染与聚合接口，不直接访问数据库
func NewMainApp(cfg *config.Config) (*App, func(), error) {
	timeout := cfg.GetSeconds(config.KeyBackendTimeout, gateway.DefaultTimeout)
	gatewaySvc := gateway.NewGatewayService(upstream.NewClient(timeout), gateway.Options{
		DataURL:       cfg.GetString(config.KeyBackendDataURL),
		RatingsURL:    cfg.GetString(config.KeyBackendRatingsURL),
		Timeout:       timeout,
		HealthTimeout: cfg.GetSeconds(config.KeyBackendHealthTimeout, gateway.DefaultHealthTimeout),
	})

	engine, err := newEngine(cfg)
	if err != nil {
		return nil, nil, err
	}
	mainRouter := router.NewMainRouter(
		gateway_handler.NewHandler(gatewaySvc),
		page_handler.NewHandler(gatewaySvc, ""),
		cfg.GetBool(config.KeyServerDebug),
	)
	if err := mainRouter.Setup(engine); err != nil {
		return nil, nil, err
	}

	scheduler := task.NewScheduler(gatewaySvc)
	if err := scheduler.RegisterJobs(cfg.GetString(config.KeyGatewayProbeSchedule)); err != nil {
		return nil, nil, err
	}

	app := &App{
		role:      RoleMain,
		cfg:       cfg,
		engine:    engine,
		server:    &http.Server{Addr: ":" + cfg.GetString(config.KeyMainServerPort), Handler: engine},
		scheduler: scheduler,
	}
	return app, func() {}, nil
}

// ImportCSV 命令行导入：删除 csv 来源的旧记录后重新导入本地文件
func ImportCSV(ctx context.Context, cfg *config.Config, path string, limit int) (deleted int64, result *model.ImportResult, err error) {
	mongoClient, store, err := openStore(ctx, cfg)
	if err != nil {
		return 0, nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	defer closeStores(mongoClient, nil)

	rc, err := storage.NewLocalSource("").Open(ctx, path)
	if err != nil {
		return 0, nil, err
	}
	defer rc.Close()

	importSvc := importer.NewImportService(store.Animes, nil, nil, cfg.GetInt(config.KeyImportBatchSize))
	return importSvc.ReplaceSource(ctx, rc, importer.ImportOptions{Limit: limit, Source: model.SourceCLI})
}

func closeStores(mongoClient *mongodriver.Client, redisClient *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("关闭 MongoDB 连接失败: %v", err)
		}
	}
	if redisClient != nil {
		log.Println("关闭 Redis 连接...")
		redisClient.Close()
	}
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

// Run 启动后台任务并阻塞监听，Stop 触发的关闭不视为错误
func (a *App) Run() error {
	if a.scheduler != nil {
		a.scheduler.Start()
	}
	log.Printf("应用程序启动成功 (%s)，正在监听: %s", a.role, a.server.Addr)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve 运行应用直到 ctx 结束或监听失败，两种情况都会执行 Stop；
// 监听失败（端口占用等）时返回该错误
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	var runErr error
	select {
	case runErr = <-errCh:
		if runErr != nil {
			log.Printf("应用运行失败: %v", runErr)
		}
	case <-ctx.Done():
		log.Println("收到退出信号，正在关闭...")
	}
	a.Stop()
	return runErr
}

// Stop 停止接收新请求，等待进行中的请求完成，然后停止任务调度器
func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		log.Printf("关闭 HTTP 服务失败: %v", err)
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
		log.Println("任务调度器已停止。")
	}
}
