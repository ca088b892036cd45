/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2025-10-18 16:30:06
 * @LastEditors: 安知鱼
 */
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anzhiyu-c/anime-explorer/cmd/server"
	"github.com/anzhiyu-c/anime-explorer/pkg/config"
)

// @title           Anime Explorer API
// @version         1.0
// @description     番剧数据服务与聚合服务接口文档

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:4001
// @BasePath  /
func main() {
	var (
		role       string
		configPath string
		importFile string
		limit      int
	)
	flag.StringVar(&role, "role", server.RoleData, "启动的服务: data（数据服务）或 main（主服务）")
	flag.StringVar(&configPath, "config", config.DefaultFilePath, "配置文件路径")
	flag.StringVar(&importFile, "import", "", "从本地 CSV 导入番剧后退出")
	flag.IntVar(&limit, "limit", 10, "命令行导入的最大行数")
	flag.Parse()

	cfg, err := config.NewConfigFromFile(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行导入模式：替换 csv 来源的数据后退出
	if importFile != "" {
		deleted, result, err := server.ImportCSV(context.Background(), cfg, importFile, limit)
		if err != nil {
			log.Fatalf("导入失败: %v", err)
		}
		log.Printf("✅ 导入完成: 删除旧记录 %d 条，扫描 %d 行，写入 %d/%d 条，失败批次 %d",
			deleted, result.Scanned, result.Written, result.Inserted, result.FailedBatches)
		return
	}

	var (
		app     *server.App
		cleanup func()
	)
	switch role {
	case server.RoleData:
		app, cleanup, err = server.NewDataApp(cfg)
	case server.RoleMain:
		app, cleanup, err = server.NewMainApp(cfg)
	default:
		log.Fatalf("未知的 role: %q（可选 data 或 main）", role)
	}
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	app.PrintBanner()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	serveErr := app.Serve(ctx)
	stop()
	cleanup()

	if serveErr != nil {
		os.Exit(1)
	}
}
