/*
 * @Description: 导入与演示数据处理器（数据服务）
 * @Author: 安知鱼
 * @Date: 2025-10-14 14:02:51
 * @LastEditTime: 2025-10-16 11:05:12
 * @LastEditors: 安知鱼
 */
package importer

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	"github.com/anzhiyu-c/anime-explorer/pkg/response"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/importer"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/query"
)

type Handler struct {
	importService *importer.ImportService
	defaultLimit  int
}

func NewHandler(importService *importer.ImportService, defaultLimit int) *Handler {
	if defaultLimit < 1 {
		defaultLimit = importer.DefaultImportLimit
	}
	return &Handler{importService: importService, defaultLimit: defaultLimit}
}

// Import 从本地文件或 S3 导入 CSV
// @Summary      导入番剧 CSV
// @Description  file 为服务器本地路径或 s3://bucket/key；同一时间只允许一个导入任务
// @Tags         导入
// @Produce      json
// @Param        file   query  string  true   "导入源"
// @Param        limit  query  int     false  "最多导入的行数"  default(20000)
// @Success      200  {object}  object  "导入结果"
// @Failure      400  {object}  response.ErrorBody  "缺少 file 参数或文件不存在"
// @Failure      409  {object}  response.ErrorBody  "已有导入任务正在执行"
// @Failure      429  {object}  response.ErrorBody  "请求过于频繁"
// @Router       /import-details [post]
func (h *Handler) Import(c *gin.Context) {
	file := strings.TrimSpace(c.Query("file"))
	if file == "" {
		response.Fail(c, http.StatusBadRequest, constant.CodeBadRequest, "Missing ?file=", "请通过 file 参数指定导入源")
		return
	}
	limit := query.ParsePositive(c.Query("limit"), h.defaultLimit)

	// 客户端断开不应中断已经开始的导入
	ctx := context.WithoutCancel(c.Request.Context())
	result, err := h.importService.ImportSource(ctx, file, importer.ImportOptions{Limit: limit, Source: model.SourceImport})
	if err != nil {
		log.Printf("导入 %s 失败: %v", file, err)
		response.FailWithError(c, err, "Import failed")
		return
	}

	response.Success(c, gin.H{
		"message":       "Import finished",
		"file":          file,
		"scannedRows":   result.Scanned,
		"inserted":      result.Inserted,
		"written":       result.Written,
		"failedBatches": result.FailedBatches,
	})
}

// Seed 写入演示数据
// @Summary      写入演示数据
// @Description  删除旧的演示数据后写入10条演示记录，可重复执行
// @Tags         导入
// @Produce      json
// @Success      200  {object}  object{ok=bool,inserted=int}  "写入成功"
// @Router       /seed-demo [post]
func (h *Handler) Seed(c *gin.Context) {
	inserted, err := h.importService.SeedDemo(c.Request.Context())
	if err != nil {
		log.Printf("写入演示数据失败: %v", err)
		response.FailWithError(c, err, "Seed failed")
		return
	}
	response.Success(c, gin.H{"inserted": inserted})
}
