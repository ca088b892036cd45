package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anime-explorer/internal/pkg/version"
)

// Pinger 数据库连通性检查
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db     Pinger
	dbName string
}

func NewHandler(db Pinger, dbName string) *Handler {
	return &Handler{db: db, dbName: dbName}
}

// Check 数据服务健康检查，数据库不可达时仍返回 200，由 database.status 体现
// @Summary      健康检查
// @Tags         系统
// @Produce      json
// @Success      200  {object}  object  "健康状态"
// @Router       /health [get]
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "connected"
	status := "ok"
	if err := h.db.Ping(ctx); err != nil {
		dbStatus = "disconnected"
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      dbStatus == "connected",
		"status":  status,
		"service": "data-server",
		"version": version.GetVersion(),
		"database": gin.H{
			"status": dbStatus,
			"name":   h.dbName,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
