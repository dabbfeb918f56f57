package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker 依赖健康检查，nil 表示未启用
type HealthChecker func(ctx context.Context) error

// HealthHandler 健康检查
type HealthHandler struct {
	db    HealthChecker
	redis HealthChecker
}

// NewHealthHandler 创建HealthHandler实例
func NewHealthHandler(db, redis HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health 数据库不可用时返回503，Redis 不可用只降级
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":   "ok",
		"database": probe(ctx, h.db),
		"redis":    probe(ctx, h.redis),
		"time":     time.Now().Format(time.RFC3339),
	}
	if body["database"] != "up" {
		status = http.StatusServiceUnavailable
		body["status"] = "db-down"
	} else if body["redis"] == "down" {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

func probe(ctx context.Context, check HealthChecker) string {
	if check == nil {
		return "disabled"
	}
	if err := check(ctx); err != nil {
		return "down"
	}
	return "up"
}
