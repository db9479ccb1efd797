package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthController ヘルスチェックに関するコントローラー
type HealthController struct {
	db        *gorm.DB
	rdb       *redis.Client
	startTime time.Time
}

// NewHealthController HealthControllerを作成
func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{
		db:        db,
		rdb:       rdb,
		startTime: time.Now(),
	}
}

// HealthStatus ヘルスステータスレスポンス
type HealthStatus struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// Check ヘルスチェック
func (c *HealthController) Check(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:    "ok",
		Database:  "ok",
		Redis:     "ok",
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(pingCtx) != nil {
		status.Database = "unavailable"
		status.Status = "degraded"
	}
	if err := c.rdb.Ping(pingCtx).Err(); err != nil {
		status.Redis = "unavailable"
		status.Status = "degraded"
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	ctx.JSON(code, status)
}
