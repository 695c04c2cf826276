package controller

import (
	"math_quest_backend/internal/service"
	"math_quest_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	// 内存存储时为空
	DB      *gorm.DB
	Runtime *service.Runtime
}

func NewHealthController(db *gorm.DB, runtime *service.Runtime) *HealthController {
	return &HealthController{DB: db, Runtime: runtime}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{"database": "disabled"}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			util.InternalServerError(ctx)
			return
		}

		if err := sqlDB.Ping(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		components["database"] = "up"
	}

	if _, err := c.Runtime.Owner(ctx.Request.Context()); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Ledger not instantiated")
		return
	}
	components["ledger"] = "up"

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
