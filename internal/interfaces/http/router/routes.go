package router

import (
	"github.com/gin-gonic/gin"

	"manuscript-gen/internal/interfaces/http/handler"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, promptHandler *handler.PromptHandler, usageHandler *handler.UsageHandler) {
	v1.POST("/prompt", promptHandler.Execute)

	if usageHandler != nil {
		usage := v1.Group("/usage")
		{
			usage.GET("", usageHandler.Summary)
			usage.GET("/:id/events", usageHandler.Events)
		}
	}
}
