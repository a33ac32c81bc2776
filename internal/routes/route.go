package routes

import (
	"net/http"

	"conversation_weather/internal/handlers"
	"conversation_weather/internal/logger"
	"conversation_weather/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes 注册所有路由，返回WebSocket处理器供关闭时清理连接
func RegisterRoutes(r *gin.Engine, turns models.TurnService, staticDir string, log logger.Logger) *handlers.DialogHandler {
	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 注册对话路由
	dialogHandler := RegisterDialogRoutes(r, turns, log)

	// 其余GET请求交给静态文件
	if staticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(staticDir))))
	}

	return dialogHandler
}
