package routes

import (
	"conversation_weather/internal/handlers"
	"conversation_weather/internal/logger"
	"conversation_weather/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterDialogRoutes 注册对话相关路由
func RegisterDialogRoutes(r *gin.Engine, turns models.TurnService, log logger.Logger) *handlers.DialogHandler {
	// 创建处理器
	messageHandler := handlers.NewMessageHandler(turns, log)
	dialogHandler := handlers.NewDialogHandler(turns, log)

	r.POST("/api/message", messageHandler.HandleMessage)

	// 注册WebSocket路由
	r.GET("/ws/message", dialogHandler.HandleWebSocket)

	return dialogHandler
}
