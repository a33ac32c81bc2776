package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	apperrors "conversation_weather/internal/errors"
	"conversation_weather/internal/logger"
	"conversation_weather/internal/models"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// MessageHandler 处理 POST /api/message
type MessageHandler struct {
	turns  models.TurnService
	logger logger.Logger
}

// NewMessageHandler 创建消息处理器
func NewMessageHandler(turns models.TurnService, log logger.Logger) *MessageHandler {
	return &MessageHandler{
		turns:  turns,
		logger: logger.OrNoOp(log),
	}
}

// HandleMessage 转发一轮对话，返回（可能补充了天气的）对话服务回复
func (h *MessageHandler) HandleMessage(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		writeError(c, apperrors.NewInvalidRequestError(err))
		return
	}

	turn, err := decodeTurn(body)
	if err != nil {
		h.logger.Warn("请求体解析失败", map[string]interface{}{"error": err.Error()})
		writeError(c, apperrors.NewInvalidRequestError(err))
		return
	}

	reply, err := h.turns.ProcessTurn(c.Request.Context(), turn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// decodeTurn 解析请求体，空请求体视为不带输入和上下文的一轮
func decodeTurn(body []byte) (*models.ChatTurn, error) {
	turn := &models.ChatTurn{}
	if len(bytes.TrimSpace(body)) == 0 {
		return turn, nil
	}
	if err := json.Unmarshal(body, turn); err != nil {
		return nil, err
	}
	return turn, nil
}

// errorResponse 返回错误的状态码和响应体，上游错误体原样透传
func errorResponse(err error) (int, interface{}) {
	se, ok := apperrors.As(err)
	if !ok {
		se = apperrors.NewUpstreamServiceError(http.StatusInternalServerError, err.Error(), nil)
	}
	return se.HTTPStatus(), se.Body()
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := errorResponse(err)
	c.JSON(status, body)
}
