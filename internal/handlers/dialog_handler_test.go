package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"conversation_weather/internal/logger"
	"conversation_weather/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTurns struct{}

func (echoTurns) ProcessTurn(context.Context, *models.ChatTurn) (*models.ConversationReply, error) {
	return &models.ConversationReply{Output: models.Output{Text: models.NewSingleText("ok")}}, nil
}

func TestDialogHandler_CloseIsIdempotent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDialogHandler(echoTurns{}, logger.NewTestLogger(t))
	r := gin.New()
	r.GET("/ws/message", h.HandleWebSocket)
	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/message?session_id=s1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.mu.RLock()
	session := h.sessions["s1"]
	h.mu.RUnlock()
	require.NotNil(t, session)

	// 关闭所有连接与会话自身的清理并发执行，只关闭一次
	h.Close()
	h.Close()
	assert.NoError(t, session.close())
	assert.Equal(t, 0, h.SessionCount())

	// 客户端收到正常关闭帧
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}
