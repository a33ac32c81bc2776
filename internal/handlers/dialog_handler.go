package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"conversation_weather/internal/logger"
	"conversation_weather/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DialogHandler WebSocket对话处理器，每个文本帧是一轮对话
type DialogHandler struct {
	turns    models.TurnService
	upgrader websocket.Upgrader
	sessions map[string]*DialogSession
	logger   logger.Logger
	mu       sync.RWMutex
}

// DialogSession 一个WebSocket连接
type DialogSession struct {
	ID        string
	WSConn    *websocket.Conn
	mu        sync.Mutex
	closeOnce sync.Once
}

// closeWriteWait 发送关闭帧的超时
const closeWriteWait = time.Second

// errorFrame 处理失败时回给客户端的帧
type errorFrame struct {
	Code  int         `json:"code"`
	Error interface{} `json:"error"`
}

// NewDialogHandler 创建对话处理器
func NewDialogHandler(turns models.TurnService, log logger.Logger) *DialogHandler {
	return &DialogHandler{
		turns: turns,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: make(map[string]*DialogSession),
		logger:   logger.OrNoOp(log),
	}
}

// HandleWebSocket 处理WebSocket连接，连接关闭前不返回
func (h *DialogHandler) HandleWebSocket(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("升级WebSocket连接失败", map[string]interface{}{"error": err.Error()})
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	session := &DialogSession{
		ID:     sessionID,
		WSConn: ws,
	}

	h.mu.Lock()
	if old, ok := h.sessions[sessionID]; ok {
		_ = old.close()
	}
	h.sessions[sessionID] = session
	h.mu.Unlock()

	h.logger.Info("WebSocket连接建立", map[string]interface{}{"session_id": sessionID})
	h.handleSession(c, session)
}

// handleSession 按顺序处理会话中的每一轮
func (h *DialogHandler) handleSession(c *gin.Context, session *DialogSession) {
	defer func() {
		if err := session.close(); err != nil {
			h.logger.Debug("关闭WebSocket连接失败", map[string]interface{}{"session_id": session.ID, "error": err.Error()})
		}
		h.mu.Lock()
		if h.sessions[session.ID] == session {
			delete(h.sessions, session.ID)
		}
		h.mu.Unlock()
		h.logger.Info("WebSocket连接关闭", map[string]interface{}{"session_id": session.ID})
	}()

	for {
		messageType, data, err := session.WSConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("读取WebSocket消息失败", map[string]interface{}{"session_id": session.ID, "error": err.Error()})
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var response interface{}
		turn, err := decodeTurn(data)
		if err == nil {
			response, err = h.turns.ProcessTurn(c.Request.Context(), turn)
		}
		if err != nil {
			status, body := errorResponse(err)
			response = errorFrame{Code: status, Error: body}
		}

		if err := session.writeJSON(response); err != nil {
			h.logger.Warn("发送响应失败", map[string]interface{}{"session_id": session.ID, "error": err.Error()})
			return
		}
	}
}

// SessionCount 当前连接数
func (h *DialogHandler) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close 关闭所有连接
func (h *DialogHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, session := range h.sessions {
		_ = session.close()
		delete(h.sessions, id)
	}
}

func (s *DialogSession) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.WSConn.WriteJSON(v)
}

// close 发送关闭帧并关闭连接，只执行一次，之后调用返回nil
func (s *DialogSession) close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		werr := s.WSConn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(closeWriteWait))
		cerr := s.WSConn.Close()
		if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
			err = werr
		} else {
			err = cerr
		}
	})
	return err
}
