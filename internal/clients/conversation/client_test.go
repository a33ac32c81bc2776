package conversation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conversation_weather/internal/clients/conversation"
	apperrors "conversation_weather/internal/errors"
	"conversation_weather/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, url string) *conversation.Client {
	return conversation.NewClient(conversation.Config{
		URL:      url,
		Username: "user",
		Password: "secret",
		Version:  "2016-07-11",
		Timeout:  2 * time.Second,
	}, logger.NewTestLogger(t))
}

func TestClient_Message(t *testing.T) {
	// 创建测试服务器
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/workspaces/ws-123/message", r.URL.Path)
		assert.Equal(t, "2016-07-11", r.URL.Query().Get("version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)

		var req conversation.MessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what's the temperature in Austin", req.Input["text"])
		assert.Equal(t, "abc", req.Context["conversation_id"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"input": {"text": "what's the temperature in Austin"},
			"alternate_intents": false,
			"intents": [{"intent": "weather", "confidence": 0.98}],
			"entities": [{"entity": "city", "value": "Austin"}],
			"output": {"text": ["Sure.", "Temperature in "], "action": "get_weather", "nodes_visited": ["node_1"]},
			"context": {"conversation_id": "abc", "city": "Austin", "condition": "temperature", "date": "current"}
		}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	reply, err := client.Message(context.Background(), "ws-123",
		map[string]interface{}{"text": "what's the temperature in Austin"},
		map[string]interface{}{"conversation_id": "abc"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Sure.", "Temperature in "}, reply.Output.Text.Lines)
	assert.Equal(t, "get_weather", reply.Output.Action)
	assert.Equal(t, []string{"node_1"}, reply.Output.NodesVisited)
	assert.Equal(t, "Austin", reply.Context["city"])
	assert.Len(t, reply.Intents, 1)
	assert.JSONEq(t, "false", string(reply.Extra["alternate_intents"]))
}

func TestClient_MessageSendsEmptyContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]interface{}{}, raw["context"])
		_, hasInput := raw["input"]
		assert.False(t, hasInput)
		w.Write([]byte(`{"output": {"text": ["Hello. How can I help you?"]}, "context": {"conversation_id": "new"}}`))
	}))
	defer server.Close()

	reply, err := newClient(t, server.URL).Message(context.Background(), "ws", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello. How can I help you?", reply.Output.Text.Last())
}

func TestClient_MessageErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{
			name:       "错误体中的code优先",
			status:     http.StatusNotFound,
			body:       `{"error": "Resource not found", "code": 404}`,
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]interface{}{"error": "Resource not found", "code": float64(404)},
		},
		{
			name:       "没有code时使用HTTP状态码",
			status:     http.StatusUnauthorized,
			body:       `{"error": "Not Authorized"}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]interface{}{"error": "Not Authorized"},
		},
		{
			name:       "code超出状态码范围时使用HTTP状态码",
			status:     http.StatusServiceUnavailable,
			body:       `{"error": "Service busy", "code": 4242}`,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]interface{}{"error": "Service busy", "code": float64(4242)},
		},
		{
			name:       "code过小时使用HTTP状态码",
			status:     http.StatusBadRequest,
			body:       `{"error": "Bad input", "code": 42}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": "Bad input", "code": float64(42)},
		},
		{
			name:       "非JSON错误体",
			status:     http.StatusBadGateway,
			body:       `upstream down`,
			wantStatus: http.StatusBadGateway,
			wantBody:   map[string]interface{}{"error": "upstream down", "code": http.StatusBadGateway},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newClient(t, server.URL).Message(context.Background(), "ws", nil, nil)
			se, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeUpstreamService, se.Code)
			assert.Equal(t, tt.wantStatus, se.HTTPStatus())
			assert.Equal(t, tt.wantBody, se.Body())
		})
	}
}

func TestClient_MessageTransportErrors(t *testing.T) {
	// 无效的服务器地址
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newClient(t, url).Message(context.Background(), "ws", nil, nil)
	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, se.HTTPStatus())

	// 超时
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer slow.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = newClient(t, slow.URL).Message(ctx, "ws", nil, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamTimeout))

	// 无效JSON
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output": `))
	}))
	defer bad.Close()
	_, err = newClient(t, bad.URL).Message(context.Background(), "ws", nil, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamService))
}
