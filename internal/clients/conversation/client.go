// Package conversation 对话服务（Watson Conversation v1）客户端
package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "conversation_weather/internal/errors"
	"conversation_weather/internal/logger"
	"conversation_weather/internal/metrics"
	"conversation_weather/internal/models"
)

// Config 对话服务客户端配置
type Config struct {
	URL      string        // 服务地址，例如 https://gateway.watsonplatform.net/conversation/api
	Username string        // 用户名
	Password string        // 密码
	Version  string        // API版本日期
	Timeout  time.Duration // 请求超时
}

// Client 对话服务客户端
type Client struct {
	config Config
	client *http.Client
	logger logger.Logger
}

// MessageRequest 发送给对话服务的请求体
type MessageRequest struct {
	Input   map[string]interface{} `json:"input,omitempty"`
	Context map[string]interface{} `json:"context"`
}

// NewClient 创建新的对话服务客户端
func NewClient(config Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.OrNoOp(log).With(map[string]interface{}{"service": metrics.ServiceConversation}),
	}
}

// Message 发送一轮对话，实现models.ConversationService
func (c *Client) Message(ctx context.Context, workspaceID string, input, dialogContext map[string]interface{}) (*models.ConversationReply, error) {
	if dialogContext == nil {
		dialogContext = map[string]interface{}{}
	}

	jsonData, err := json.Marshal(MessageRequest{Input: input, Context: dialogContext})
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/workspaces/%s/message?version=%s",
		c.config.URL, url.PathEscape(workspaceID), url.QueryEscape(c.config.Version))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.config.Username, c.config.Password)

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamDuration.WithLabelValues(metrics.ServiceConversation).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewUpstreamTimeoutError(metrics.ServiceConversation, err)
		}
		return nil, apperrors.NewUpstreamServiceError(http.StatusInternalServerError, fmt.Sprintf("发送请求失败: %v", err), nil)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamServiceError(http.StatusInternalServerError, fmt.Sprintf("读取响应失败: %v", err), nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.upstreamError(resp.StatusCode, body)
	}

	var reply models.ConversationReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, apperrors.NewUpstreamServiceError(http.StatusInternalServerError, fmt.Sprintf("解析响应失败: %v", err), nil)
	}

	c.logger.Debug("对话服务回复", map[string]interface{}{
		"text":   reply.Output.Text.Lines,
		"action": reply.Output.Action,
	})
	return &reply, nil
}

// upstreamError 解析对话服务的错误体，状态码优先取错误体中的code
func (c *Client) upstreamError(status int, body []byte) error {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		payload = map[string]interface{}{"error": string(body), "code": status}
	}

	code := status
	if v, ok := payload["code"].(float64); ok && validStatus(int(v)) {
		code = int(v)
	}

	message, _ := payload["error"].(string)
	if message == "" {
		message = http.StatusText(status)
	}

	c.logger.Warn("对话服务返回错误", map[string]interface{}{
		"status": status,
		"code":   code,
		"error":  message,
	})
	return apperrors.NewUpstreamServiceError(code, message, payload)
}

// validStatus 错误体中的code只有在合法HTTP状态码范围内才采用
func validStatus(code int) bool {
	return code >= 100 && code <= 599
}
