// Package errors 提供统一的错误类型，供HTTP层映射状态码使用
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode 内部错误码
type ErrorCode string

const (
	ErrCodeConfigurationMissing ErrorCode = "CONFIGURATION_MISSING"
	ErrCodeUpstreamService      ErrorCode = "UPSTREAM_SERVICE_ERROR"
	ErrCodeUpstreamTimeout      ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeDateOutOfRange       ErrorCode = "DATE_OUT_OF_RANGE"
	ErrCodeWeatherLookupFailed  ErrorCode = "WEATHER_LOOKUP_FAILED"
	ErrCodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
)

// StandardError 结构化的应用错误
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"error"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	StatusCode int                    `json:"-"`

	// upstream 上游服务返回的原始错误体，透传给调用方
	upstream map[string]interface{}
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus 返回响应状态码，未指定时为500
func (e *StandardError) HTTPStatus() int {
	if e.StatusCode <= 0 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}

// Body 返回写给客户端的响应体；上游错误原样透传
func (e *StandardError) Body() interface{} {
	if e.upstream != nil {
		return e.upstream
	}
	return e
}

// NewUpstreamServiceError 创建对话服务错误，status为0时按500处理
func NewUpstreamServiceError(status int, message string, body map[string]interface{}) *StandardError {
	return &StandardError{
		Code:       ErrCodeUpstreamService,
		Message:    message,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
		upstream:   body,
	}
}

// NewUpstreamTimeoutError 创建上游超时错误
func NewUpstreamTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamTimeout,
		Message:   fmt.Sprintf("%s request timed out", service),
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewDateOutOfRangeError 创建日期超出范围错误，message直接作为回复文本
func NewDateOutOfRangeError(message string, diff int) *StandardError {
	return &StandardError{
		Code:      ErrCodeDateOutOfRange,
		Message:   message,
		Metadata:  map[string]interface{}{"diff": diff},
		Timestamp: time.Now().UTC(),
	}
}

// NewWeatherLookupFailedError 创建天气查询失败错误
func NewWeatherLookupFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWeatherLookupFailed,
		Message:   "Weather lookup failed",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError 创建请求体解析错误
func NewInvalidRequestError(err error) *StandardError {
	return &StandardError{
		Code:       ErrCodeInvalidRequest,
		Message:    "Invalid request body",
		Details:    err.Error(),
		StatusCode: http.StatusBadRequest,
		Timestamp:  time.Now().UTC(),
	}
}

// As 从错误链中提取StandardError
func As(err error) (*StandardError, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCode 判断错误链中是否包含指定错误码
func IsCode(err error, code ErrorCode) bool {
	se, ok := As(err)
	return ok && se.Code == code
}
