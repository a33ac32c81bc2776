// Package middleware 提供HTTP中间件
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"conversation_weather/internal/logger"
	"conversation_weather/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求ID的请求/响应头
const RequestIDHeader = "X-Request-ID"

// requestIDKey gin.Context中保存请求ID的键
const requestIDKey = "request_id"

// unmatchedPath 未匹配路由（静态文件）的指标标签
const unmatchedPath = "unmatched"

// RequestID 为每个请求分配ID，客户端已带上时沿用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID 返回当前请求的ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger 访问日志中间件
func Logger(log logger.Logger) gin.HandlerFunc {
	log = logger.OrNoOp(log)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"request_id": GetRequestID(c),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("请求处理失败", fields)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("请求异常", fields)
		default:
			log.Info("请求完成", fields)
		}
	}
}

// Metrics 按方法、路由和状态码统计请求数
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Recovery 恢复中间件
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}

// CORS CORS中间件
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Setup 设置中间件
func Setup(r *gin.Engine, log logger.Logger) {
	r.Use(RequestID())
	r.Use(Logger(log))
	r.Use(Metrics())
	r.Use(Recovery())
	r.Use(CORS())
}
